package apps

import (
	"slices"
	"strings"
)

// buffer is a line-oriented text buffer with a single cursor. Columns count
// runes.
type buffer struct {
	lines [][]rune
	row   int
	col   int
}

func newBuffer(text string) *buffer {
	b := &buffer{}
	b.set(text)
	return b
}

func (b *buffer) set(text string) {
	parts := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	b.lines = make([][]rune, len(parts))
	for i, p := range parts {
		b.lines[i] = []rune(p)
	}
	b.row, b.col = 0, 0
}

func (b *buffer) String() string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(l)
	}
	return strings.Join(out, "\n")
}

func (b *buffer) insert(s string) {
	for _, r := range s {
		if r == '\n' {
			b.newline()
			continue
		}
		line := b.lines[b.row]
		b.lines[b.row] = slices.Insert(line, b.col, r)
		b.col++
	}
}

func (b *buffer) newline() {
	line := b.lines[b.row]
	tail := slices.Clone(line[b.col:])
	b.lines[b.row] = line[:b.col]
	b.lines = slices.Insert(b.lines, b.row+1, tail)
	b.row++
	b.col = 0
}

// backspace deletes the rune before the cursor, joining lines at column 0.
func (b *buffer) backspace() bool {
	switch {
	case b.col > 0:
		b.lines[b.row] = slices.Delete(b.lines[b.row], b.col-1, b.col)
		b.col--
	case b.row > 0:
		prev := b.lines[b.row-1]
		b.col = len(prev)
		b.lines[b.row-1] = append(prev, b.lines[b.row]...)
		b.lines = slices.Delete(b.lines, b.row, b.row+1)
		b.row--
	default:
		return false
	}
	return true
}

// del deletes the rune under the cursor, joining lines at end of line.
func (b *buffer) del() bool {
	line := b.lines[b.row]
	switch {
	case b.col < len(line):
		b.lines[b.row] = slices.Delete(line, b.col, b.col+1)
	case b.row < len(b.lines)-1:
		b.lines[b.row] = append(line, b.lines[b.row+1]...)
		b.lines = slices.Delete(b.lines, b.row+1, b.row+2)
	default:
		return false
	}
	return true
}

func (b *buffer) left() {
	switch {
	case b.col > 0:
		b.col--
	case b.row > 0:
		b.row--
		b.col = len(b.lines[b.row])
	}
}

func (b *buffer) right() {
	switch {
	case b.col < len(b.lines[b.row]):
		b.col++
	case b.row < len(b.lines)-1:
		b.row++
		b.col = 0
	}
}

func (b *buffer) up(n int) {
	b.row = max(b.row-n, 0)
	b.col = min(b.col, len(b.lines[b.row]))
}

func (b *buffer) down(n int) {
	b.row = min(b.row+n, len(b.lines)-1)
	b.col = min(b.col, len(b.lines[b.row]))
}

func (b *buffer) home() { b.col = 0 }

func (b *buffer) end() { b.col = len(b.lines[b.row]) }
