package apps

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/theme"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
)

// NotepadTitle is the notepad window's title.
const NotepadTitle = "Untitled - Notepad"

// DefaultAutosave is the delay between the last edit and the save.
const DefaultAutosave = time.Second

const storeTimeout = 5 * time.Second

// NoteStore persists the notepad's text. *storage.Notes implements it.
type NoteStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, content string) error
}

type (
	noteLoadedMsg struct {
		n       *NotepadApp
		content string
		err     error
	}
	noteAutosaveMsg struct {
		n   *NotepadApp
		rev int
	}
	noteSavedMsg struct {
		n   *NotepadApp
		rev int
		err error
	}
)

func (m noteLoadedMsg) Target() Body   { return m.n }
func (m noteAutosaveMsg) Target() Body { return m.n }
func (m noteSavedMsg) Target() Body    { return m.n }

// NotepadApp is a plain text editor whose content is saved automatically
// shortly after the last keystroke.
type NotepadApp struct {
	store    *trackedNotes
	autosave time.Duration
	logger   *log.Logger

	buf      *buffer
	rev      int // bumped on every edit
	savedRev int
	loaded   bool
	saveErr  error
	top      int
	left     int
}

// NewNotepad returns an empty editor. A nil store disables persistence.
func NewNotepad(store NoteStore, autosave time.Duration, logger *log.Logger) *NotepadApp {
	if autosave <= 0 {
		autosave = DefaultAutosave
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tracked := trackNotes(store)
	return &NotepadApp{
		store:    tracked,
		autosave: autosave,
		logger:   logger,
		buf:      newBuffer(""),
		loaded:   tracked == nil,
	}
}

// Text returns the editor's content.
func (n *NotepadApp) Text() string { return n.buf.String() }

// Cursor returns the cursor's line and column, both zero based.
func (n *NotepadApp) Cursor() (row, col int) { return n.buf.row, n.buf.col }

// Dirty reports whether there are edits that have not been saved.
func (n *NotepadApp) Dirty() bool { return n.rev != n.savedRev }

// Init loads the stored note.
func (n *NotepadApp) Init() tea.Cmd {
	if n.store == nil {
		return nil
	}
	store := n.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		content, err := store.Load(ctx)
		return noteLoadedMsg{n: n, content: content, err: err}
	}
}

// Update handles the notepad's own load, autosave and save messages.
func (n *NotepadApp) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case noteLoadedMsg:
		n.loaded = true
		if msg.err != nil {
			n.logger.Warn("failed to load note", "err", msg.err)
			return nil
		}
		// Typing before the load finished wins over the stored text.
		if n.rev == 0 {
			n.buf.set(msg.content)
		}
	case noteAutosaveMsg:
		if msg.rev == n.rev && n.Dirty() {
			return n.save()
		}
	case noteSavedMsg:
		n.saveErr = msg.err
		if msg.err != nil {
			n.logger.Warn("failed to save note", "err", msg.err)
			return nil
		}
		n.savedRev = max(n.savedRev, msg.rev)
	}
	return nil
}

// Close flushes unsaved edits.
func (n *NotepadApp) Close() tea.Cmd {
	if !n.Dirty() {
		return nil
	}
	return n.save()
}

func (n *NotepadApp) save() tea.Cmd {
	if n.store == nil {
		return nil
	}
	store, content, rev := n.store, n.buf.String(), n.rev
	seq := store.begin(content)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		err := store.Save(ctx, content)
		store.finish(seq)
		return noteSavedMsg{n: n, rev: rev, err: err}
	}
}

// edited records a change and schedules the debounced save. Earlier
// schedules are superseded by comparing revisions when they fire.
func (n *NotepadApp) edited() tea.Cmd {
	n.rev++
	rev := n.rev
	return tea.Tick(n.autosave, func(time.Time) tea.Msg {
		return noteAutosaveMsg{n: n, rev: rev}
	})
}

// HandleKey edits the buffer.
func (n *NotepadApp) HandleKey(msg tea.KeyPressMsg) tea.Cmd {
	b := n.buf
	switch msg.String() {
	case "left":
		b.left()
	case "right":
		b.right()
	case "up":
		b.up(1)
	case "down":
		b.down(1)
	case "pgup":
		b.up(10)
	case "pgdown":
		b.down(10)
	case "home":
		b.home()
	case "end":
		b.end()
	case "enter":
		b.newline()
		return n.edited()
	case "backspace":
		if b.backspace() {
			return n.edited()
		}
	case "delete":
		if b.del() {
			return n.edited()
		}
	case "tab":
		b.insert("    ")
		return n.edited()
	case "ctrl+n":
		b.set("")
		return n.edited()
	case "ctrl+s":
		if n.Dirty() {
			return n.save()
		}
	default:
		if msg.Text == "" || msg.Mod.Contains(tea.ModCtrl) || msg.Mod.Contains(tea.ModAlt) {
			return nil
		}
		b.insert(msg.Text)
		return n.edited()
	}
	return nil
}

var notepadMenu = []string{"File", "Edit", "Format", "View", "Help"}

// View draws the menu bar, the text and a status line.
func (n *NotepadApp) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	menuStyle := lipgloss.NewStyle().Foreground(theme.WindowText())
	statusStyle := lipgloss.NewStyle().Foreground(theme.Muted())
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	rows := make([]string, 0, height)
	rows = append(rows, fit(menuStyle.Render(" "+strings.Join(notepadMenu, "  ")), width))
	textHeight := height - 2
	if textHeight <= 0 {
		return strings.Join(rows, "\n")
	}

	b := n.buf
	if b.row < n.top {
		n.top = b.row
	}
	if b.row >= n.top+textHeight {
		n.top = b.row - textHeight + 1
	}
	if b.col < n.left {
		n.left = b.col
	}
	if b.col >= n.left+width {
		n.left = b.col - width + 1
	}

	for i := range textHeight {
		row := n.top + i
		if row >= len(b.lines) {
			rows = append(rows, "")
			continue
		}
		line := b.lines[row]
		visible := line[min(n.left, len(line)):]
		if row != b.row {
			rows = append(rows, fit(string(visible), width))
			continue
		}
		c := b.col - n.left
		under := " "
		if c < len(visible) {
			under = string(visible[c])
		}
		before := string(visible[:min(c, len(visible))])
		after := ""
		if c+1 < len(visible) {
			after = string(visible[c+1:])
		}
		rows = append(rows, fit(before+cursorStyle.Render(under)+after, width))
	}

	state := "Saved"
	switch {
	case !n.loaded:
		state = "Loading..."
	case n.saveErr != nil:
		state = "Save failed"
	case n.Dirty():
		state = "Modified"
	}
	status := fmt.Sprintf(" Ln %d, Col %d   %s", b.row+1, b.col+1, state)
	rows = append(rows, fit(statusStyle.Render(status), width))
	return strings.Join(rows, "\n")
}

// fit truncates s to width cells.
func fit(s string, width int) string {
	return ansi.Truncate(s, width, "")
}
