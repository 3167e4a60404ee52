package tape

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
)

// Gaps shorter than this are not written as Sleep.
const minRecordedSleep = 250 * time.Millisecond

// Recorder turns the input of a live session into a tape script.
type Recorder struct {
	mu       sync.Mutex
	now      func() time.Time
	started  time.Time
	last     time.Time
	commands []Command
	press    *tea.Mouse // left button held since this point
	lastTap  time.Time  // time of the last recorded click
}

// NewRecorder creates a recorder. now may be nil.
func NewRecorder(now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	t := now()
	return &Recorder{now: now, started: t, last: t}
}

// Record notes an input message. Anything else is ignored.
func (r *Recorder) Record(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		r.recordKey(msg)
	case tea.MouseClickMsg:
		m := tea.Mouse(msg)
		switch m.Button {
		case tea.MouseLeft:
			r.press = &m
		case tea.MouseRight:
			r.add(Command{Type: CommandType_RightClick, Args: coords(m.X, m.Y)})
		}
	case tea.MouseReleaseMsg:
		if r.press == nil {
			return
		}
		from, to := *r.press, tea.Mouse(msg)
		r.press = nil
		if from.X != to.X || from.Y != to.Y {
			r.add(Command{Type: CommandType_Drag, Args: coords(from.X, from.Y, to.X, to.Y)})
			return
		}
		r.recordClick(from)
	}
}

func (r *Recorder) recordKey(msg tea.KeyPressMsg) {
	key := msg.Key()
	if key.Text != "" && key.Mod&(tea.ModCtrl|tea.ModAlt) == 0 {
		if n := len(r.commands); n > 0 && r.commands[n-1].Type == CommandType_Type && r.gap() < minRecordedSleep {
			r.commands[n-1].Args[0] += key.Text
			r.last = r.now()
			return
		}
		r.add(Command{Type: CommandType_Type, Args: []string{key.Text}})
		return
	}

	stroke := msg.Keystroke()
	if n := len(r.commands); n > 0 && r.gap() < minRecordedSleep {
		if prev := &r.commands[n-1]; prev.Type == CommandType_Key && prev.Args[0] == stroke {
			prev.Repeat++
			r.last = r.now()
			return
		}
	}
	r.add(Command{Type: CommandType_Key, Args: []string{stroke}, Repeat: 1})
}

// recordClick folds a second click on the same cell into a DoubleClick.
func (r *Recorder) recordClick(m tea.Mouse) {
	now := r.now()
	if n := len(r.commands); n > 0 && now.Sub(r.lastTap) < 500*time.Millisecond {
		prev := &r.commands[n-1]
		if prev.Type == CommandType_Click && prev.Args[0] == strconv.Itoa(m.X) && prev.Args[1] == strconv.Itoa(m.Y) {
			prev.Type = CommandType_DoubleClick
			r.last = now
			r.lastTap = time.Time{}
			return
		}
	}
	r.add(Command{Type: CommandType_Click, Args: coords(m.X, m.Y)})
	r.lastTap = now
}

func (r *Recorder) gap() time.Duration {
	return r.now().Sub(r.last)
}

// add appends cmd, preceded by a Sleep for a long enough pause.
func (r *Recorder) add(cmd Command) {
	now := r.now()
	if gap := now.Sub(r.last).Round(10 * time.Millisecond); gap >= minRecordedSleep && len(r.commands) > 0 {
		r.commands = append(r.commands, Command{Type: CommandType_Sleep, Args: []string{gap.String()}, Delay: gap})
	}
	cmd.Line = len(r.commands) + 1
	r.commands = append(r.commands, cmd)
	r.last = now
}

func coords(v ...int) []string {
	out := make([]string, len(v))
	for i, n := range v {
		out[i] = strconv.Itoa(n)
	}
	return out
}

// Commands returns a copy of what has been recorded.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

// WriteTo writes the recording as a tape script.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total int64
	write := func(format string, args ...any) error {
		n, err := fmt.Fprintf(w, format, args...)
		total += int64(n)
		return err
	}
	if err := write("# Recorded %s\n\n", r.started.Format(time.RFC3339)); err != nil {
		return total, err
	}
	for _, c := range r.commands {
		if err := write("%s\n", c); err != nil {
			return total, err
		}
	}
	return total, nil
}
