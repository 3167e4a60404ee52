package taskbar

import (
	"fmt"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/tuixp/internal/wm"
)

func newManager() *wm.Manager {
	n := 0
	return wm.New(wm.DefaultGeometry(),
		wm.WithViewport(1280, 800),
		wm.WithIDFunc(func() string {
			n++
			return fmt.Sprintf("w%d", n)
		}),
	)
}

func TestButtonsFollowManager(t *testing.T) {
	m := newManager()
	tb := New()
	tb.Attach(m)

	a := m.Open(wm.OpenOptions{Title: "Notepad"})
	b := m.Open(wm.OpenOptions{Title: "My Gallery"})
	c := m.Open(wm.OpenOptions{Title: "About"})

	buttons := tb.Buttons()
	if len(buttons) != m.Len() {
		t.Fatalf("buttons = %d, windows = %d", len(buttons), m.Len())
	}
	for i, want := range []string{"Notepad", "My Gallery", "About"} {
		if buttons[i].Title != want {
			t.Errorf("button %d = %q, want %q", i, buttons[i].Title, want)
		}
	}
	if !buttons[2].Active || buttons[0].Active || buttons[1].Active {
		t.Errorf("only the last opened button should be active: %+v", buttons)
	}

	m.Minimize(b.ID)
	if bt := tb.Buttons()[1]; !bt.Minimized || bt.Active {
		t.Errorf("minimized button = %+v", bt)
	}

	m.Close(a.ID)
	buttons = tb.Buttons()
	if len(buttons) != 2 || buttons[0].ID != b.ID || buttons[1].ID != c.ID {
		t.Errorf("buttons after close = %+v", buttons)
	}
}

func TestClick(t *testing.T) {
	m := newManager()
	tb := New()
	tb.Attach(m)

	a := m.Open(wm.OpenOptions{Title: "A"})
	b := m.Open(wm.OpenOptions{Title: "B"})

	tests := []struct {
		name  string
		setup func()
		click string
		want  string
	}{
		{name: "focus background window", click: a.ID, want: a.ID},
		{
			name:  "restore minimized window",
			setup: func() { m.Minimize(b.ID) },
			click: b.ID,
			want:  b.ID,
		},
		{name: "unknown id", click: "gone", want: b.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			tb.Click(tt.click)
			f, ok := m.Focused()
			if !ok || f.ID != tt.want {
				t.Errorf("focused = %q, want %q", f.ID, tt.want)
			}
			if f.Minimized {
				t.Error("focused window is minimized")
			}
		})
	}
}

func TestAttachExistingWindows(t *testing.T) {
	m := newManager()
	m.Open(wm.OpenOptions{Title: "A"})
	m.Open(wm.OpenOptions{Title: "B"})

	tb := New()
	tb.Attach(m)
	if got := len(tb.Buttons()); got != 2 {
		t.Fatalf("buttons = %d, want 2", got)
	}

	tb.Detach()
	m.Open(wm.OpenOptions{Title: "C"})
	if got := len(tb.Buttons()); got != 0 {
		t.Errorf("detached taskbar has %d buttons", got)
	}
}

func TestStartMenu(t *testing.T) {
	tb := New()
	if tb.StartMenuOpen() {
		t.Fatal("menu open initially")
	}
	tb.ToggleStartMenu()
	if !tb.StartMenuOpen() {
		t.Fatal("toggle did not open the menu")
	}

	// My Computer, Notepad, My Gallery, About, ---, Log Off, Shut Down
	tb.MoveSelection(4)
	item, _ := tb.SelectedItem()
	if item.Action != LogOff {
		t.Errorf("selection skipped to %q, want Log Off", item.Label)
	}
	tb.MoveSelection(-1)
	item, _ = tb.SelectedItem()
	if item.App != AppAbout {
		t.Errorf("selection = %q, want About", item.Label)
	}
	tb.MoveSelection(-4)
	item, _ = tb.SelectedItem()
	if item.Action != ShutDown {
		t.Errorf("wrapped selection = %q, want Shut Down", item.Label)
	}

	if _, ok := tb.Choose(4); ok {
		t.Error("separator was chosen")
	}
	item, ok := tb.Choose(1)
	if !ok || item.App != AppNotepad {
		t.Errorf("Choose(1) = %+v", item)
	}
	if tb.StartMenuOpen() {
		t.Error("menu still open after choosing")
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		hour, min int
		format    string
		want      string
	}{
		{0, 5, Clock12h, "12:05 AM"},
		{9, 30, Clock12h, "9:30 AM"},
		{12, 0, Clock12h, "12:00 PM"},
		{15, 4, Clock12h, "3:04 PM"},
		{23, 59, Clock12h, "11:59 PM"},
		{0, 5, Clock24h, "00:05"},
		{15, 4, Clock24h, "15:04"},
		{7, 1, "", "7:01 AM"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ts := time.Date(2024, 1, 1, tt.hour, tt.min, 0, 0, time.UTC)
			if got := FormatClock(ts, tt.format); got != tt.want {
				t.Errorf("FormatClock = %q, want %q", got, tt.want)
			}
		})
	}
}
