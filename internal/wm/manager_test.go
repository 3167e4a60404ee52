package wm

import (
	"errors"
	"fmt"
	"testing"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("w%d", n)
	}
}

func newTestManager(opts ...Option) *Manager {
	opts = append([]Option{WithIDFunc(seqIDs()), WithViewport(1280, 800)}, opts...)
	return New(DefaultGeometry(), opts...)
}

func mustWindow(t *testing.T, m *Manager, id string) Window {
	t.Helper()
	w, ok := m.Window(id)
	if !ok {
		t.Fatalf("window %q not found", id)
	}
	return w
}

func TestOpenCascade(t *testing.T) {
	m := newTestManager()

	want := []Bounds{
		{X: 100, Y: 80, Width: 600, Height: 400},
		{X: 130, Y: 110, Width: 600, Height: 400},
		{X: 160, Y: 140, Width: 600, Height: 400},
	}
	for i, wb := range want {
		h := m.Open(OpenOptions{Title: fmt.Sprintf("win %d", i)})
		w := mustWindow(t, m, h.ID)
		if w.Bounds != wb {
			t.Errorf("window %d bounds = %+v, want %+v", i, w.Bounds, wb)
		}
	}

	ws := m.Windows()
	if len(ws) != 3 {
		t.Fatalf("Len = %d, want 3", len(ws))
	}
	if ws[0].Z != 101 || ws[1].Z != 102 || ws[2].Z != 103 {
		t.Errorf("z values = %d,%d,%d, want 101,102,103", ws[0].Z, ws[1].Z, ws[2].Z)
	}
	f, ok := m.Focused()
	if !ok || f.ID != ws[2].ID {
		t.Errorf("focused = %q, want %q", f.ID, ws[2].ID)
	}
	for _, w := range ws[:2] {
		if w.Focused {
			t.Errorf("window %q should not be focused", w.ID)
		}
	}
}

func TestOpenSizes(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{name: "defaults", wantW: 600, wantH: 400},
		{name: "explicit", width: 700, height: 500, wantW: 700, wantH: 500},
		{name: "below minimum", width: 100, height: 50, wantW: 300, wantH: 200},
		{name: "exact minimum", width: 300, height: 200, wantW: 300, wantH: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager()
			h := m.Open(OpenOptions{Width: tt.width, Height: tt.height})
			w := mustWindow(t, m, h.ID)
			if w.Bounds.Width != tt.wantW || w.Bounds.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", w.Bounds.Width, w.Bounds.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestOpenExplicitPosition(t *testing.T) {
	m := newTestManager()
	m.Open(OpenOptions{})
	h := m.Open(OpenOptions{X: At(5), Y: At(0)})
	w := mustWindow(t, m, h.ID)
	if w.Bounds.X != 5 || w.Bounds.Y != 0 {
		t.Errorf("position = (%d,%d), want (5,0)", w.Bounds.X, w.Bounds.Y)
	}
}

func TestUniqueIDsAndIncreasingZ(t *testing.T) {
	m := New(DefaultGeometry())
	seen := make(map[string]bool)
	lastZ := 0
	var ids []string
	for range 20 {
		h := m.Open(OpenOptions{})
		if seen[h.ID] {
			t.Fatalf("duplicate id %q", h.ID)
		}
		seen[h.ID] = true
		ids = append(ids, h.ID)
		w := mustWindow(t, m, h.ID)
		if w.Z <= lastZ {
			t.Fatalf("z %d not greater than %d", w.Z, lastZ)
		}
		lastZ = w.Z
	}

	// close some and reopen: ids are never reused
	for _, id := range ids[:10] {
		m.Close(id)
	}
	for range 10 {
		h := m.Open(OpenOptions{})
		if seen[h.ID] {
			t.Fatalf("reused id %q", h.ID)
		}
		w := mustWindow(t, m, h.ID)
		if w.Z <= lastZ {
			t.Fatalf("z %d not greater than %d", w.Z, lastZ)
		}
		lastZ = w.Z
	}
}

func TestFocusTwice(t *testing.T) {
	m := newTestManager()
	a := m.Open(OpenOptions{})
	b := m.Open(OpenOptions{})

	m.Focus(a.ID)
	z1 := mustWindow(t, m, a.ID).Z
	m.Focus(a.ID)
	z2 := mustWindow(t, m, a.ID).Z

	if z2 <= z1 {
		t.Errorf("second focus z = %d, want > %d", z2, z1)
	}
	if w := mustWindow(t, m, a.ID); !w.Focused {
		t.Error("a should be focused")
	}
	if w := mustWindow(t, m, b.ID); w.Focused {
		t.Error("b should not be focused")
	}
	if ws := m.Windows(); ws[len(ws)-1].ID != a.ID {
		t.Errorf("top window = %q, want %q", ws[len(ws)-1].ID, a.ID)
	}
}

func TestMaximizeRoundTrip(t *testing.T) {
	m := newTestManager()
	h := m.Open(OpenOptions{X: At(130), Y: At(110), Width: 600, Height: 400})
	before := mustWindow(t, m, h.ID)

	m.ToggleMaximize(h.ID)
	w := mustWindow(t, m, h.ID)
	if !w.Maximized {
		t.Fatal("window should be maximized")
	}
	if want := (Bounds{0, 0, 1280, 800}); w.Bounds != want {
		t.Errorf("maximized bounds = %+v, want %+v", w.Bounds, want)
	}
	if w.SavedBounds != before.Bounds {
		t.Errorf("saved bounds = %+v, want %+v", w.SavedBounds, before.Bounds)
	}

	m.ToggleMaximize(h.ID)
	w = mustWindow(t, m, h.ID)
	if w.Maximized {
		t.Fatal("window should not be maximized")
	}
	if w.Bounds != before.Bounds {
		t.Errorf("restored bounds = %+v, want %+v", w.Bounds, before.Bounds)
	}
}

func TestSetViewportRefitsMaximized(t *testing.T) {
	m := newTestManager()
	a := m.Open(OpenOptions{})
	b := m.Open(OpenOptions{})
	m.ToggleMaximize(a.ID)

	m.SetViewport(1024, 700)

	if w := mustWindow(t, m, a.ID); w.Bounds != (Bounds{0, 0, 1024, 700}) {
		t.Errorf("maximized bounds = %+v", w.Bounds)
	}
	if w := mustWindow(t, m, b.ID); w.Bounds.Width != 600 {
		t.Errorf("normal window resized to %+v", w.Bounds)
	}
	m.ToggleMaximize(a.ID)
	if w := mustWindow(t, m, a.ID); w.Bounds != (Bounds{100, 80, 600, 400}) {
		t.Errorf("restored bounds = %+v", w.Bounds)
	}
}

func TestMinimizeAndTaskbarRestore(t *testing.T) {
	m := newTestManager()
	a := m.Open(OpenOptions{})
	b := m.Open(OpenOptions{})
	zb := mustWindow(t, m, b.ID).Z

	m.Minimize(b.ID)
	w := mustWindow(t, m, b.ID)
	if !w.Minimized || w.Visible() {
		t.Fatal("b should be minimized")
	}
	f, ok := m.Focused()
	if !ok || f.ID != a.ID {
		t.Fatalf("focus after minimize = %q, want %q", f.ID, a.ID)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}

	// minimizing again is a no-op
	m.Minimize(b.ID)

	m.Restore(b.ID)
	w = mustWindow(t, m, b.ID)
	if w.Minimized || !w.Focused {
		t.Errorf("b after restore: minimized=%v focused=%v", w.Minimized, w.Focused)
	}
	if w.Z <= zb {
		t.Errorf("restore z = %d, want > %d", w.Z, zb)
	}
}

func TestMinimizeKeepsMaximized(t *testing.T) {
	m := newTestManager()
	h := m.Open(OpenOptions{})
	m.ToggleMaximize(h.ID)
	m.Minimize(h.ID)
	m.Restore(h.ID)

	w := mustWindow(t, m, h.ID)
	if !w.Maximized || w.Minimized {
		t.Errorf("maximized=%v minimized=%v, want true,false", w.Maximized, w.Minimized)
	}
}

func TestMinimizeLastVisibleClearsFocus(t *testing.T) {
	m := newTestManager()
	h := m.Open(OpenOptions{})
	m.Minimize(h.ID)
	if _, ok := m.Focused(); ok {
		t.Error("no window should be focused")
	}
}

func TestCloseFocusFallback(t *testing.T) {
	m := newTestManager()
	a := m.Open(OpenOptions{})
	b := m.Open(OpenOptions{})
	c := m.Open(OpenOptions{})
	m.Minimize(b.ID)
	za := mustWindow(t, m, a.ID).Z

	m.Close(c.ID)

	f, ok := m.Focused()
	if !ok || f.ID != a.ID {
		t.Fatalf("focus after close = %q, want %q", f.ID, a.ID)
	}
	if f.Z != za {
		t.Errorf("fallback focus bumped z from %d to %d", za, f.Z)
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	m := newTestManager()
	h := m.Open(OpenOptions{})
	before := m.Windows()

	m.Close(h.ID)
	m.Focus(h.ID)
	m.Minimize(h.ID)
	m.Restore(h.ID)
	m.ToggleMaximize(h.ID)
	m.Close(h.ID)
	m.Focus("nope")

	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
	if _, ok := m.Window(h.ID); ok {
		t.Error("closed window still reachable")
	}
	if h.Alive(m) {
		t.Error("handle should be dead")
	}
	if len(before) != 1 {
		t.Errorf("before = %d windows, want 1", len(before))
	}
}

func TestTopmostAt(t *testing.T) {
	m := newTestManager()
	a := m.Open(OpenOptions{X: At(0), Y: At(0), Width: 400, Height: 300})
	b := m.Open(OpenOptions{X: At(100), Y: At(100), Width: 400, Height: 300})

	tests := []struct {
		name   string
		x, y   int
		wantID string
		wantOK bool
	}{
		{name: "only a", x: 10, y: 10, wantID: a.ID, wantOK: true},
		{name: "overlap picks top", x: 150, y: 150, wantID: b.ID, wantOK: true},
		{name: "only b", x: 450, y: 350, wantID: b.ID, wantOK: true},
		{name: "empty desktop", x: 900, y: 700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := m.TopmostAt(tt.x, tt.y)
			if ok != tt.wantOK || w.ID != tt.wantID {
				t.Errorf("TopmostAt(%d,%d) = %q,%v want %q,%v", tt.x, tt.y, w.ID, ok, tt.wantID, tt.wantOK)
			}
		})
	}

	m.Minimize(b.ID)
	if w, _ := m.TopmostAt(150, 150); w.ID != a.ID {
		t.Errorf("minimized window hit: got %q", w.ID)
	}
}

func TestEventsAndNotifications(t *testing.T) {
	var notified []EventKind
	notifier := NotifierFunc(func(k EventKind) error {
		notified = append(notified, k)
		return errors.New("no audio device")
	})
	m := newTestManager(WithNotifier(notifier))

	var events []EventKind
	unsub := m.Subscribe(func(ev Event) {
		events = append(events, ev.Kind)
	})

	h := m.Open(OpenOptions{})
	m.ToggleMaximize(h.ID)
	m.ToggleMaximize(h.ID)
	m.Minimize(h.ID)
	m.Restore(h.ID)
	m.Close(h.ID)

	wantEvents := []EventKind{Opened, Focused, Maximized, Unmaximized, Minimized, Focused, Restored, Closed, Focused}
	if fmt.Sprint(events) != fmt.Sprint(wantEvents) {
		t.Errorf("events = %v, want %v", events, wantEvents)
	}
	wantNotified := []EventKind{Opened, Maximized, Minimized, Closed}
	if fmt.Sprint(notified) != fmt.Sprint(wantNotified) {
		t.Errorf("notified = %v, want %v", notified, wantNotified)
	}

	unsub()
	m.Open(OpenOptions{})
	if len(events) != len(wantEvents) {
		t.Errorf("unsubscribed handler still called")
	}
}

func TestWindowsSnapshotIsCopy(t *testing.T) {
	m := newTestManager()
	h := m.Open(OpenOptions{Title: "Notepad"})
	ws := m.Windows()
	ws[0].Title = "changed"
	ws[0].Bounds.X = -50
	if w := mustWindow(t, m, h.ID); w.Title != "Notepad" || w.Bounds.X != 100 {
		t.Errorf("snapshot mutation leaked: %+v", w)
	}
}

func TestOpenOrder(t *testing.T) {
	m := newTestManager()
	a := m.Open(OpenOptions{})
	b := m.Open(OpenOptions{})
	c := m.Open(OpenOptions{})
	m.Focus(a.ID)
	m.Close(b.ID)

	got := m.OpenOrder()
	if len(got) != 2 || got[0] != a.ID || got[1] != c.ID {
		t.Errorf("OpenOrder = %v, want [%s %s]", got, a.ID, c.ID)
	}
}

func TestCloseAll(t *testing.T) {
	m := newTestManager()
	a := m.Open(OpenOptions{Title: "a"})
	b := m.Open(OpenOptions{Title: "b"})
	var closed []string
	m.Subscribe(func(ev Event) {
		if ev.Kind == Closed {
			closed = append(closed, ev.WindowID)
		}
	})

	m.CloseAll()
	if m.Len() != 0 {
		t.Fatalf("%d windows left", m.Len())
	}
	if fmt.Sprint(closed) != fmt.Sprint([]string{b.ID, a.ID}) {
		t.Errorf("closed = %v, want topmost first", closed)
	}
	m.CloseAll()
}
