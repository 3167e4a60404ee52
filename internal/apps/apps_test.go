package apps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/wm"
)

func newTestLauncher(t *testing.T) (*Launcher, *wm.Manager) {
	t.Helper()
	n := 0
	m := wm.New(wm.DefaultGeometry(),
		wm.WithViewport(1280, 800),
		wm.WithIDFunc(func() string { n++; return fmt.Sprintf("w%d", n) }),
	)
	specs := Catalog(CatalogOptions{
		Size: func(k Kind) (int, int) {
			if k == Gallery {
				return 700, 500
			}
			return 0, 0
		},
		Probe: func(context.Context) (SystemInfo, error) { return SystemInfo{Hostname: "box"}, nil },
	})
	return NewLauncher(m, specs), m
}

func TestLaunchOpensWindow(t *testing.T) {
	l, m := newTestLauncher(t)

	h, _, ok := l.Launch(Gallery)
	if !ok {
		t.Fatal("Launch(gallery) refused")
	}
	w, ok := m.Lookup(h)
	if !ok {
		t.Fatal("gallery window missing")
	}
	if w.Title != "My Gallery" || w.Icon != Icons[Gallery] {
		t.Errorf("window = %q %q", w.Title, w.Icon)
	}
	if w.Bounds.Width != 700 || w.Bounds.Height != 500 {
		t.Errorf("size = %dx%d, want 700x500", w.Bounds.Width, w.Bounds.Height)
	}
	if _, ok := w.Body.(*GalleryApp); !ok {
		t.Errorf("body = %T, want *GalleryApp", w.Body)
	}
}

func TestLaunchIsSingleton(t *testing.T) {
	l, m := newTestLauncher(t)

	first, _, _ := l.Launch(Notepad)
	l.Launch(About)
	again, cmd, _ := l.Launch(Notepad)

	if again != first {
		t.Errorf("second launch opened %q, want %q", again.ID, first.ID)
	}
	if cmd != nil {
		t.Error("focusing an open app returned an init command")
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
	if f, _ := m.Focused(); f.ID != first.ID {
		t.Errorf("focused = %q, want notepad", f.ID)
	}
}

func TestLaunchRestoresMinimized(t *testing.T) {
	l, m := newTestLauncher(t)
	h, _, _ := l.Launch(About)
	m.Minimize(h.ID)

	l.Launch(About)
	w, _ := m.Lookup(h)
	if w.Minimized || !w.Focused {
		t.Errorf("window minimized=%v focused=%v", w.Minimized, w.Focused)
	}
}

func TestLaunchAfterClose(t *testing.T) {
	l, m := newTestLauncher(t)
	h, _, _ := l.Launch(About)
	m.Close(h.ID)
	if _, ok := l.Handle(About); ok {
		t.Error("Handle reports a closed window")
	}

	h2, _, _ := l.Launch(About)
	if h2 == h {
		t.Error("reopened window reused the old id")
	}
	if !h2.Alive(m) {
		t.Error("reopened window is not alive")
	}
}

func TestLaunchUnknown(t *testing.T) {
	l, m := newTestLauncher(t)
	if _, _, ok := l.Launch("minesweeper"); ok {
		t.Error("unknown app launched")
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d", m.Len())
	}
}

func TestLaunchReturnsInit(t *testing.T) {
	l, _ := newTestLauncher(t)
	if _, cmd, _ := l.Launch(Computer); cmd == nil {
		t.Error("My Computer did not return its probe command")
	}
	if _, cmd, _ := l.Launch(Gallery); cmd != nil {
		t.Error("gallery returned an init command")
	}
}

func TestGalleryNavigation(t *testing.T) {
	g := NewGallery()
	// 45 columns fit three 15 cell cards per row.
	g.View(45, 20)

	tests := []struct {
		key  rune
		want int
	}{
		{tea.KeyRight, 1},
		{tea.KeyDown, 4},
		{tea.KeyLeft, 3},
		{tea.KeyUp, 0},
		{tea.KeyUp, 0},
		{tea.KeyLeft, 0},
		{tea.KeyEnd, 11},
		{tea.KeyRight, 11},
		{tea.KeyDown, 11},
		{tea.KeyHome, 0},
	}
	for i, tt := range tests {
		g.HandleKey(tea.KeyPressMsg{Code: tt.key})
		if got := g.Selected(); got != tt.want {
			t.Fatalf("step %d: selected = %d, want %d", i, got, tt.want)
		}
	}
}

func TestGalleryView(t *testing.T) {
	g := NewGallery()
	g.Select(4)
	view := g.View(45, 12)
	lines := strings.Split(view, "\n")
	if len(lines) != 12 {
		t.Errorf("view has %d lines, want 12", len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "card5.jpeg") {
		t.Errorf("caption = %q", lines[len(lines)-1])
	}
	if len(GalleryCards) != 12 {
		t.Errorf("gallery has %d cards", len(GalleryCards))
	}
}

func TestComputerSamples(t *testing.T) {
	calls := 0
	c := NewComputer(func(context.Context) (SystemInfo, error) {
		calls++
		return SystemInfo{Hostname: "box", CPUs: 4, CPUPercent: float64(calls * 10)}, nil
	}, nil)

	for range 3 {
		msg := c.Init()()
		if c.Update(msg) == nil {
			t.Fatal("sample did not schedule a refresh")
		}
	}
	info, ok := c.Info()
	if !ok || info.Hostname != "box" {
		t.Errorf("info = %+v, %v", info, ok)
	}
	if got := c.CPUHistory(); len(got) != 3 || got[2] != 30 {
		t.Errorf("history = %v", got)
	}
	if refresh := c.Update(sysRefreshMsg{c: c}); refresh == nil {
		t.Error("refresh did not sample")
	}
	if !strings.Contains(c.View(60, 20), "box") {
		t.Error("view does not show the host name")
	}
}

func TestComputerProbeFailure(t *testing.T) {
	c := NewComputer(func(context.Context) (SystemInfo, error) {
		return SystemInfo{}, errors.New("no /proc")
	}, nil)
	c.Update(c.Init()())
	if _, ok := c.Info(); ok {
		t.Error("Info ok after failure")
	}
	if !strings.Contains(c.View(60, 10), "unavailable") {
		t.Error("view does not report the failure")
	}
}

func TestCPUGraph(t *testing.T) {
	tests := []struct {
		name    string
		history []float64
		want    string
	}{
		{name: "empty", history: nil, want: "             0%"},
		{name: "levels", history: []float64{0, 50, 100}, want: "       ▁▅█ 100%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CPUGraph(tt.history); got != tt.want {
				t.Errorf("CPUGraph = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := humanBytes(tt.in); got != tt.want {
			t.Errorf("humanBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplaySettings(t *testing.T) {
	d := NewDisplay(Settings{Theme: "", ClockFormat: "12h", Volume: 0.5})

	cmd := d.HandleKey(tea.KeyPressMsg{Code: tea.KeyRight})
	if cmd == nil {
		t.Fatal("change did not emit a message")
	}
	msg, ok := cmd().(SettingsChangedMsg)
	if !ok || msg.Settings.Theme != "dracula" {
		t.Errorf("msg = %+v", msg)
	}

	d.HandleKey(tea.KeyPressMsg{Code: tea.KeyDown})
	d.HandleKey(tea.KeyPressMsg{Code: tea.KeyEnter})
	if d.Settings().ClockFormat != "24h" {
		t.Errorf("clock = %q", d.Settings().ClockFormat)
	}

	d.HandleKey(tea.KeyPressMsg{Code: tea.KeyDown})
	d.HandleKey(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if !d.Settings().Muted {
		t.Error("sounds not muted")
	}

	d.HandleKey(tea.KeyPressMsg{Code: tea.KeyDown})
	for range 8 {
		d.HandleKey(tea.KeyPressMsg{Code: tea.KeyRight})
	}
	if d.Settings().Volume != 1 {
		t.Errorf("volume = %v, want 1", d.Settings().Volume)
	}

	if cmd := d.HandleKey(tea.KeyPressMsg{Code: tea.KeyUp}); cmd != nil {
		t.Error("moving the selection emitted a change")
	}
	if d.Selected() != 2 {
		t.Errorf("selected = %d", d.Selected())
	}
}

func TestAboutView(t *testing.T) {
	a := NewAbout("1.2.3")
	if !strings.Contains(a.View(50, 10), "1.2.3") {
		t.Error("version missing from the about window")
	}
	a.HandleKey(tea.KeyPressMsg{Code: tea.KeyDown})
	if strings.Contains(a.View(50, 10), "1.2.3") {
		t.Error("scrolling did not move the text")
	}
}
