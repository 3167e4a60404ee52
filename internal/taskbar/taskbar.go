// Package taskbar keeps the taskbar's button list, the start menu and the
// clock in sync with the window manager.
package taskbar

import (
	"slices"

	"github.com/Gaurav-Gosain/tuixp/internal/wm"
)

// Button is one taskbar entry, in window open order.
type Button struct {
	ID        string
	Title     string
	Icon      string
	Active    bool
	Minimized bool
}

// Taskbar mirrors the manager's windows as buttons.
type Taskbar struct {
	m       *wm.Manager
	buttons []Button
	unsub   func()

	menu menuState
	user string
}

// New returns a detached taskbar.
func New() *Taskbar {
	return &Taskbar{menu: menuState{items: DefaultMenu()}}
}

// Attach subscribes the taskbar to m and rebuilds its buttons from the
// windows m already holds. Attaching again replaces the previous manager.
func (t *Taskbar) Attach(m *wm.Manager) {
	t.Detach()
	t.m = m
	t.buttons = t.buttons[:0]
	for _, id := range m.OpenOrder() {
		t.add(id)
	}
	t.unsub = m.Subscribe(t.handle)
}

// Detach stops following the manager.
func (t *Taskbar) Detach() {
	if t.unsub != nil {
		t.unsub()
		t.unsub = nil
	}
	t.m = nil
	t.buttons = nil
}

func (t *Taskbar) handle(ev wm.Event) {
	switch ev.Kind {
	case wm.Opened:
		t.add(ev.WindowID)
	case wm.Closed:
		t.buttons = slices.DeleteFunc(t.buttons, func(b Button) bool {
			return b.ID == ev.WindowID
		})
		t.refresh()
	case wm.Focused, wm.Minimized, wm.Restored:
		t.refresh()
	}
}

func (t *Taskbar) add(id string) {
	if slices.ContainsFunc(t.buttons, func(b Button) bool { return b.ID == id }) {
		return
	}
	w, ok := t.m.Window(id)
	if !ok {
		return
	}
	t.buttons = append(t.buttons, Button{ID: id, Title: w.Title, Icon: w.Icon})
	t.refresh()
}

func (t *Taskbar) refresh() {
	for i := range t.buttons {
		w, ok := t.m.Window(t.buttons[i].ID)
		if !ok {
			continue
		}
		t.buttons[i].Title = w.Title
		t.buttons[i].Active = w.Focused
		t.buttons[i].Minimized = w.Minimized
	}
}

// Buttons returns a copy of the buttons in open order.
func (t *Taskbar) Buttons() []Button {
	return slices.Clone(t.buttons)
}

// Click handles a taskbar button press: a minimized window is restored and
// focused, any other window is focused. Unknown ids are ignored.
func (t *Taskbar) Click(id string) {
	if t.m == nil {
		return
	}
	w, ok := t.m.Window(id)
	if !ok {
		return
	}
	t.CloseStartMenu()
	if w.Minimized {
		t.m.Restore(id)
		return
	}
	t.m.Focus(id)
}

// SetUser records the logged-in user shown in the start menu header.
func (t *Taskbar) SetUser(name string) {
	t.user = name
}

// User returns the logged-in user.
func (t *Taskbar) User() string {
	return t.user
}
