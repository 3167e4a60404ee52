package apps

import (
	"slices"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/wm"
)

// Spec describes how to open an application's window.
type Spec struct {
	Title  string
	Icon   string
	Width  int
	Height int
	New    func() Body
}

// Launcher opens applications. Each kind has at most one window: launching
// an application that is already open focuses its window instead, restoring
// it first when it is minimized.
type Launcher struct {
	m     *wm.Manager
	specs map[Kind]Spec
	open  map[Kind]wm.Handle
}

// NewLauncher returns a launcher that opens windows in m.
func NewLauncher(m *wm.Manager, specs map[Kind]Spec) *Launcher {
	return &Launcher{
		m:     m,
		specs: specs,
		open:  make(map[Kind]wm.Handle),
	}
}

// Kinds returns the registered applications in a stable order.
func (l *Launcher) Kinds() []Kind {
	kinds := make([]Kind, 0, len(l.specs))
	for k := range l.specs {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Spec returns the registration for kind.
func (l *Launcher) Spec(kind Kind) (Spec, bool) {
	s, ok := l.specs[kind]
	return s, ok
}

// Launch opens or focuses the application. The command is the new body's
// Init command, if any. Unknown kinds return false.
func (l *Launcher) Launch(kind Kind) (wm.Handle, tea.Cmd, bool) {
	spec, ok := l.specs[kind]
	if !ok {
		return wm.Handle{}, nil, false
	}

	if h, ok := l.open[kind]; ok && h.Alive(l.m) {
		w, _ := l.m.Lookup(h)
		if w.Minimized {
			l.m.Restore(h.ID)
		} else {
			l.m.Focus(h.ID)
		}
		return h, nil, true
	}

	body := spec.New()
	h := l.m.Open(wm.OpenOptions{
		Title:  spec.Title,
		Icon:   spec.Icon,
		Body:   body,
		Width:  spec.Width,
		Height: spec.Height,
	})
	l.open[kind] = h

	var cmd tea.Cmd
	if init, ok := body.(Initializer); ok {
		cmd = init.Init()
	}
	return h, cmd, true
}

// Handle returns the window of kind if it is still open.
func (l *Launcher) Handle(kind Kind) (wm.Handle, bool) {
	h, ok := l.open[kind]
	if !ok || !h.Alive(l.m) {
		return wm.Handle{}, false
	}
	return h, true
}
