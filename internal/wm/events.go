package wm

// EventKind identifies a window lifecycle or focus change.
type EventKind int

const (
	// Opened is published after a window joins the manager.
	Opened EventKind = iota
	// Closed is published after a window is removed.
	Closed
	// Minimized is published when a window is hidden to the taskbar.
	Minimized
	// Maximized is published when a window fills the viewport.
	Maximized
	// Restored is published when a minimized window becomes visible again.
	Restored
	// Unmaximized is published when a maximized window returns to its saved bounds.
	Unmaximized
	// Focused is published whenever the focused window or z-order changes.
	Focused
	// Moved is published when a drag session ends.
	Moved
	// Resized is published when a resize session ends.
	Resized
)

func (k EventKind) String() string {
	switch k {
	case Opened:
		return "opened"
	case Closed:
		return "closed"
	case Minimized:
		return "minimized"
	case Maximized:
		return "maximized"
	case Restored:
		return "restored"
	case Unmaximized:
		return "unmaximized"
	case Focused:
		return "focused"
	case Moved:
		return "moved"
	case Resized:
		return "resized"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers. WindowID may be empty for Focused
// events that leave no window focused.
type Event struct {
	Kind     EventKind
	WindowID string
}

// Notifier receives fire-and-forget lifecycle notifications (opened, closed,
// minimized, maximized). Returned errors are logged and otherwise ignored.
type Notifier interface {
	Notify(kind EventKind) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(kind EventKind) error

// Notify calls f(kind).
func (f NotifierFunc) Notify(kind EventKind) error {
	return f(kind)
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to receive every published event. Subscribers run
// synchronously, in registration order, after the manager's state has been
// updated. The returned function removes the subscription.
func (m *Manager) Subscribe(fn func(Event)) func() {
	m.nextSubID++
	id := m.nextSubID
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) publish(kind EventKind, id string) {
	ev := Event{Kind: kind, WindowID: id}
	for _, s := range m.subs {
		s.fn(ev)
	}
}

func (m *Manager) notify(kind EventKind) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Notify(kind); err != nil {
		m.logger.Debug("notification failed", "event", kind, "err", err)
	}
}
