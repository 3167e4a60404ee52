// Package apps contains the desktop's applications and the launcher that
// keeps one window per application.
package apps

import tea "charm.land/bubbletea/v2"

// Kind names an application.
type Kind string

// Built-in applications. The values match the start menu's item ids.
const (
	Computer Kind = "computer"
	Notepad  Kind = "notepad"
	Gallery  Kind = "gallery"
	About    Kind = "about"
	Display  Kind = "display"
)

// Body is the client area of a window.
type Body interface {
	View(width, height int) string
}

// KeyHandler is implemented by bodies that accept keyboard input while
// their window is focused.
type KeyHandler interface {
	HandleKey(msg tea.KeyPressMsg) tea.Cmd
}

// Initializer is implemented by bodies that start work when opened.
type Initializer interface {
	Init() tea.Cmd
}

// Updater is implemented by bodies that receive their own routed messages.
type Updater interface {
	Update(msg tea.Msg) tea.Cmd
}

// Closer is implemented by bodies that need a final command when their
// window closes, such as flushing unsaved text.
type Closer interface {
	Close() tea.Cmd
}

// Routed is a message addressed to one body. The shell delivers it only if
// the body is still on screen.
type Routed interface {
	Target() Body
}
