package wm

// Bounds is a window's on-screen geometry.
type Bounds struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies inside the bounds.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// Window is a snapshot of one managed window. Only the Manager mutates the
// underlying record; callers always receive copies.
type Window struct {
	ID          string
	Title       string
	Icon        string
	Body        any
	Bounds      Bounds
	SavedBounds Bounds // captured on the last Normal -> Maximized transition
	Z           int
	Maximized   bool
	Minimized   bool
	Focused     bool
}

// Visible reports whether the window is drawn on the desktop.
func (w Window) Visible() bool {
	return !w.Minimized
}

// OpenOptions describes a window requested by an application launcher.
// Nil X or Y selects the cascading default position.
type OpenOptions struct {
	Title  string
	Icon   string
	Body   any
	Width  int
	Height int
	X      *int
	Y      *int
}

// At returns a pointer to v, for use in OpenOptions.
func At(v int) *int {
	return &v
}

// Handle is a stable reference to a window, independent of how it is drawn.
type Handle struct {
	ID string
}

// Alive reports whether the referenced window is still open in m.
func (h Handle) Alive(m *Manager) bool {
	if m == nil || h.ID == "" {
		return false
	}
	_, ok := m.windows[h.ID]
	return ok
}
