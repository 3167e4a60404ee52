package wm

// Direction is a set of window edges grabbed by a resize handle.
type Direction uint8

// Edges. Corner handles combine two of them.
const (
	N Direction = 1 << iota
	S
	E
	W

	NE = N | E
	NW = N | W
	SE = S | E
	SW = S | W
)

func (d Direction) String() string {
	switch d {
	case N:
		return "n"
	case S:
		return "s"
	case E:
		return "e"
	case W:
		return "w"
	case NE:
		return "ne"
	case NW:
		return "nw"
	case SE:
		return "se"
	case SW:
		return "sw"
	default:
		return ""
	}
}

// Has reports whether d includes every edge in e.
func (d Direction) Has(e Direction) bool {
	return d&e == e
}

// session is the per-window interaction slot. A window has at most one.
type session interface {
	windowID() string
}

// DragSession moves a window by its title bar.
type DragSession struct {
	m      *Manager
	id     string
	startX int
	startY int
	start  Bounds
	done   bool
}

func (s *DragSession) windowID() string { return s.id }

// WindowID returns the dragged window's id.
func (s *DragSession) WindowID() string { return s.id }

// ResizeSession resizes a window by one of its handles.
type ResizeSession struct {
	m      *Manager
	id     string
	dir    Direction
	startX int
	startY int
	start  Bounds
	done   bool
}

func (s *ResizeSession) windowID() string { return s.id }

// WindowID returns the resized window's id.
func (s *ResizeSession) WindowID() string { return s.id }

// Direction returns the grabbed handle.
func (s *ResizeSession) Direction() Direction { return s.dir }

// ActiveSession reports whether the window has a drag or resize in progress.
func (m *Manager) ActiveSession(id string) bool {
	_, ok := m.sessions[id]
	return ok
}

func (m *Manager) canBegin(id string) (*Window, bool) {
	w, ok := m.windows[id]
	if !ok || w.Maximized {
		return nil, false
	}
	if _, busy := m.sessions[id]; busy {
		return nil, false
	}
	return w, true
}

// BeginDrag starts moving the window from pointer position (px, py).
// Unknown and maximized windows, and windows already being dragged or
// resized, are refused.
func (m *Manager) BeginDrag(id string, px, py int) (*DragSession, bool) {
	w, ok := m.canBegin(id)
	if !ok {
		return nil, false
	}
	s := &DragSession{m: m, id: id, startX: px, startY: py, start: w.Bounds}
	m.sessions[id] = s
	m.logger.Debug("drag started", "id", id, "x", px, "y", py)
	return s, true
}

// BeginResize starts resizing the window by the dir handle from pointer
// position (px, py). Refusal rules match BeginDrag.
func (m *Manager) BeginResize(id string, dir Direction, px, py int) (*ResizeSession, bool) {
	if dir == 0 {
		return nil, false
	}
	w, ok := m.canBegin(id)
	if !ok {
		return nil, false
	}
	s := &ResizeSession{m: m, id: id, dir: dir, startX: px, startY: py, start: w.Bounds}
	m.sessions[id] = s
	m.logger.Debug("resize started", "id", id, "dir", dir, "x", px, "y", py)
	return s, true
}

// live returns the session's window while the session still owns it.
func (m *Manager) live(s session) (*Window, bool) {
	id := s.windowID()
	if cur, ok := m.sessions[id]; !ok || cur != s {
		return nil, false
	}
	w, ok := m.windows[id]
	if !ok || w.Maximized {
		return nil, false
	}
	return w, true
}

// clamp keeps v within [lo, hi]; lo wins when hi < lo.
func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Move repositions the window so it follows the pointer, keeping at least
// the configured margin on screen.
func (s *DragSession) Move(px, py int) {
	if s.done {
		return
	}
	w, ok := s.m.live(s)
	if !ok {
		return
	}
	vw, vh := s.m.Viewport()
	g := s.m.geom
	w.Bounds.X = clamp(s.start.X+px-s.startX, 0, vw-g.MarginX)
	w.Bounds.Y = clamp(s.start.Y+py-s.startY, 0, vh-g.MarginY)
}

// End finishes the drag. The geometry is already live, so ending always
// commits.
func (s *DragSession) End() {
	if s.done {
		return
	}
	s.done = true
	if s.m.release(s) {
		s.m.publish(Moved, s.id)
	}
}

// Move resizes the window so the grabbed edges follow the pointer. Width and
// height never go below the minimum; the west and north edges move the origin
// so the opposite edge stays put.
func (s *ResizeSession) Move(px, py int) {
	if s.done {
		return
	}
	w, ok := s.m.live(s)
	if !ok {
		return
	}
	g := s.m.geom
	dx := px - s.startX
	dy := py - s.startY
	b := s.start

	switch {
	case s.dir.Has(E):
		b.Width = max(g.MinWidth, s.start.Width+dx)
	case s.dir.Has(W):
		b.Width = max(g.MinWidth, s.start.Width-dx)
		b.X = s.start.X + (s.start.Width - b.Width)
	}
	switch {
	case s.dir.Has(S):
		b.Height = max(g.MinHeight, s.start.Height+dy)
	case s.dir.Has(N):
		b.Height = max(g.MinHeight, s.start.Height-dy)
		b.Y = s.start.Y + (s.start.Height - b.Height)
	}

	w.Bounds = b
}

// End finishes the resize.
func (s *ResizeSession) End() {
	if s.done {
		return
	}
	s.done = true
	if s.m.release(s) {
		s.m.publish(Resized, s.id)
	}
}

// release frees the slot only while s still owns it, and reports whether it
// did and the window is still open. A session displaced by maximize stays
// silent.
func (m *Manager) release(s session) bool {
	id := s.windowID()
	if cur, ok := m.sessions[id]; !ok || cur != s {
		return false
	}
	return m.endSession(id)
}

// endSession releases the window's interaction slot and reports whether the
// window is still open.
func (m *Manager) endSession(id string) bool {
	delete(m.sessions, id)
	_, ok := m.windows[id]
	return ok
}
