// Package wm implements the tuixp window manager: it owns every open window,
// assigns identities and z-order, drives drag and resize sessions, tracks the
// minimized and maximized state of each window and publishes lifecycle events
// for the taskbar and the sound sink.
//
// A Manager is owned by a single event loop and is not safe for concurrent
// use. Every operation on an unknown window id is a silent no-op: closing
// windows and queued commands (context menus, taskbar clicks) race by nature.
package wm

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Geometry holds the manager's sizing and placement constants.
type Geometry struct {
	DefaultWidth  int
	DefaultHeight int
	MinWidth      int
	MinHeight     int
	CascadeBaseX  int
	CascadeBaseY  int
	CascadeStepX  int
	CascadeStepY  int
	// MarginX and MarginY keep part of a dragged window on screen: the origin
	// is clamped to [0, viewport-margin].
	MarginX int
	MarginY int
	// ZBase is the z-order counter's starting value.
	ZBase int
}

// DefaultGeometry returns pixel-scale constants.
func DefaultGeometry() Geometry {
	return Geometry{
		DefaultWidth:  600,
		DefaultHeight: 400,
		MinWidth:      300,
		MinHeight:     200,
		CascadeBaseX:  100,
		CascadeBaseY:  80,
		CascadeStepX:  30,
		CascadeStepY:  30,
		MarginX:       100,
		MarginY:       100,
		ZBase:         100,
	}
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier sets the sink that receives lifecycle notifications.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		m.notifier = n
	}
}

// WithLogger sets the manager's logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithIDFunc replaces the id generator.
func WithIDFunc(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithViewport sets the initial viewport size.
func WithViewport(width, height int) Option {
	return func(m *Manager) {
		m.viewW = width
		m.viewH = height
	}
}

// Manager owns the collection of open windows.
type Manager struct {
	geom     Geometry
	windows  map[string]*Window
	order    []string // open order, used for cascade count and taskbar order
	z        int
	focused  string
	viewW    int
	viewH    int
	sessions map[string]session

	subs      []subscriber
	nextSubID int

	notifier Notifier
	logger   *log.Logger
	newID    func() string
}

// New creates a window manager.
func New(geom Geometry, opts ...Option) *Manager {
	m := &Manager{
		geom:     geom,
		windows:  make(map[string]*Window),
		z:        geom.ZBase,
		sessions: make(map[string]session),
		logger:   log.New(io.Discard),
		newID:    createID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func createID() string {
	return "win_" + uuid.New().String()
}

// Geometry returns the manager's constants.
func (m *Manager) Geometry() Geometry {
	return m.geom
}

// SetGeometry replaces the manager's constants. Existing windows keep their
// bounds; the z counter never moves backwards.
func (m *Manager) SetGeometry(geom Geometry) {
	m.geom = geom
	if m.z < geom.ZBase {
		m.z = geom.ZBase
	}
}

// Viewport returns the available desktop area.
func (m *Manager) Viewport() (width, height int) {
	return m.viewW, m.viewH
}

// SetViewport updates the available desktop area. Maximized windows are
// re-fit to it; their saved bounds are left untouched.
func (m *Manager) SetViewport(width, height int) {
	m.viewW = width
	m.viewH = height
	for _, w := range m.windows {
		if w.Maximized {
			w.Bounds = m.maximizedBounds()
		}
	}
}

func (m *Manager) maximizedBounds() Bounds {
	return Bounds{X: 0, Y: 0, Width: m.viewW, Height: m.viewH}
}

func (m *Manager) nextZ() int {
	m.z++
	return m.z
}

// Open creates a window, puts it on top, focuses it and returns its handle.
func (m *Manager) Open(opts OpenOptions) Handle {
	id := m.newID()
	for m.windows[id] != nil {
		id = m.newID()
	}

	count := len(m.windows)
	x := m.geom.CascadeBaseX + m.geom.CascadeStepX*count
	if opts.X != nil {
		x = *opts.X
	}
	y := m.geom.CascadeBaseY + m.geom.CascadeStepY*count
	if opts.Y != nil {
		y = *opts.Y
	}

	width := opts.Width
	if width == 0 {
		width = m.geom.DefaultWidth
	}
	height := opts.Height
	if height == 0 {
		height = m.geom.DefaultHeight
	}
	width = max(width, m.geom.MinWidth)
	height = max(height, m.geom.MinHeight)

	w := &Window{
		ID:     id,
		Title:  opts.Title,
		Icon:   opts.Icon,
		Body:   opts.Body,
		Bounds: Bounds{X: x, Y: y, Width: width, Height: height},
		Z:      m.nextZ(),
	}
	w.SavedBounds = w.Bounds

	m.windows[id] = w
	m.order = append(m.order, id)
	m.setFocus(id)

	m.logger.Debug("window opened", "id", id, "title", opts.Title, "z", w.Z, "bounds", w.Bounds)

	m.publish(Opened, id)
	m.publish(Focused, id)
	m.notify(Opened)

	return Handle{ID: id}
}

// setFocus marks id focused and every other window unfocused.
func (m *Manager) setFocus(id string) {
	m.focused = id
	for wid, w := range m.windows {
		w.Focused = wid == id
	}
}

// Focus brings the window to the top of the stack and focuses it. Focusing
// the window that is already on top still assigns it a fresh z value.
func (m *Manager) Focus(id string) {
	w, ok := m.windows[id]
	if !ok {
		return
	}
	w.Z = m.nextZ()
	m.setFocus(id)
	m.publish(Focused, id)
}

// Minimize hides the window while keeping it open and on the taskbar.
func (m *Manager) Minimize(id string) {
	w, ok := m.windows[id]
	if !ok || w.Minimized {
		return
	}
	w.Minimized = true
	if m.focused == id {
		m.focusTopmostVisible()
	}

	m.logger.Debug("window minimized", "id", id)

	m.publish(Minimized, id)
	m.notify(Minimized)
}

// Restore shows a minimized window again and focuses it.
func (m *Manager) Restore(id string) {
	w, ok := m.windows[id]
	if !ok || !w.Minimized {
		return
	}
	w.Minimized = false
	m.Focus(id)
	m.publish(Restored, id)
}

// ToggleMaximize switches the window between its normal bounds and the full
// viewport. It is independent of the minimized flag.
func (m *Manager) ToggleMaximize(id string) {
	w, ok := m.windows[id]
	if !ok {
		return
	}

	if w.Maximized {
		w.Maximized = false
		w.Bounds = w.SavedBounds
		m.logger.Debug("window restored from maximize", "id", id, "bounds", w.Bounds)
		m.publish(Unmaximized, id)
		return
	}

	w.SavedBounds = w.Bounds
	w.Maximized = true
	w.Bounds = m.maximizedBounds()
	m.endSession(id)

	m.logger.Debug("window maximized", "id", id, "saved", w.SavedBounds)

	m.publish(Maximized, id)
	m.notify(Maximized)
}

// Close removes the window permanently.
func (m *Manager) Close(id string) {
	if _, ok := m.windows[id]; !ok {
		return
	}

	delete(m.sessions, id)
	delete(m.windows, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	wasFocused := m.focused == id
	if wasFocused {
		m.focused = ""
	}

	m.logger.Debug("window closed", "id", id, "remaining", len(m.windows))

	m.publish(Closed, id)
	if wasFocused {
		m.focusTopmostVisible()
		m.publish(Focused, m.focused)
	}
	m.notify(Closed)
}

// focusTopmostVisible hands focus to the highest visible window without
// changing its z value, or clears focus when nothing is visible.
func (m *Manager) focusTopmostVisible() {
	next := ""
	topZ := 0
	for id, w := range m.windows {
		if w.Minimized {
			continue
		}
		if next == "" || w.Z > topZ {
			next = id
			topZ = w.Z
		}
	}
	m.setFocus(next)
}

// Len returns the number of open windows.
func (m *Manager) Len() int {
	return len(m.windows)
}

// Window returns a snapshot of the window with the given id.
func (m *Manager) Window(id string) (Window, bool) {
	w, ok := m.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Lookup resolves a handle.
func (m *Manager) Lookup(h Handle) (Window, bool) {
	return m.Window(h.ID)
}

// Windows returns snapshots of all windows, bottom of the stack first.
func (m *Manager) Windows() []Window {
	out := make([]Window, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, *w)
	}
	slices.SortFunc(out, func(a, b Window) int {
		return a.Z - b.Z
	})
	return out
}

// OpenOrder returns window ids in the order they were opened.
func (m *Manager) OpenOrder() []string {
	return slices.Clone(m.order)
}

// Focused returns the focused window, if any.
func (m *Manager) Focused() (Window, bool) {
	if m.focused == "" {
		return Window{}, false
	}
	return m.Window(m.focused)
}

// TopmostAt returns the visible window with the highest z containing (x, y).
func (m *Manager) TopmostAt(x, y int) (Window, bool) {
	var top *Window
	for _, w := range m.windows {
		if w.Minimized || !w.Bounds.Contains(x, y) {
			continue
		}
		if top == nil || w.Z > top.Z {
			top = w
		}
	}
	if top == nil {
		return Window{}, false
	}
	return *top, true
}

// CloseAll closes every window, topmost first.
func (m *Manager) CloseAll() {
	ws := m.Windows()
	for i := len(ws) - 1; i >= 0; i-- {
		m.Close(ws[i].ID)
	}
}
