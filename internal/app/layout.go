package app

import (
	"github.com/Gaurav-Gosain/tuixp/internal/taskbar"
	"github.com/Gaurav-Gosain/tuixp/internal/wm"
	"github.com/charmbracelet/x/ansi"
)

// Rect is a screen rectangle in cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Window chrome, relative to the window's origin:
//
//	row 0       top border (north handle)
//	row 1       title bar, buttons at the right end
//	rows 2..h-2 body
//	row h-1     bottom border (south handle)
//
// Columns 0 and w-1 are the west and east handles.
const (
	titleRow        = 1
	chromeWidth     = 2
	chromeHeight    = 3
	titleButtonSize = 3
)

// WindowPart is what a point inside a window lands on.
type WindowPart int

const (
	PartNone WindowPart = iota
	PartBody
	PartTitle
	PartMinimize
	PartMaximize
	PartClose
	PartBorder
)

func (p WindowPart) String() string {
	switch p {
	case PartBody:
		return "body"
	case PartTitle:
		return "title"
	case PartMinimize:
		return "minimize"
	case PartMaximize:
		return "maximize"
	case PartClose:
		return "close"
	case PartBorder:
		return "border"
	default:
		return "none"
	}
}

// BodySize returns the size of the area a window's body draws into.
func BodySize(b wm.Bounds) (width, height int) {
	return max(b.Width-chromeWidth, 0), max(b.Height-chromeHeight, 0)
}

// titleButtons returns the minimize, maximize and close button rectangles of
// a window, in screen coordinates.
func titleButtons(b wm.Bounds) (minimize, maximize, close Rect) {
	y := b.Y + titleRow
	right := b.X + b.Width - 1
	close = Rect{X: right - titleButtonSize, Y: y, W: titleButtonSize, H: 1}
	maximize = Rect{X: close.X - titleButtonSize, Y: y, W: titleButtonSize, H: 1}
	minimize = Rect{X: maximize.X - titleButtonSize, Y: y, W: titleButtonSize, H: 1}
	return minimize, maximize, close
}

// HitWindow classifies the screen cell (x, y) against window w. Resize
// handles are tested before the title bar; maximized windows have none.
func HitWindow(w wm.Window, x, y int) (WindowPart, wm.Direction) {
	b := w.Bounds
	if !b.Contains(x, y) {
		return PartNone, 0
	}
	rx, ry := x-b.X, y-b.Y

	if !w.Maximized {
		var dir wm.Direction
		switch {
		case ry == 0:
			dir |= wm.N
		case ry == b.Height-1:
			dir |= wm.S
		}
		switch {
		case rx == 0:
			dir |= wm.W
		case rx == b.Width-1:
			dir |= wm.E
		}
		if dir != 0 {
			return PartBorder, dir
		}
	}

	if ry == titleRow {
		mn, mx, cl := titleButtons(b)
		switch {
		case cl.Contains(x, y):
			return PartClose, 0
		case mx.Contains(x, y):
			return PartMaximize, 0
		case mn.Contains(x, y):
			return PartMinimize, 0
		}
		return PartTitle, 0
	}
	if ry == 0 {
		return PartTitle, 0
	}
	return PartBody, 0
}

// Taskbar layout.
const (
	startButtonLabel = " ⊞ start "
	taskButtonStart  = 10
	taskButtonWidth  = 18
	taskButtonGap    = 1
	minTaskButton    = 4
)

// StartButtonRect is the start button's rectangle.
func (m *OS) StartButtonRect() Rect {
	return Rect{X: 0, Y: m.Height - 1, W: ansi.StringWidth(startButtonLabel), H: 1}
}

// trayText is the notification area: mute state and the clock.
func (m *OS) trayText() string {
	glyph := "♪"
	if m.Sound.Muted() {
		glyph = "✕"
	}
	return " " + glyph + " " + taskbar.FormatClock(m.now(), m.Config.Desktop.ClockFormat) + " "
}

// TrayRect is the notification area's rectangle.
func (m *OS) TrayRect() Rect {
	w := ansi.StringWidth(m.trayText())
	return Rect{X: max(m.Width-w, 0), Y: m.Height - 1, W: w, H: 1}
}

// taskButtonWidthFor shrinks buttons so n of them fit before the tray.
func (m *OS) taskButtonWidthFor(n int) int {
	if n == 0 {
		return taskButtonWidth
	}
	avail := m.TrayRect().X - taskButtonStart - 1
	w := avail/n - taskButtonGap
	return max(minTaskButton, min(taskButtonWidth, w))
}

// TaskButtonRects returns one rectangle per taskbar button, in button order.
// Buttons that would overlap the tray are dropped.
func (m *OS) TaskButtonRects() []Rect {
	buttons := m.Taskbar.Buttons()
	w := m.taskButtonWidthFor(len(buttons))
	limit := m.TrayRect().X
	rects := make([]Rect, 0, len(buttons))
	for i := range buttons {
		x := taskButtonStart + i*(w+taskButtonGap)
		if x+w > limit {
			break
		}
		rects = append(rects, Rect{X: x, Y: m.Height - 1, W: w, H: 1})
	}
	return rects
}

// Start menu layout: a bordered box above the start button with the user
// name as its header.
const startMenuWidth = 24

// StartMenuRect is the start menu's rectangle.
func (m *OS) StartMenuRect() Rect {
	h := len(m.Taskbar.MenuItems()) + 3
	return Rect{X: 0, Y: max(m.Height-1-h, 0), W: startMenuWidth, H: h}
}

// StartMenuItemAt returns the index of the start menu entry at (x, y).
func (m *OS) StartMenuItemAt(x, y int) (int, bool) {
	r := m.StartMenuRect()
	if !r.Contains(x, y) || x == r.X || x == r.X+r.W-1 {
		return 0, false
	}
	i := y - r.Y - 2
	if i < 0 || i >= len(m.Taskbar.MenuItems()) {
		return 0, false
	}
	return i, true
}

// Desktop icon layout.
const (
	iconX      = 2
	iconY      = 1
	iconWidth  = 13
	iconHeight = 3
	iconStep   = 4
)

// IconRect is the rectangle of desktop icon i.
func IconRect(i int) Rect {
	return Rect{X: iconX, Y: iconY + i*iconStep, W: iconWidth, H: iconHeight}
}

// IconAt returns the index of the desktop icon at (x, y).
func (m *OS) IconAt(x, y int) (int, bool) {
	if !m.Config.Desktop.ShowIcons {
		return 0, false
	}
	for i := range m.Icons {
		r := IconRect(i)
		if r.Y+r.H > m.DesktopHeight() {
			break
		}
		if r.Contains(x, y) {
			return i, true
		}
	}
	return 0, false
}

// Dialog layout.
const (
	dialogWidth  = 44
	dialogHeight = 9
)

// DialogRect is the confirmation dialog's rectangle, centered on screen.
func (m *OS) DialogRect() Rect {
	return Rect{
		X: max((m.Width-dialogWidth)/2, 0),
		Y: max((m.Height-dialogHeight)/2, 0),
		W: dialogWidth,
		H: dialogHeight,
	}
}

// dialogButtonWidth fits "Yes" and "No" in a bordered box.
const dialogButtonWidth = 9

// DialogButtonRects returns the Yes and No buttons' rectangles.
func (m *OS) DialogButtonRects() (yes, no Rect) {
	r := m.DialogRect()
	y := r.Y + r.H - 4
	mid := r.X + r.W/2
	yes = Rect{X: mid - dialogButtonWidth - 2, Y: y, W: dialogButtonWidth, H: 3}
	no = Rect{X: mid + 2, Y: y, W: dialogButtonWidth, H: 3}
	return yes, no
}
