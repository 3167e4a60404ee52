package app

import (
	"cmp"
	"slices"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/apps"
	"github.com/charmbracelet/x/ansi"
)

// MenuAction is what a context menu entry does.
type MenuAction int

const (
	MenuSeparator MenuAction = iota
	MenuRefresh
	MenuArrangeByName
	MenuArrangeByType
	MenuProperties
	MenuRestore
	MenuMinimize
	MenuMaximize
	MenuClose
)

// MenuEntry is one line of a context menu.
type MenuEntry struct {
	Label  string
	Action MenuAction
	// Disabled entries are drawn dimmed and ignore clicks.
	Disabled bool
}

// ContextMenu is an open right-click menu. WindowID is set for the window
// menu and names the window its entries act on.
type ContextMenu struct {
	X, Y     int
	Entries  []MenuEntry
	Selected int
	WindowID string
}

// DesktopMenuEntries is the menu for a right click on the empty desktop.
func DesktopMenuEntries() []MenuEntry {
	return []MenuEntry{
		{Label: "Refresh", Action: MenuRefresh},
		{Action: MenuSeparator},
		{Label: "Arrange Icons By Name", Action: MenuArrangeByName},
		{Label: "Arrange Icons By Type", Action: MenuArrangeByType},
		{Action: MenuSeparator},
		{Label: "Properties", Action: MenuProperties},
	}
}

// WindowMenuEntries is the menu for a right click on a title bar. Entries
// that would not change the window are disabled.
func (m *OS) WindowMenuEntries(id string) []MenuEntry {
	w, _ := m.WM.Window(id)
	return []MenuEntry{
		{Label: "Restore", Action: MenuRestore, Disabled: !w.Maximized && !w.Minimized},
		{Label: "Minimize", Action: MenuMinimize, Disabled: w.Minimized},
		{Label: "Maximize", Action: MenuMaximize, Disabled: w.Maximized},
		{Action: MenuSeparator},
		{Label: "Close", Action: MenuClose},
	}
}

func selectable(e MenuEntry) bool {
	return e.Action != MenuSeparator && !e.Disabled
}

// OpenDesktopMenu shows the desktop menu at (x, y).
func (m *OS) OpenDesktopMenu(x, y int) {
	m.openMenu(&ContextMenu{X: x, Y: y, Entries: DesktopMenuEntries()})
}

// OpenWindowMenu shows the window menu for window id at (x, y).
func (m *OS) OpenWindowMenu(id string, x, y int) {
	if _, ok := m.WM.Window(id); !ok {
		return
	}
	m.openMenu(&ContextMenu{X: x, Y: y, Entries: m.WindowMenuEntries(id), WindowID: id})
}

func (m *OS) openMenu(menu *ContextMenu) {
	m.Taskbar.CloseStartMenu()
	menu.Selected = slices.IndexFunc(menu.Entries, selectable)
	// Keep the whole menu on the desktop.
	r := menuRect(menu)
	menu.X = max(0, min(menu.X, m.Width-r.W))
	menu.Y = max(0, min(menu.Y, m.DesktopHeight()-r.H))
	m.Menu = menu
}

// CloseMenu hides the context menu.
func (m *OS) CloseMenu() {
	m.Menu = nil
}

func menuWidth(menu *ContextMenu) int {
	w := 0
	for _, e := range menu.Entries {
		w = max(w, ansi.StringWidth(e.Label))
	}
	return w + 4
}

// menuRect is the bordered menu box: one row per entry plus the border.
func menuRect(menu *ContextMenu) Rect {
	return Rect{X: menu.X, Y: menu.Y, W: menuWidth(menu), H: len(menu.Entries) + 2}
}

// MenuRect returns the open context menu's rectangle.
func (m *OS) MenuRect() (Rect, bool) {
	if m.Menu == nil {
		return Rect{}, false
	}
	return menuRect(m.Menu), true
}

// MenuEntryAt returns the index of the context menu entry at (x, y).
func (m *OS) MenuEntryAt(x, y int) (int, bool) {
	r, ok := m.MenuRect()
	if !ok || !r.Contains(x, y) {
		return 0, false
	}
	i := y - r.Y - 1
	if i < 0 || i >= len(m.Menu.Entries) {
		return 0, false
	}
	return i, true
}

// MoveMenuSelection moves the highlight, skipping separators and disabled
// entries.
func (m *OS) MoveMenuSelection(delta int) {
	if m.Menu == nil || !slices.ContainsFunc(m.Menu.Entries, selectable) {
		return
	}
	n := len(m.Menu.Entries)
	i := m.Menu.Selected
	for {
		i = ((i+delta)%n + n) % n
		if selectable(m.Menu.Entries[i]) {
			m.Menu.Selected = i
			return
		}
	}
}

// ChooseMenuEntry runs context menu entry i and closes the menu. The window
// menu acts on the window it was opened for; if that window has closed in
// the meantime nothing happens.
func (m *OS) ChooseMenuEntry(i int) tea.Cmd {
	menu := m.Menu
	if menu == nil || i < 0 || i >= len(menu.Entries) || !selectable(menu.Entries[i]) {
		return nil
	}
	m.Menu = nil

	id := menu.WindowID
	switch menu.Entries[i].Action {
	case MenuRefresh:
		m.SelectedIcon = -1
	case MenuArrangeByName:
		m.ArrangeIcons(false)
	case MenuArrangeByType:
		m.ArrangeIcons(true)
	case MenuProperties:
		return m.LaunchApp(apps.Display)
	case MenuRestore:
		m.RestoreWindow(id)
	case MenuMinimize:
		m.MinimizeWindow(id)
	case MenuMaximize:
		if w, ok := m.WM.Window(id); ok && !w.Maximized {
			m.ToggleMaximize(id)
		}
	case MenuClose:
		return m.CloseWindow(id)
	}
	return nil
}

// ArrangeIcons sorts the desktop icons by label, or by type and then label.
// The selection follows the selected icon.
func (m *OS) ArrangeIcons(byType bool) {
	var selected apps.Kind
	if m.SelectedIcon >= 0 && m.SelectedIcon < len(m.Icons) {
		selected = m.Icons[m.SelectedIcon].App
	}
	slices.SortStableFunc(m.Icons, func(a, b DesktopIcon) int {
		if byType {
			if c := cmp.Compare(a.Type, b.Type); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Label, b.Label)
	})
	if selected != "" {
		m.SelectedIcon = slices.IndexFunc(m.Icons, func(ic DesktopIcon) bool { return ic.App == selected })
	}
}

// ClickIcon selects desktop icon i; a double click launches its application.
func (m *OS) ClickIcon(i int) tea.Cmd {
	if i < 0 || i >= len(m.Icons) {
		return nil
	}
	m.closePopups()
	m.SelectedIcon = i
	if m.RegisterClick("icon:" + string(m.Icons[i].App)) {
		return m.LaunchApp(m.Icons[i].App)
	}
	return nil
}
