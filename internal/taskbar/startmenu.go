package taskbar

import "slices"

// Action is what a start menu entry does besides launching an app.
type Action int

const (
	// Launch opens the entry's App.
	Launch Action = iota
	// Separator is a non-selectable divider.
	Separator
	// LogOff asks to end the session.
	LogOff
	// ShutDown asks to turn the computer off.
	ShutDown
)

// MenuItem is a start menu entry.
type MenuItem struct {
	Label  string
	App    string
	Action Action
}

// Selectable reports whether the item can be highlighted.
func (i MenuItem) Selectable() bool {
	return i.Action != Separator
}

// App identifiers understood by the launcher.
const (
	AppComputer = "computer"
	AppNotepad  = "notepad"
	AppGallery  = "gallery"
	AppAbout    = "about"
	AppDisplay  = "display"
)

// DefaultMenu returns the start menu entries.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Label: "My Computer", App: AppComputer},
		{Label: "Notepad", App: AppNotepad},
		{Label: "My Gallery", App: AppGallery},
		{Label: "About", App: AppAbout},
		{Action: Separator},
		{Label: "Log Off", Action: LogOff},
		{Label: "Shut Down", Action: ShutDown},
	}
}

type menuState struct {
	open     bool
	items    []MenuItem
	selected int
}

// StartMenuOpen reports whether the start menu is showing.
func (t *Taskbar) StartMenuOpen() bool {
	return t.menu.open
}

// OpenStartMenu shows the start menu with the first entry highlighted.
func (t *Taskbar) OpenStartMenu() {
	t.menu.open = true
	t.menu.selected = 0
}

// CloseStartMenu hides the start menu.
func (t *Taskbar) CloseStartMenu() {
	t.menu.open = false
}

// ToggleStartMenu flips the start menu's visibility.
func (t *Taskbar) ToggleStartMenu() {
	if t.menu.open {
		t.CloseStartMenu()
		return
	}
	t.OpenStartMenu()
}

// MenuItems returns the start menu entries.
func (t *Taskbar) MenuItems() []MenuItem {
	return slices.Clone(t.menu.items)
}

// Selected returns the highlighted entry's index.
func (t *Taskbar) Selected() int {
	return t.menu.selected
}

// MoveSelection moves the highlight by delta, skipping separators and
// wrapping around.
func (t *Taskbar) MoveSelection(delta int) {
	n := len(t.menu.items)
	if n == 0 || delta == 0 {
		return
	}
	step := 1
	if delta < 0 {
		step = -1
	}
	i := t.menu.selected
	for moved := 0; moved < abs(delta); {
		i = (i + step + n) % n
		if t.menu.items[i].Selectable() {
			moved++
		}
		if i == t.menu.selected && !t.menu.items[i].Selectable() {
			return
		}
	}
	t.menu.selected = i
}

// SelectedItem returns the highlighted entry.
func (t *Taskbar) SelectedItem() (MenuItem, bool) {
	if t.menu.selected < 0 || t.menu.selected >= len(t.menu.items) {
		return MenuItem{}, false
	}
	return t.menu.items[t.menu.selected], true
}

// Choose closes the menu and returns the item at index i.
func (t *Taskbar) Choose(i int) (MenuItem, bool) {
	if i < 0 || i >= len(t.menu.items) || !t.menu.items[i].Selectable() {
		return MenuItem{}, false
	}
	t.CloseStartMenu()
	return t.menu.items[i], true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
