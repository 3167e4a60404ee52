package input

import (
	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/app"
	"github.com/Gaurav-Gosain/tuixp/internal/apps"
	"github.com/Gaurav-Gosain/tuixp/internal/login"
)

// handleMouseClick handles mouse press events
func handleMouseClick(msg tea.MouseClickMsg, o *app.OS) (*app.OS, tea.Cmd) {
	mouse := msg.Mouse()
	x, y := mouse.X, mouse.Y

	switch o.Screen {
	case app.ShutDownScreen:
		return o, tea.Quit
	case app.LoginScreen:
		if o.ShowHelp || o.ShowLogs {
			o.ShowHelp, o.ShowLogs = false, false
			return o, nil
		}
		return handleLoginClick(x, y, o)
	}

	// Overlays swallow the click that closes them.
	if o.ShowHelp || o.ShowLogs {
		o.ShowHelp, o.ShowLogs = false, false
		return o, nil
	}

	if o.Dialog != app.NoDialog {
		if mouse.Button == tea.MouseLeft {
			yes, no := o.DialogButtonRects()
			switch {
			case yes.Contains(x, y):
				return o, o.ConfirmDialog(true)
			case no.Contains(x, y):
				return o, o.ConfirmDialog(false)
			}
		}
		return o, nil
	}

	if o.Menu != nil {
		if i, ok := o.MenuEntryAt(x, y); ok {
			if mouse.Button == tea.MouseLeft {
				return o, o.ChooseMenuEntry(i)
			}
			return o, nil
		}
		o.CloseMenu()
	}

	if o.Taskbar.StartMenuOpen() {
		if r := o.StartMenuRect(); r.Contains(x, y) {
			if i, ok := o.StartMenuItemAt(x, y); ok && mouse.Button == tea.MouseLeft {
				if item, ok := o.Taskbar.Choose(i); ok {
					return o, o.ChooseStartItem(item)
				}
			}
			return o, nil
		}
		o.Taskbar.CloseStartMenu()
		if o.StartButtonRect().Contains(x, y) {
			return o, nil
		}
	}

	if y == o.Height-app.TaskbarHeight {
		o.RegisterClick("")
		return handleTaskbarClick(mouse, o)
	}

	if w, ok := o.WM.TopmostAt(x, y); ok {
		return handleWindowClick(mouse, w.ID, o)
	}

	return handleDesktopClick(mouse, o)
}

func handleLoginClick(x, y int, o *app.OS) (*app.OS, tea.Cmd) {
	l := o.Login
	if l.Step() == login.ShowError {
		l.Dismiss()
		return o, nil
	}
	i, ok := o.LoginAccountAt(x, y)
	if !ok {
		return o, nil
	}
	if l.Step() != login.ChooseUser {
		l.Back()
	}
	o.ChooseUser(i)
	return o, nil
}

func handleTaskbarClick(mouse tea.Mouse, o *app.OS) (*app.OS, tea.Cmd) {
	if mouse.Button != tea.MouseLeft {
		return o, nil
	}
	x, y := mouse.X, mouse.Y
	if o.StartButtonRect().Contains(x, y) {
		o.Taskbar.ToggleStartMenu()
		return o, nil
	}
	if o.TrayRect().Contains(x, y) {
		o.ToggleMute()
		return o, nil
	}
	buttons := o.Taskbar.Buttons()
	for i, r := range o.TaskButtonRects() {
		if r.Contains(x, y) {
			o.Taskbar.Click(buttons[i].ID)
			return o, nil
		}
	}
	return o, nil
}

// handleWindowClick focuses the window under the pointer and acts on the
// part that was hit. Resize handles win over the title bar; a double click
// on the title bar toggles maximize and starts no drag.
func handleWindowClick(mouse tea.Mouse, id string, o *app.OS) (*app.OS, tea.Cmd) {
	o.WM.Focus(id)
	w, ok := o.WM.Window(id)
	if !ok {
		return o, nil
	}
	part, dir := app.HitWindow(w, mouse.X, mouse.Y)

	if mouse.Button == tea.MouseRight {
		o.RegisterClick("")
		if part == app.PartTitle {
			o.OpenWindowMenu(id, mouse.X, mouse.Y)
		}
		return o, nil
	}
	if mouse.Button != tea.MouseLeft {
		return o, nil
	}

	switch part {
	case app.PartClose:
		o.RegisterClick("")
		return o, o.CloseWindow(id)
	case app.PartMinimize:
		o.RegisterClick("")
		o.MinimizeWindow(id)
	case app.PartMaximize:
		o.RegisterClick("")
		o.ToggleMaximize(id)
	case app.PartBorder:
		o.RegisterClick("")
		o.EndInteraction()
		if s, ok := o.WM.BeginResize(id, dir, mouse.X, mouse.Y); ok {
			o.Resize = s
		}
	case app.PartTitle:
		if o.RegisterClick("title:" + id) {
			o.ToggleMaximize(id)
			return o, nil
		}
		o.EndInteraction()
		if s, ok := o.WM.BeginDrag(id, mouse.X, mouse.Y); ok {
			o.Drag = s
		}
	default:
		o.RegisterClick("")
	}
	return o, nil
}

func handleDesktopClick(mouse tea.Mouse, o *app.OS) (*app.OS, tea.Cmd) {
	i, onIcon := o.IconAt(mouse.X, mouse.Y)
	switch mouse.Button {
	case tea.MouseLeft:
		if onIcon {
			return o, o.ClickIcon(i)
		}
		o.RegisterClick("")
		o.SelectedIcon = -1
	case tea.MouseRight:
		o.RegisterClick("")
		if onIcon {
			o.SelectedIcon = i
			return o, nil
		}
		o.OpenDesktopMenu(mouse.X, mouse.Y)
	}
	return o, nil
}

// handleMouseMotion feeds the pointer to the active drag or resize.
func handleMouseMotion(msg tea.MouseMotionMsg, o *app.OS) (*app.OS, tea.Cmd) {
	mouse := msg.Mouse()
	if o.Drag != nil {
		o.Drag.Move(mouse.X, mouse.Y)
	}
	if o.Resize != nil {
		o.Resize.Move(mouse.X, mouse.Y)
	}
	return o, nil
}

// handleMouseRelease ends the active drag or resize.
func handleMouseRelease(_ tea.MouseReleaseMsg, o *app.OS) (*app.OS, tea.Cmd) {
	o.EndInteraction()
	return o, nil
}

// handleMouseWheel scrolls the log viewer, or the window under the pointer
// as if the arrow keys were pressed.
func handleMouseWheel(msg tea.MouseWheelMsg, o *app.OS) (*app.OS, tea.Cmd) {
	mouse := msg.Mouse()
	up := mouse.Button == tea.MouseWheelUp
	if mouse.Button != tea.MouseWheelUp && mouse.Button != tea.MouseWheelDown {
		return o, nil
	}

	if o.ShowLogs {
		if up {
			o.LogScrollOffset++
		} else {
			o.LogScrollOffset = max(o.LogScrollOffset-1, 0)
		}
		return o, nil
	}
	if o.Screen != app.DesktopScreen || o.Dialog != app.NoDialog {
		return o, nil
	}

	w, ok := o.WM.TopmostAt(mouse.X, mouse.Y)
	if !ok {
		return o, nil
	}
	body, ok := o.BodyOf(w.ID)
	if !ok {
		return o, nil
	}
	h, ok := body.(apps.KeyHandler)
	if !ok {
		return o, nil
	}
	code := tea.KeyDown
	if up {
		code = tea.KeyUp
	}
	return o, h.HandleKey(tea.KeyPressMsg{Code: code})
}
