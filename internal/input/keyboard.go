// Package input implements keyboard and mouse handling for the tuixp
// desktop. It is registered with app.SetInputHandler.
package input

import (
	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/app"
	"github.com/Gaurav-Gosain/tuixp/internal/apps"
	"github.com/Gaurav-Gosain/tuixp/internal/login"
	"github.com/Gaurav-Gosain/tuixp/internal/tape"
)

// HandleInput is the app.InputHandler for keyboard and mouse messages.
func HandleInput(msg tea.Msg, o *app.OS) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		o.CaptureKeyEvent(msg)
		return HandleKey(msg, o)
	case tea.MouseClickMsg:
		return handleMouseClick(msg, o)
	case tea.MouseMotionMsg:
		return handleMouseMotion(msg, o)
	case tea.MouseReleaseMsg:
		return handleMouseRelease(msg, o)
	case tea.MouseWheelMsg:
		return handleMouseWheel(msg, o)
	case tape.ActionMsg:
		return handleScriptAction(msg, o)
	}
	return o, nil
}

// handleScriptAction runs a key binding action named by a script. Away
// from the desktop only the actions its keys would reach there run.
func handleScriptAction(msg tape.ActionMsg, o *app.OS) (*app.OS, tea.Cmd) {
	d := GetDispatcher()
	if !d.HasAction(msg.Name) {
		o.LogWarn("script: unknown action %q", msg.Name)
		return o, nil
	}
	if o.Screen != app.DesktopScreen {
		switch msg.Name {
		case "quit", "toggle_help", "toggle_logs":
		default:
			return o, nil
		}
	}
	return d.Dispatch(msg.Name, tea.KeyPressMsg{}, o)
}

// HandleKey routes a key press. Overlays and popups take keys first, then
// the key binding registry, then the focused window's body.
func HandleKey(msg tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	if o.Screen == app.ShutDownScreen {
		return o, tea.Quit
	}

	key := msg.String()
	action := o.KeybindRegistry.GetAction(msg.Keystroke())

	// Help and log viewers are modal.
	if o.ShowHelp {
		return handleHelpKey(key, action, o)
	}
	if o.ShowLogs {
		return handleLogsKey(key, action, o)
	}

	if o.Screen == app.LoginScreen {
		switch action {
		case "quit", "toggle_help", "toggle_logs":
			return GetDispatcher().Dispatch(action, msg, o)
		}
		return handleLoginKey(msg, o)
	}

	if o.Dialog != app.NoDialog {
		return handleDialogKey(key, o)
	}
	if o.Menu != nil {
		return handleContextMenuKey(key, o)
	}
	if o.Taskbar.StartMenuOpen() && action != "toggle_start_menu" {
		return handleStartMenuKey(key, o)
	}

	if action != "" && GetDispatcher().HasAction(action) {
		return GetDispatcher().Dispatch(action, msg, o)
	}

	if body, ok := o.FocusedBody(); ok {
		if h, ok := body.(apps.KeyHandler); ok {
			return o, h.HandleKey(msg)
		}
		return o, nil
	}
	return handleDesktopKey(key, o)
}

func handleHelpKey(key, action string, o *app.OS) (*app.OS, tea.Cmd) {
	switch {
	case key == "esc" || key == "q" || action == "toggle_help":
		o.ShowHelp = false
		o.HelpCategory = 0
	case key == "left" || key == "shift+tab":
		o.MoveHelpCategory(-1)
	case key == "right" || key == "tab":
		o.MoveHelpCategory(1)
	}
	return o, nil
}

func handleLogsKey(key, action string, o *app.OS) (*app.OS, tea.Cmd) {
	switch {
	case key == "esc" || key == "q" || action == "toggle_logs":
		o.ShowLogs = false
		o.LogScrollOffset = 0
	case key == "up":
		o.LogScrollOffset++
	case key == "down":
		o.LogScrollOffset = max(o.LogScrollOffset-1, 0)
	case key == "pgup":
		o.LogScrollOffset += 10
	case key == "pgdown":
		o.LogScrollOffset = max(o.LogScrollOffset-10, 0)
	case key == "home":
		o.LogScrollOffset = len(o.LogMessages)
	case key == "end":
		o.LogScrollOffset = 0
	}
	return o, nil
}

func handleLoginKey(msg tea.KeyPressMsg, o *app.OS) (*app.OS, tea.Cmd) {
	l := o.Login
	key := msg.String()
	switch l.Step() {
	case login.ChooseUser:
		switch key {
		case "up", "left", "shift+tab":
			l.Move(-1)
		case "down", "right", "tab":
			l.Move(1)
		case "enter", "space":
			o.ChooseUser(l.Selected())
		}
	case login.EnterPassword:
		switch key {
		case "enter":
			o.SubmitLogin()
		case "esc":
			l.Back()
		case "backspace":
			l.Backspace()
		default:
			if msg.Text != "" && !msg.Mod.Contains(tea.ModCtrl) && !msg.Mod.Contains(tea.ModAlt) {
				l.Type(msg.Text)
			}
		}
	case login.ShowError:
		switch key {
		case "enter", "space":
			l.Dismiss()
		case "esc":
			l.Back()
		}
	}
	return o, nil
}

func handleDialogKey(key string, o *app.OS) (*app.OS, tea.Cmd) {
	switch key {
	case "left", "right", "tab", "shift+tab":
		o.DialogSelection = 1 - o.DialogSelection
	case "enter", "space":
		return o, o.ConfirmDialog(o.DialogSelection == 0)
	case "y":
		return o, o.ConfirmDialog(true)
	case "n", "esc":
		return o, o.ConfirmDialog(false)
	}
	return o, nil
}

func handleContextMenuKey(key string, o *app.OS) (*app.OS, tea.Cmd) {
	switch key {
	case "up", "shift+tab":
		o.MoveMenuSelection(-1)
	case "down", "tab":
		o.MoveMenuSelection(1)
	case "enter", "space":
		return o, o.ChooseMenuEntry(o.Menu.Selected)
	case "esc":
		o.CloseMenu()
	}
	return o, nil
}

func handleStartMenuKey(key string, o *app.OS) (*app.OS, tea.Cmd) {
	switch key {
	case "up", "shift+tab":
		o.Taskbar.MoveSelection(-1)
	case "down", "tab":
		o.Taskbar.MoveSelection(1)
	case "enter", "space":
		if item, ok := o.Taskbar.SelectedItem(); ok && item.Selectable() {
			return o, o.ChooseStartItem(item)
		}
	case "esc":
		o.Taskbar.CloseStartMenu()
	}
	return o, nil
}

// handleDesktopKey moves the icon selection when no window has focus.
func handleDesktopKey(key string, o *app.OS) (*app.OS, tea.Cmd) {
	n := len(o.Icons)
	if n == 0 {
		return o, nil
	}
	switch key {
	case "up", "left":
		if o.SelectedIcon <= 0 {
			o.SelectedIcon = n - 1
		} else {
			o.SelectedIcon--
		}
	case "down", "right", "tab":
		o.SelectedIcon = (o.SelectedIcon + 1) % n
	case "enter":
		if o.SelectedIcon >= 0 && o.SelectedIcon < n {
			return o, o.LaunchApp(o.Icons[o.SelectedIcon].App)
		}
	case "esc":
		o.SelectedIcon = -1
	}
	return o, nil
}
