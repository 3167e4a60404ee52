package input

import (
	"context"
	"fmt"
	"io"
	"slices"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/app"
	"github.com/Gaurav-Gosain/tuixp/internal/apps"
	"github.com/Gaurav-Gosain/tuixp/internal/config"
	"github.com/Gaurav-Gosain/tuixp/internal/login"
	"github.com/Gaurav-Gosain/tuixp/internal/tape"
	"github.com/Gaurav-Gosain/tuixp/internal/taskbar"
	"github.com/Gaurav-Gosain/tuixp/internal/wm"
)

func newOS(t *testing.T, autoLogin string) *app.OS {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Login.AutoLogin = autoLogin
	return app.NewOS(app.Options{
		Config: cfg,
		Bell:   io.Discard,
		Width:  120,
		Height: 40,
		Now:    func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		Probe: func(context.Context) (apps.SystemInfo, error) {
			return apps.SystemInfo{Hostname: "box"}, nil
		},
	})
}

func press(o *app.OS, code rune, mod tea.KeyMod) tea.Cmd {
	_, cmd := HandleInput(tea.KeyPressMsg{Code: code, Mod: mod}, o)
	return cmd
}

func typeText(o *app.OS, s string) {
	for _, r := range s {
		HandleInput(tea.KeyPressMsg{Code: r, Text: string(r)}, o)
	}
}

func click(o *app.OS, x, y int, b tea.MouseButton) tea.Cmd {
	_, cmd := HandleInput(tea.MouseClickMsg{X: x, Y: y, Button: b}, o)
	return cmd
}

func motion(o *app.OS, x, y int) {
	HandleInput(tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseLeft}, o)
}

func release(o *app.OS, x, y int) {
	HandleInput(tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft}, o)
}

func focused(t *testing.T, o *app.OS) wm.Window {
	t.Helper()
	w, ok := o.WM.Focused()
	if !ok {
		t.Fatal("no focused window")
	}
	return w
}

func TestGuestLoginWithKeyboard(t *testing.T) {
	o := newOS(t, "")
	press(o, tea.KeyDown, 0)
	press(o, tea.KeyEnter, 0)
	if o.Screen != app.DesktopScreen || o.Taskbar.User() != login.Guest {
		t.Errorf("screen = %v user = %q", o.Screen, o.Taskbar.User())
	}
}

func TestAdministratorLogin(t *testing.T) {
	o := newOS(t, "")
	press(o, tea.KeyEnter, 0)
	if o.Login.Step() != login.EnterPassword {
		t.Fatalf("step = %v, want EnterPassword", o.Login.Step())
	}

	typeText(o, "admin")
	press(o, tea.KeyEnter, 0)
	if o.Login.Step() != login.ShowError {
		t.Fatalf("step = %v, want ShowError", o.Login.Step())
	}
	if o.Screen != app.LoginScreen {
		t.Fatal("wrong password reached the desktop")
	}

	press(o, tea.KeyEnter, 0)
	typeText(o, login.DefaultAdminPassword)
	press(o, tea.KeyEnter, 0)
	if o.Screen != app.DesktopScreen || o.Taskbar.User() != login.Administrator {
		t.Errorf("screen = %v user = %q", o.Screen, o.Taskbar.User())
	}
}

func TestLoginClick(t *testing.T) {
	o := newOS(t, "")
	// find the Guest row by probing the welcome screen
	for y := range o.Height {
		if i, ok := o.LoginAccountAt(o.Width/2, y); ok && i == 1 {
			click(o, o.Width/2, y, tea.MouseLeft)
			break
		}
	}
	if o.Screen != app.DesktopScreen {
		t.Errorf("screen = %v, want desktop", o.Screen)
	}
}

func TestLoginIgnoresDesktopBindings(t *testing.T) {
	o := newOS(t, "")
	press(o, '2', tea.ModAlt) // launch_notepad
	if o.WM.Len() != 0 {
		t.Error("window opened from the welcome screen")
	}
	press(o, tea.KeyF1, 0)
	if !o.ShowHelp {
		t.Error("help is available on the welcome screen")
	}
}

func TestDragTitleBar(t *testing.T) {
	o := newOS(t, login.Guest)
	o.LaunchApp(apps.Notepad)
	w := focused(t, o)
	start := w.Bounds

	x, y := start.X+6, start.Y+1
	click(o, x, y, tea.MouseLeft)
	if o.Drag == nil {
		t.Fatal("title click did not start a drag")
	}
	motion(o, x+5, y+2)
	release(o, x+5, y+2)

	got, _ := o.WM.Window(w.ID)
	if got.Bounds.X != start.X+5 || got.Bounds.Y != start.Y+2 {
		t.Errorf("moved to %d,%d, want %d,%d", got.Bounds.X, got.Bounds.Y, start.X+5, start.Y+2)
	}
	if got.Bounds.Width != start.Width || got.Bounds.Height != start.Height {
		t.Error("drag changed the size")
	}
	if o.Interacting() {
		t.Error("release did not end the drag")
	}
}

func TestDoubleClickTitleMaximizes(t *testing.T) {
	o := newOS(t, login.Guest)
	o.LaunchApp(apps.Gallery)
	w := focused(t, o)
	x, y := w.Bounds.X+6, w.Bounds.Y+1

	click(o, x, y, tea.MouseLeft)
	release(o, x, y)
	click(o, x, y, tea.MouseLeft)

	got, _ := o.WM.Window(w.ID)
	if !got.Maximized {
		t.Fatal("double click did not maximize")
	}
	if o.Interacting() {
		t.Error("double click left a drag running")
	}
	vw, vh := o.WM.Viewport()
	if got.Bounds != (wm.Bounds{Width: vw, Height: vh}) {
		t.Errorf("maximized bounds = %+v", got.Bounds)
	}

	// maximized windows cannot be dragged
	release(o, x, y)
	click(o, 5, 0, tea.MouseLeft)
	if o.Drag != nil {
		t.Error("drag started on a maximized window")
	}
}

func TestResizeFromCorner(t *testing.T) {
	o := newOS(t, login.Guest)
	o.LaunchApp(apps.Notepad)
	w := focused(t, o)
	b := w.Bounds

	cx, cy := b.X+b.Width-1, b.Y+b.Height-1
	click(o, cx, cy, tea.MouseLeft)
	if o.Resize == nil {
		t.Fatal("corner click did not start a resize")
	}
	motion(o, cx+5, cy+2)
	release(o, cx+5, cy+2)

	got, _ := o.WM.Window(w.ID)
	if got.Bounds.Width != b.Width+5 || got.Bounds.Height != b.Height+2 {
		t.Errorf("size = %dx%d, want %dx%d", got.Bounds.Width, got.Bounds.Height, b.Width+5, b.Height+2)
	}
	if got.Bounds.X != b.X || got.Bounds.Y != b.Y {
		t.Error("south east resize moved the origin")
	}

	// shrinking stops at the minimum size
	cx, cy = got.Bounds.X+got.Bounds.Width-1, got.Bounds.Y+got.Bounds.Height-1
	click(o, cx, cy, tea.MouseLeft)
	motion(o, cx-100, cy-100)
	release(o, cx-100, cy-100)
	got, _ = o.WM.Window(w.ID)
	g := o.Config.Geometry()
	if got.Bounds.Width != g.MinWidth || got.Bounds.Height != g.MinHeight {
		t.Errorf("size = %dx%d, want minimum %dx%d", got.Bounds.Width, got.Bounds.Height, g.MinWidth, g.MinHeight)
	}
}

func TestTitleButtons(t *testing.T) {
	o := newOS(t, login.Guest)
	o.LaunchApp(apps.About)
	w := focused(t, o)
	right := w.Bounds.X + w.Bounds.Width - 1
	y := w.Bounds.Y + 1

	// minimize, then restore from the taskbar
	click(o, right-8, y, tea.MouseLeft)
	if got, _ := o.WM.Window(w.ID); !got.Minimized {
		t.Fatal("minimize button did not minimize")
	}
	rects := o.TaskButtonRects()
	if len(rects) != 1 {
		t.Fatalf("%d task buttons", len(rects))
	}
	click(o, rects[0].X+1, rects[0].Y, tea.MouseLeft)
	if got, _ := o.WM.Window(w.ID); got.Minimized || !got.Focused {
		t.Fatal("taskbar click did not restore and focus")
	}

	// a second taskbar click keeps the window up
	click(o, rects[0].X+1, rects[0].Y, tea.MouseLeft)
	if got, _ := o.WM.Window(w.ID); got.Minimized {
		t.Error("taskbar click minimized the focused window")
	}

	click(o, right-5, y, tea.MouseLeft)
	if got, _ := o.WM.Window(w.ID); !got.Maximized {
		t.Fatal("maximize button did not maximize")
	}
	got, _ := o.WM.Window(w.ID)
	right = got.Bounds.X + got.Bounds.Width - 1
	click(o, right-2, got.Bounds.Y+1, tea.MouseLeft)
	if o.WM.Len() != 0 {
		t.Error("close button did not close")
	}
	if len(o.Taskbar.Buttons()) != 0 {
		t.Error("taskbar kept a button for a closed window")
	}
}

func TestClickFocusesAndRaises(t *testing.T) {
	o := newOS(t, login.Guest)
	o.LaunchApp(apps.Notepad)
	first := focused(t, o)
	o.LaunchApp(apps.About)
	second := focused(t, o)

	// a cell of the first window not covered by the second
	x, y := first.Bounds.X+1, first.Bounds.Y+3
	if top, ok := o.WM.TopmostAt(x, y); !ok || top.ID != first.ID {
		t.Fatalf("probe cell is not on the first window")
	}
	click(o, x, y, tea.MouseLeft)
	f := focused(t, o)
	if f.ID != first.ID {
		t.Errorf("focused %q, want %q", f.Title, first.Title)
	}
	if s, _ := o.WM.Window(second.ID); f.Z <= s.Z {
		t.Error("clicked window was not raised")
	}
}

func TestKeyBindings(t *testing.T) {
	o := newOS(t, login.Guest)

	press(o, '2', tea.ModAlt)
	press(o, '4', tea.ModAlt)
	if o.WM.Len() != 2 {
		t.Fatalf("Len = %d, want 2", o.WM.Len())
	}
	about := focused(t, o)

	press(o, tea.KeyTab, tea.ModAlt)
	if f := focused(t, o); f.ID == about.ID {
		t.Error("alt+tab did not switch windows")
	}

	press(o, 'm', tea.ModAlt)
	if o.WM.Len() != 2 {
		t.Error("minimize closed a window")
	}

	press(o, tea.KeyF4, tea.ModAlt)
	if o.WM.Len() != 1 {
		t.Errorf("alt+f4 left %d windows", o.WM.Len())
	}

	press(o, tea.KeyF10, 0)
	if !o.Taskbar.StartMenuOpen() {
		t.Error("f10 did not open the start menu")
	}
	press(o, tea.KeyEscape, 0)
	if o.Taskbar.StartMenuOpen() {
		t.Error("esc did not close the start menu")
	}

	muted := o.Sound.Muted()
	press(o, 'v', tea.ModAlt)
	if o.Sound.Muted() == muted {
		t.Error("alt+v did not toggle mute")
	}
}

func TestKeysReachFocusedBody(t *testing.T) {
	o := newOS(t, login.Guest)
	o.LaunchApp(apps.Notepad)
	typeText(o, "hi")
	body, ok := o.FocusedBody()
	if !ok {
		t.Fatal("no focused body")
	}
	n, ok := body.(*apps.NotepadApp)
	if !ok {
		t.Fatalf("focused body is %T", body)
	}
	if got := n.Text(); got != "hi" {
		t.Errorf("text = %q", got)
	}
}

func TestStartMenuLogOff(t *testing.T) {
	o := newOS(t, login.Guest)
	o.LaunchApp(apps.Notepad)

	sb := o.StartButtonRect()
	click(o, sb.X+1, sb.Y, tea.MouseLeft)
	if !o.Taskbar.StartMenuOpen() {
		t.Fatal("start button did not open the menu")
	}

	i := slices.IndexFunc(o.Taskbar.MenuItems(), func(it taskbar.MenuItem) bool {
		return it.Action == taskbar.LogOff
	})
	r := o.StartMenuRect()
	click(o, r.X+3, r.Y+2+i, tea.MouseLeft)
	if o.Dialog != app.LogOffDialog {
		t.Fatalf("dialog = %v, want log off", o.Dialog)
	}

	// clicks outside the dialog are swallowed
	click(o, 1, 1, tea.MouseLeft)
	if o.Dialog != app.LogOffDialog {
		t.Fatal("click outside closed the dialog")
	}

	yes, _ := o.DialogButtonRects()
	click(o, yes.X+1, yes.Y+1, tea.MouseLeft)
	if o.Screen != app.LoginScreen {
		t.Errorf("screen = %v, want login", o.Screen)
	}
	if o.WM.Len() != 0 {
		t.Error("log off left windows open")
	}
}

func TestDialogNoKeepsSession(t *testing.T) {
	o := newOS(t, login.Guest)
	o.OpenDialog(app.ShutDownDialog)
	press(o, tea.KeyEnter, 0) // "No" is preselected
	if o.Dialog != app.NoDialog || o.Screen != app.DesktopScreen {
		t.Errorf("dialog = %v screen = %v", o.Dialog, o.Screen)
	}
}

func TestShutDown(t *testing.T) {
	o := newOS(t, login.Guest)
	o.OpenDialog(app.ShutDownDialog)
	typeText(o, "y")
	if o.Screen != app.ShutDownScreen {
		t.Fatalf("screen = %v, want shut down", o.Screen)
	}
	cmd := press(o, 'x', 0)
	if cmd == nil {
		t.Fatal("no command after shut down")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("key on the shutdown screen did not quit")
	}
}

func TestDesktopContextMenu(t *testing.T) {
	o := newOS(t, login.Guest)
	click(o, 60, 20, tea.MouseRight)
	if o.Menu == nil {
		t.Fatal("right click did not open the desktop menu")
	}
	r, _ := o.MenuRect()

	i := slices.IndexFunc(o.Menu.Entries, func(e app.MenuEntry) bool {
		return e.Action == app.MenuArrangeByName
	})
	click(o, r.X+2, r.Y+1+i, tea.MouseLeft)
	if o.Menu != nil {
		t.Error("menu still open")
	}
	if o.Icons[0].Label != "About" {
		t.Errorf("first icon = %q, want About", o.Icons[0].Label)
	}

	// clicking elsewhere closes the menu and still acts
	click(o, 60, 20, tea.MouseRight)
	click(o, 70, 10, tea.MouseLeft)
	if o.Menu != nil {
		t.Error("outside click left the menu open")
	}
}

func TestWindowContextMenu(t *testing.T) {
	o := newOS(t, login.Guest)
	o.LaunchApp(apps.About)
	w := focused(t, o)
	click(o, w.Bounds.X+4, w.Bounds.Y+1, tea.MouseRight)
	if o.Menu == nil || o.Menu.WindowID != w.ID {
		t.Fatal("right click on the title did not open the window menu")
	}

	// Restore is disabled, so Minimize starts highlighted
	press(o, tea.KeyEnter, 0)
	if got, _ := o.WM.Window(w.ID); !got.Minimized {
		t.Error("Minimize entry did not minimize")
	}
}

func TestDoubleClickIcon(t *testing.T) {
	o := newOS(t, login.Guest)
	i := slices.IndexFunc(o.Icons, func(ic app.DesktopIcon) bool { return ic.App == apps.Notepad })
	r := app.IconRect(i)

	click(o, r.X+1, r.Y+1, tea.MouseLeft)
	if o.SelectedIcon != i || o.WM.Len() != 0 {
		t.Fatalf("single click: selected %d, %d windows", o.SelectedIcon, o.WM.Len())
	}
	click(o, r.X+1, r.Y+1, tea.MouseLeft)
	if f := focused(t, o); f.Title != "Untitled - Notepad" {
		t.Errorf("opened %q", f.Title)
	}
}

func TestOverlaysSwallowClick(t *testing.T) {
	o := newOS(t, login.Guest)
	press(o, tea.KeyF1, 0)
	if !o.ShowHelp {
		t.Fatal("f1 did not open help")
	}
	i := slices.IndexFunc(o.Icons, func(ic app.DesktopIcon) bool { return ic.App == apps.Notepad })
	r := app.IconRect(i)
	click(o, r.X+1, r.Y+1, tea.MouseLeft)
	if o.ShowHelp {
		t.Error("click did not close help")
	}
	if o.SelectedIcon == i {
		t.Error("closing click reached the desktop")
	}
}

func TestLogViewerScroll(t *testing.T) {
	o := newOS(t, login.Guest)
	press(o, 'l', tea.ModCtrl)
	if !o.ShowLogs {
		t.Fatal("ctrl+l did not open the log viewer")
	}
	HandleInput(tea.MouseWheelMsg{X: 10, Y: 10, Button: tea.MouseWheelUp}, o)
	press(o, tea.KeyUp, 0)
	if o.LogScrollOffset != 2 {
		t.Errorf("offset = %d, want 2", o.LogScrollOffset)
	}
	press(o, tea.KeyEnd, 0)
	if o.LogScrollOffset != 0 {
		t.Errorf("offset = %d after end", o.LogScrollOffset)
	}
	press(o, tea.KeyEscape, 0)
	if o.ShowLogs {
		t.Error("esc did not close the log viewer")
	}
}

func TestDispatcher(t *testing.T) {
	d := GetDispatcher()
	for _, action := range []string{
		"close_window", "minimize_window", "maximize_window", "next_window", "prev_window",
		"toggle_start_menu", "launch_computer", "launch_notepad", "launch_gallery", "launch_about",
		"toggle_logs", "toggle_mute", "toggle_help", "quit",
	} {
		if !d.HasAction(action) {
			t.Errorf("no handler for %q", action)
		}
	}
	if d.HasAction("bogus") {
		t.Error("unknown action reported as registered")
	}
}

func TestScriptDrivesDesktop(t *testing.T) {
	steps, err := tape.Load("Action launch_notepad\nType \"hi\"\nAction no_such_action\n")
	if err != nil {
		t.Fatal(err)
	}

	locked := newOS(t, "")
	HandleInput(steps[0].Msg, locked)
	if locked.WM.Len() != 0 {
		t.Error("script launched an app from the welcome screen")
	}

	o := newOS(t, "Guest")
	for _, s := range steps {
		HandleInput(s.Msg, o)
	}
	body, ok := o.FocusedBody()
	if !ok {
		t.Fatal("no focused body")
	}
	n, ok := body.(*apps.NotepadApp)
	if !ok {
		t.Fatalf("focused body is %T", body)
	}
	if got := n.Text(); got != "hi" {
		t.Errorf("text = %q", got)
	}
}

func TestScriptClickFocuses(t *testing.T) {
	o := newOS(t, "Guest")
	o.LaunchApp(apps.About)
	first := focused(t, o)
	o.LaunchApp(apps.Gallery)

	x, y := first.Bounds.X+1, first.Bounds.Y+3
	if top, ok := o.WM.TopmostAt(x, y); !ok || top.ID != first.ID {
		t.Fatalf("probe cell is not on the first window")
	}
	steps, err := tape.Load(fmt.Sprintf("Click %d %d\n", x, y))
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range steps {
		HandleInput(s.Msg, o)
	}
	if got := focused(t, o); got.ID != first.ID {
		t.Errorf("focused %s, want %s", got.Title, first.Title)
	}
}
