// Package app provides the tuixp desktop shell: the welcome screen, the
// desktop with its icons, windows and taskbar, and the shutdown screen.
package app

import (
	"fmt"
	"io"
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/apps"
	"github.com/Gaurav-Gosain/tuixp/internal/config"
	"github.com/Gaurav-Gosain/tuixp/internal/login"
	"github.com/Gaurav-Gosain/tuixp/internal/sound"
	"github.com/Gaurav-Gosain/tuixp/internal/storage"
	"github.com/Gaurav-Gosain/tuixp/internal/taskbar"
	"github.com/Gaurav-Gosain/tuixp/internal/theme"
	"github.com/Gaurav-Gosain/tuixp/internal/wm"
	"github.com/charmbracelet/log"
)

// Screen is the top-level state of a desktop session.
type Screen int

const (
	// LoginScreen shows the welcome screen.
	LoginScreen Screen = iota
	// DesktopScreen shows the desktop.
	DesktopScreen
	// ShutDownScreen shows the "safe to turn off" message.
	ShutDownScreen
)

// Dialog is a modal confirmation box.
type Dialog int

const (
	// NoDialog means no dialog is open.
	NoDialog Dialog = iota
	// LogOffDialog asks before logging off.
	LogOffDialog
	// ShutDownDialog asks before shutting down.
	ShutDownDialog
)

// TaskbarHeight is the number of rows the taskbar takes at the bottom.
const TaskbarHeight = 1

const maxLogMessages = 500

// LogMessage represents a log entry with timestamp and level.
type LogMessage struct {
	Time    time.Time
	Level   string // INFO, WARN, ERROR
	Message string
}

// Notification represents a temporary notification message.
type Notification struct {
	Message   string
	Type      string // "info", "warning", "error"
	StartTime time.Time
	Duration  time.Duration
}

// NotificationDuration is how long notifications stay on screen.
const NotificationDuration = 3 * time.Second

// DesktopIcon is a shortcut on the desktop.
type DesktopIcon struct {
	App   apps.Kind
	Label string
	Glyph string
	Type  string
}

// DefaultIcons are the desktop shortcuts in their initial order.
func DefaultIcons() []DesktopIcon {
	return []DesktopIcon{
		{App: apps.Computer, Label: "My Computer", Glyph: apps.Icons[apps.Computer], Type: "System"},
		{App: apps.Notepad, Label: "Notepad", Glyph: apps.Icons[apps.Notepad], Type: "Application"},
		{App: apps.Gallery, Label: "My Gallery", Glyph: apps.Icons[apps.Gallery], Type: "Folder"},
		{App: apps.About, Label: "About", Glyph: apps.Icons[apps.About], Type: "Document"},
	}
}

// OS is the state of one desktop session. It is driven by a single
// bubbletea program and is not safe for concurrent use.
type OS struct {
	Width  int
	Height int
	Screen Screen

	Config          *config.UserConfig
	KeybindRegistry *config.KeybindRegistry
	WM              *wm.Manager
	Taskbar         *taskbar.Taskbar
	Launcher        *apps.Launcher
	Login           *login.Screen
	Sound           *sound.Player

	Icons        []DesktopIcon
	SelectedIcon int // -1 when no icon is selected

	Menu            *ContextMenu
	Dialog          Dialog
	DialogSelection int // 0 = Yes (left), 1 = No (right)

	// Active mouse interaction, at most one at a time.
	Drag   *wm.DragSession
	Resize *wm.ResizeSession

	lastClickTarget string
	lastClickTime   time.Time

	ShowHelp        bool
	HelpCategory    int
	ShowLogs        bool
	LogMessages     []LogMessage
	LogScrollOffset int
	Notifications   []Notification

	// ShowKeys draws recent key presses in the bottom-right corner.
	ShowKeys   bool
	RecentKeys []KeyEvent

	IsSSHMode bool
	Version   string

	now    func() time.Time
	logger *log.Logger
	bells  *bellQueue
}

// Options configures NewOS.
type Options struct {
	Config *config.UserConfig
	// Notes stores the notepad's text; nil disables persistence.
	Notes  *storage.Notes
	Logger *log.Logger
	// Bell receives the system sounds. When nil they are written to the
	// terminal through the program.
	Bell      io.Writer
	Probe     apps.Probe
	Version   string
	Width     int
	Height    int
	IsSSHMode bool
	ShowKeys  bool
	// Now replaces time.Now in tests.
	Now func() time.Time
}

// NewOS creates a session at the welcome screen, or on the desktop when the
// configuration names an auto-login account.
func NewOS(opts Options) *OS {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	o := &OS{
		Width:        opts.Width,
		Height:       opts.Height,
		Config:       cfg,
		Icons:        DefaultIcons(),
		SelectedIcon: -1,
		IsSSHMode:    opts.IsSSHMode,
		ShowKeys:     opts.ShowKeys,
		Version:      opts.Version,
		now:          now,
		logger:       logger,
	}

	if err := theme.Initialize(cfg.Desktop.Theme); err != nil {
		o.LogWarn("theme %q: %v", cfg.Desktop.Theme, err)
	}

	bell := opts.Bell
	if bell == nil {
		o.bells = &bellQueue{}
		bell = o.bells
	}
	o.Sound = sound.NewPlayer(bell)
	o.applySound(cfg.Sound)

	o.KeybindRegistry = config.NewKeybindRegistry(cfg)
	o.WM = wm.New(cfg.Geometry(),
		wm.WithNotifier(o.Sound),
		wm.WithLogger(logger),
		wm.WithViewport(o.Width, o.DesktopHeight()),
	)
	o.Taskbar = taskbar.New()
	o.Taskbar.Attach(o.WM)

	catalog := apps.CatalogOptions{
		Size: func(k apps.Kind) (int, int) {
			s := o.Config.AppSize(string(k))
			return s.Width, s.Height
		},
		Autosave: time.Duration(cfg.Storage.AutosaveMS) * time.Millisecond,
		Probe:    opts.Probe,
		Version:  opts.Version,
		Logger:   logger,
		Settings: o.Settings,
	}
	if opts.Notes != nil {
		catalog.Notes = opts.Notes
	}
	o.Launcher = apps.NewLauncher(o.WM, apps.Catalog(catalog))
	accounts := login.NewAccounts(cfg.Login.AdminPassword)
	o.Login = login.NewScreen(accounts)

	if name := cfg.Login.AutoLogin; name != "" {
		if _, ok := accounts.Lookup(name); ok {
			o.completeLogin(name)
		} else {
			o.LogWarn("auto login: unknown user %q", name)
		}
	}
	return o
}

func (m *OS) applySound(s config.SoundConfig) {
	if s.Muted {
		m.Sound.Mute()
	} else {
		m.Sound.Unmute()
	}
	m.Sound.SetVolume(s.Volume)
	for _, n := range sound.Names() {
		m.Sound.SetEnabled(n, !slices.Contains(s.Disabled, string(n)))
	}
}

// Logger returns the session's structured logger.
func (m *OS) Logger() *log.Logger { return m.logger }

// Now returns the session's current time.
func (m *OS) Now() time.Time { return m.now() }

// DesktopHeight is the height available to windows.
func (m *OS) DesktopHeight() int {
	return max(m.Height-TaskbarHeight, 0)
}

// Log adds a new log message to the log buffer and the structured logger.
func (m *OS) Log(level, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	m.LogMessages = append(m.LogMessages, LogMessage{
		Time:    m.now(),
		Level:   level,
		Message: message,
	})
	if len(m.LogMessages) > maxLogMessages {
		m.LogMessages = m.LogMessages[len(m.LogMessages)-maxLogMessages:]
	}

	switch level {
	case "ERROR":
		m.logger.Error(message)
	case "WARN":
		m.logger.Warn(message)
	default:
		m.logger.Info(message)
	}
}

// LogInfo logs an informational message.
func (m *OS) LogInfo(format string, args ...any) {
	m.Log("INFO", format, args...)
}

// LogWarn logs a warning message.
func (m *OS) LogWarn(format string, args ...any) {
	m.Log("WARN", format, args...)
}

// LogError logs an error message.
func (m *OS) LogError(format string, args ...any) {
	m.Log("ERROR", format, args...)
}

// ShowNotification displays a temporary notification.
func (m *OS) ShowNotification(message, notifType string, duration time.Duration) {
	m.Notifications = append(m.Notifications, Notification{
		Message:   message,
		Type:      notifType,
		StartTime: m.now(),
		Duration:  duration,
	})

	switch notifType {
	case "error":
		m.LogError("%s", message)
	case "warning":
		m.LogWarn("%s", message)
	default:
		m.LogInfo("%s", message)
	}
}

// CleanupNotifications removes expired notifications.
func (m *OS) CleanupNotifications() {
	now := m.now()
	m.Notifications = slices.DeleteFunc(m.Notifications, func(n Notification) bool {
		return now.Sub(n.StartTime) >= n.Duration
	})
}

// Settings returns the preferences shown by Display Properties.
func (m *OS) Settings() apps.Settings {
	return apps.Settings{
		Theme:       m.Config.Desktop.Theme,
		ClockFormat: m.Config.Desktop.ClockFormat,
		Muted:       m.Sound.Muted(),
		Volume:      m.Sound.Volume(),
	}
}

// ApplySettings applies preferences changed in Display Properties.
func (m *OS) ApplySettings(s apps.Settings) {
	if s.Theme != m.Config.Desktop.Theme {
		if err := theme.Initialize(s.Theme); err != nil {
			m.LogWarn("theme %q: %v", s.Theme, err)
		} else {
			m.Config.Desktop.Theme = s.Theme
		}
	}
	if s.ClockFormat == taskbar.Clock12h || s.ClockFormat == taskbar.Clock24h {
		m.Config.Desktop.ClockFormat = s.ClockFormat
	}
	m.Config.Sound.Muted = s.Muted
	m.Config.Sound.Volume = s.Volume
	m.applySound(m.Config.Sound)
}

// ApplyConfig replaces the configuration, as after the file changed on disk.
// Open windows keep their geometry.
func (m *OS) ApplyConfig(cfg *config.UserConfig) {
	if cfg == nil {
		return
	}
	m.Config = cfg
	m.KeybindRegistry = config.NewKeybindRegistry(cfg)
	m.WM.SetGeometry(cfg.Geometry())
	m.applySound(cfg.Sound)
	if err := theme.Initialize(cfg.Desktop.Theme); err != nil {
		m.LogWarn("theme %q: %v", cfg.Desktop.Theme, err)
	}
	m.ShowNotification("Configuration reloaded", "info", NotificationDuration)
}

// ResizeTerminal updates the terminal size and the window manager's viewport.
func (m *OS) ResizeTerminal(width, height int) {
	m.Width = width
	m.Height = height
	m.WM.SetViewport(width, m.DesktopHeight())
}

// DoubleClickInterval is the configured double click threshold.
func (m *OS) DoubleClickInterval() time.Duration {
	ms := m.Config.Desktop.DoubleClickMS
	if ms <= 0 {
		ms = 400
	}
	return time.Duration(ms) * time.Millisecond
}

// RegisterClick records a click on target and reports whether it completes
// a double click. A double click resets the record so a third click starts
// over.
func (m *OS) RegisterClick(target string) bool {
	now := m.now()
	double := target != "" && target == m.lastClickTarget &&
		now.Sub(m.lastClickTime) <= m.DoubleClickInterval()
	if double {
		m.lastClickTarget = ""
		m.lastClickTime = time.Time{}
		return true
	}
	m.lastClickTarget = target
	m.lastClickTime = now
	return false
}

// completeLogin moves from the welcome screen to the desktop.
func (m *OS) completeLogin(user string) {
	m.Screen = DesktopScreen
	m.Taskbar.SetUser(user)
	m.SelectedIcon = -1
	if err := m.Sound.Play(sound.Logon); err != nil {
		m.logger.Debug("logon sound", "err", err)
	}
	m.LogInfo("%s logged on", user)
}

// SubmitLogin checks the password typed on the welcome screen.
func (m *OS) SubmitLogin() {
	if err := m.Login.Submit(); err != nil {
		m.LogWarn("failed login for %s", m.Login.User())
		return
	}
	if m.Login.Step() == login.LoggedIn {
		m.completeLogin(m.Login.User())
	}
}

// ChooseUser picks an account on the welcome screen.
func (m *OS) ChooseUser(i int) {
	m.Login.Choose(i)
	if m.Login.Step() == login.LoggedIn {
		m.completeLogin(m.Login.User())
	}
}

// LaunchApp opens an application, or focuses it when it is already open.
func (m *OS) LaunchApp(kind apps.Kind) tea.Cmd {
	m.closePopups()
	h, cmd, ok := m.Launcher.Launch(kind)
	if !ok {
		m.LogWarn("unknown application %q", kind)
		return nil
	}
	m.LogInfo("launched %s (%s)", kind, h.ID)
	return cmd
}

// BodyOf returns the body of window id.
func (m *OS) BodyOf(id string) (apps.Body, bool) {
	w, ok := m.WM.Window(id)
	if !ok {
		return nil, false
	}
	b, ok := w.Body.(apps.Body)
	return b, ok
}

// FocusedBody returns the body of the focused window.
func (m *OS) FocusedBody() (apps.Body, bool) {
	w, ok := m.WM.Focused()
	if !ok {
		return nil, false
	}
	return m.BodyOf(w.ID)
}

// CloseWindow closes window id, returning the body's final command.
func (m *OS) CloseWindow(id string) tea.Cmd {
	w, ok := m.WM.Window(id)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	if c, ok := w.Body.(apps.Closer); ok {
		cmd = c.Close()
	}
	m.endInteraction(id)
	m.WM.Close(id)
	m.LogInfo("closed %q", w.Title)
	return cmd
}

// MinimizeWindow minimizes window id.
func (m *OS) MinimizeWindow(id string) {
	m.endInteraction(id)
	m.WM.Minimize(id)
}

// ToggleMaximize maximizes or restores window id.
func (m *OS) ToggleMaximize(id string) {
	m.endInteraction(id)
	m.WM.ToggleMaximize(id)
}

// RestoreWindow undoes a minimize or a maximize, as the window menu's
// Restore entry does.
func (m *OS) RestoreWindow(id string) {
	w, ok := m.WM.Window(id)
	if !ok {
		return
	}
	if w.Minimized {
		m.WM.Restore(id)
		return
	}
	if w.Maximized {
		m.WM.ToggleMaximize(id)
	}
}

// CycleWindows focuses the next (delta > 0) or previous visible window in
// open order, restoring nothing.
func (m *OS) CycleWindows(delta int) {
	var visible []string
	for _, id := range m.WM.OpenOrder() {
		if w, ok := m.WM.Window(id); ok && w.Visible() {
			visible = append(visible, id)
		}
	}
	if len(visible) == 0 {
		return
	}
	cur := -1
	if f, ok := m.WM.Focused(); ok {
		cur = slices.Index(visible, f.ID)
	}
	next := 0
	switch {
	case cur < 0 && delta < 0:
		next = len(visible) - 1
	case cur >= 0:
		next = ((cur+delta)%len(visible) + len(visible)) % len(visible)
	}
	m.WM.Focus(visible[next])
}

// endInteraction drops a drag or resize on window id.
func (m *OS) endInteraction(id string) {
	if m.Drag != nil && m.Drag.WindowID() == id {
		m.Drag.End()
		m.Drag = nil
	}
	if m.Resize != nil && m.Resize.WindowID() == id {
		m.Resize.End()
		m.Resize = nil
	}
}

// Interacting reports whether a drag or resize is in progress.
func (m *OS) Interacting() bool {
	return m.Drag != nil || m.Resize != nil
}

// EndInteraction commits the active drag or resize.
func (m *OS) EndInteraction() {
	if m.Drag != nil {
		m.Drag.End()
		m.Drag = nil
	}
	if m.Resize != nil {
		m.Resize.End()
		m.Resize = nil
	}
}

func (m *OS) closePopups() {
	m.Menu = nil
	m.Taskbar.CloseStartMenu()
}

// closeAll closes every window and returns their final commands.
func (m *OS) closeAll() []tea.Cmd {
	m.EndInteraction()
	var cmds []tea.Cmd
	for _, w := range m.WM.Windows() {
		if c, ok := w.Body.(apps.Closer); ok {
			if cmd := c.Close(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	if n := len(m.WM.Windows()); n > 0 {
		m.WM.CloseAll()
		m.LogInfo("closed %d windows", n)
	}
	return cmds
}

// LogOff closes every window and returns to the welcome screen.
func (m *OS) LogOff() tea.Cmd {
	user := m.Taskbar.User()
	cmds := m.closeAll()
	m.closePopups()
	m.Dialog = NoDialog
	m.ShowHelp = false
	m.Login.Reset()
	m.Taskbar.SetUser("")
	m.Screen = LoginScreen
	m.LogInfo("%s logged off", user)
	return tea.Batch(cmds...)
}

// ShutDown closes every window and shows the shutdown screen. The next key
// press or click quits.
func (m *OS) ShutDown() tea.Cmd {
	cmds := m.closeAll()
	m.closePopups()
	m.Dialog = NoDialog
	m.ShowHelp = false
	m.Screen = ShutDownScreen
	m.LogInfo("shutting down")
	return tea.Batch(cmds...)
}

// Quit saves what needs saving and ends the program.
func (m *OS) Quit() tea.Cmd {
	cmds := m.closeAll()
	return tea.Sequence(append(cmds, tea.Quit)...)
}

// OpenDialog shows a confirmation dialog with "No" preselected.
func (m *OS) OpenDialog(d Dialog) {
	m.closePopups()
	m.Dialog = d
	m.DialogSelection = 1
}

// ConfirmDialog answers the open dialog.
func (m *OS) ConfirmDialog(yes bool) tea.Cmd {
	d := m.Dialog
	m.Dialog = NoDialog
	if !yes {
		return nil
	}
	switch d {
	case LogOffDialog:
		return m.LogOff()
	case ShutDownDialog:
		return m.ShutDown()
	}
	return nil
}

// ChooseStartItem runs a start menu entry.
func (m *OS) ChooseStartItem(item taskbar.MenuItem) tea.Cmd {
	m.Taskbar.CloseStartMenu()
	switch item.Action {
	case taskbar.Launch:
		return m.LaunchApp(apps.Kind(item.App))
	case taskbar.LogOff:
		m.OpenDialog(LogOffDialog)
	case taskbar.ShutDown:
		m.OpenDialog(ShutDownDialog)
	}
	return nil
}

// ToggleMute mutes or unmutes the system sounds.
func (m *OS) ToggleMute() {
	muted := m.Sound.ToggleMute()
	m.Config.Sound.Muted = muted
	if muted {
		m.ShowNotification("Sounds muted", "info", NotificationDuration)
	} else {
		m.ShowNotification("Sounds on", "info", NotificationDuration)
	}
}

// Cleanup releases the session's resources after the program exits.
func (m *OS) Cleanup() {
	m.Taskbar.Detach()
}
