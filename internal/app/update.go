package app

import (
	"bytes"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/apps"
	"github.com/Gaurav-Gosain/tuixp/internal/config"
	"github.com/Gaurav-Gosain/tuixp/internal/sound"
	"github.com/Gaurav-Gosain/tuixp/internal/tape"
)

// TickerMsg represents a periodic tick event for updating the clock and
// expiring notifications. Exported so it can be used by the input package.
type TickerMsg time.Time

// ConfigReloadedMsg carries a configuration that changed on disk.
type ConfigReloadedMsg struct {
	Config *config.UserConfig
}

// QuitRequestMsg asks the session to save its work and quit, as the quit
// key binding does. It is sent on SIGINT and SIGTERM.
type QuitRequestMsg struct{}

// InputHandler is a function type that handles input messages.
// This allows the Update method to delegate to the input package without creating a circular dependency.
type InputHandler func(msg tea.Msg, o *OS) (tea.Model, tea.Cmd)

// inputHandler is the registered input handler function.
// This will be set by the main package to break the circular dependency.
var inputHandler InputHandler

// SetInputHandler registers the input handler function.
// This must be called during initialization before the Update loop runs.
func SetInputHandler(handler InputHandler) {
	inputHandler = handler
}

// TickCmd schedules the next clock tick.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// Init starts the clock and plays the startup sound.
func (m *OS) Init() tea.Cmd {
	player := m.Sound
	return tea.Batch(
		TickCmd(),
		func() tea.Msg {
			if err := player.Play(sound.Startup); err != nil {
				m.logger.Debug("startup sound", "err", err)
			}
			return nil
		},
	)
}

// Update handles all incoming messages and updates the session state.
// Keyboard and mouse input goes to the registered InputHandler.
func (m *OS) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.update(msg)
	if bells := m.flushBells(); bells != nil {
		cmd = tea.Batch(cmd, bells)
	}
	return model, cmd
}

func (m *OS) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickerMsg:
		m.CleanupNotifications()
		m.CleanupExpiredKeys()
		return m, TickCmd()

	case tea.WindowSizeMsg:
		m.ResizeTerminal(msg.Width, msg.Height)
		return m, nil

	case ConfigReloadedMsg:
		m.ApplyConfig(msg.Config)
		return m, nil

	case QuitRequestMsg:
		return m, m.Quit()

	case apps.SettingsChangedMsg:
		m.ApplySettings(msg.Settings)
		return m, nil

	case apps.Routed:
		return m, m.route(msg)

	case tea.KeyPressMsg, tea.MouseClickMsg, tea.MouseReleaseMsg, tea.MouseMotionMsg, tea.MouseWheelMsg, tape.ActionMsg:
		if inputHandler == nil {
			return m, nil
		}
		return inputHandler(msg, m)
	}
	return m, nil
}

// route delivers msg to the window whose body it addresses. Messages for
// windows that have closed are dropped.
func (m *OS) route(msg apps.Routed) tea.Cmd {
	target := msg.Target()
	for _, w := range m.WM.Windows() {
		if w.Body != target {
			continue
		}
		if u, ok := w.Body.(apps.Updater); ok {
			return u.Update(msg)
		}
		return nil
	}
	m.logger.Debug("dropped message for closed window", "msg", msg)
	return nil
}

// bellQueue collects the sound player's output between updates so it
// reaches the terminal through the program's renderer.
type bellQueue struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (q *bellQueue) Write(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Write(p)
}

func (q *bellQueue) drain() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.buf.String()
	q.buf.Reset()
	return s
}

func (m *OS) flushBells() tea.Cmd {
	if m.bells == nil {
		return nil
	}
	s := m.bells.drain()
	if s == "" {
		return nil
	}
	return tea.Raw(s)
}
