// Package config loads and saves the tuixp configuration file and resolves
// the locations of everything tuixp keeps on disk.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

const appName = "tuixp"

// NormalFPS is the frame rate every tuixp program renders at.
const NormalFPS = 60

// UserConfig is the contents of config.toml.
type UserConfig struct {
	Login       LoginConfig       `toml:"login"`
	Desktop     DesktopConfig     `toml:"desktop"`
	Windows     WindowsConfig     `toml:"windows"`
	Sound       SoundConfig       `toml:"sound"`
	Storage     StorageConfig     `toml:"storage"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
}

// LoginConfig configures the welcome screen.
type LoginConfig struct {
	AdminPassword string `toml:"admin_password"`
	// AutoLogin skips the welcome screen for the named account.
	AutoLogin string `toml:"auto_login"`
}

// DesktopConfig configures the desktop and taskbar.
type DesktopConfig struct {
	Theme         string `toml:"theme"`
	ClockFormat   string `toml:"clock_format"`
	DoubleClickMS int    `toml:"double_click_ms"`
	ShowIcons     bool   `toml:"show_icons"`
}

// Size is a window size in terminal cells.
type Size struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// WindowsConfig holds the window manager's geometry in terminal cells.
type WindowsConfig struct {
	DefaultWidth  int             `toml:"default_width"`
	DefaultHeight int             `toml:"default_height"`
	MinWidth      int             `toml:"min_width"`
	MinHeight     int             `toml:"min_height"`
	CascadeX      int             `toml:"cascade_x"`
	CascadeY      int             `toml:"cascade_y"`
	CascadeStepX  int             `toml:"cascade_step_x"`
	CascadeStepY  int             `toml:"cascade_step_y"`
	MarginX       int             `toml:"margin_x"`
	MarginY       int             `toml:"margin_y"`
	Apps          map[string]Size `toml:"apps"`
}

// SoundConfig configures the system sounds.
type SoundConfig struct {
	Muted    bool     `toml:"muted"`
	Volume   float64  `toml:"volume"`
	Disabled []string `toml:"disabled"`
}

// StorageConfig configures the note database.
type StorageConfig struct {
	// Path of the SQLite database; empty selects the XDG data directory.
	Path       string `toml:"path"`
	AutosaveMS int    `toml:"autosave_ms"`
}

// KeybindingsConfig maps actions to key lists, grouped as in the help overlay.
type KeybindingsConfig struct {
	Windows map[string][]string `toml:"windows"`
	Desktop map[string][]string `toml:"desktop"`
	System  map[string][]string `toml:"system"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Login: LoginConfig{
			AdminPassword: "admin99*",
		},
		Desktop: DesktopConfig{
			Theme:         "tuixp",
			ClockFormat:   "12h",
			DoubleClickMS: 400,
			ShowIcons:     true,
		},
		Windows: WindowsConfig{
			DefaultWidth:  60,
			DefaultHeight: 18,
			MinWidth:      30,
			MinHeight:     8,
			CascadeX:      14,
			CascadeY:      2,
			CascadeStepX:  3,
			CascadeStepY:  1,
			MarginX:       10,
			MarginY:       3,
			Apps: map[string]Size{
				"notepad":  {Width: 60, Height: 18},
				"gallery":  {Width: 70, Height: 22},
				"about":    {Width: 50, Height: 20},
				"computer": {Width: 50, Height: 18},
				"display":  {Width: 44, Height: 14},
			},
		},
		Sound: SoundConfig{
			Volume: 1,
		},
		Storage: StorageConfig{
			AutosaveMS: 1000,
		},
		Keybindings: KeybindingsConfig{
			Windows: map[string][]string{
				"close_window":    {"alt+f4", "ctrl+w"},
				"minimize_window": {"alt+m"},
				"maximize_window": {"alt+x"},
				"next_window":     {"alt+tab", "alt+]"},
				"prev_window":     {"alt+shift+tab", "alt+["},
			},
			Desktop: map[string][]string{
				"toggle_start_menu": {"f10", "alt+s"},
				"launch_computer":   {"alt+1"},
				"launch_notepad":    {"alt+2"},
				"launch_gallery":    {"alt+3"},
				"launch_about":      {"alt+4"},
			},
			System: map[string][]string{
				"toggle_logs": {"ctrl+l"},
				"toggle_mute": {"alt+v"},
				"toggle_help": {"f1"},
				"quit":        {"ctrl+q"},
			},
		},
	}
}

// GetConfigPath returns the location of config.toml.
func GetConfigPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join(appName, "config.toml"))
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

// DataPath returns the default note database location.
func DataPath() (string, error) {
	path, err := xdg.DataFile(filepath.Join(appName, "notes.db"))
	if err != nil {
		return "", fmt.Errorf("resolve data path: %w", err)
	}
	return path, nil
}

// LogPath returns the location of the local-mode log file.
func LogPath() (string, error) {
	path, err := xdg.StateFile(filepath.Join(appName, "tuixp.log"))
	if err != nil {
		return "", fmt.Errorf("resolve log path: %w", err)
	}
	return path, nil
}

// HostKeyPath returns the default SSH host key location.
func HostKeyPath() (string, error) {
	path, err := xdg.DataFile(filepath.Join(appName, "ssh_host_ed25519"))
	if err != nil {
		return "", fmt.Errorf("resolve host key path: %w", err)
	}
	return path, nil
}

// LoadUserConfig reads config.toml, writing the defaults there first if the
// file does not exist. Environment overrides are applied to the result.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(path, DefaultConfig()); err != nil {
			return nil, err
		}
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg)
	return cfg, nil
}

// Load reads the configuration at path. Settings the file leaves out keep
// their default values.
func Load(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	// Keybinding sections replace the defaults action by action, so start
	// from empty maps and merge afterwards.
	defaults := cfg.Keybindings
	cfg.Keybindings = KeybindingsConfig{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Keybindings.Windows = mergeBindings(defaults.Windows, cfg.Keybindings.Windows)
	cfg.Keybindings.Desktop = mergeBindings(defaults.Desktop, cfg.Keybindings.Desktop)
	cfg.Keybindings.System = mergeBindings(defaults.System, cfg.Keybindings.System)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func mergeBindings(defaults, user map[string][]string) map[string][]string {
	out := make(map[string][]string, len(defaults))
	for action, keys := range defaults {
		out[action] = keys
	}
	for action, keys := range user {
		out[action] = keys
	}
	return out
}

// Save writes cfg to path with an explanatory header.
func Save(path string, cfg *UserConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# tuixp configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# Window sizes are in terminal cells. Keybindings map an action to a\n")
	sb.WriteString("# list of keys; several keys may trigger the same action.\n")
	sb.WriteString("# Environment variables prefixed with TUIXP_ override these values.\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + path + "\n\n")
	sb.Write(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects values the desktop cannot work with.
func (c *UserConfig) Validate() error {
	var errs []error
	w := c.Windows
	if w.MinWidth < 12 || w.MinHeight < 5 {
		errs = append(errs, fmt.Errorf("windows: minimum size %dx%d is below 12x5", w.MinWidth, w.MinHeight))
	}
	if w.DefaultWidth < w.MinWidth || w.DefaultHeight < w.MinHeight {
		errs = append(errs, fmt.Errorf("windows: default size %dx%d is below the minimum", w.DefaultWidth, w.DefaultHeight))
	}
	if w.MarginX < 0 || w.MarginY < 0 {
		errs = append(errs, errors.New("windows: margins must not be negative"))
	}
	switch c.Desktop.ClockFormat {
	case "12h", "24h":
	default:
		errs = append(errs, fmt.Errorf("desktop: clock_format %q must be 12h or 24h", c.Desktop.ClockFormat))
	}
	if c.Desktop.DoubleClickMS <= 0 {
		errs = append(errs, errors.New("desktop: double_click_ms must be positive"))
	}
	if !(c.Sound.Volume >= 0 && c.Sound.Volume <= 1) {
		errs = append(errs, fmt.Errorf("sound: volume %v must be between 0 and 1", c.Sound.Volume))
	}
	if c.Storage.AutosaveMS < 0 {
		errs = append(errs, errors.New("storage: autosave_ms must not be negative"))
	}
	return errors.Join(errs...)
}

// AppSize returns the configured size for an application window, falling
// back to the default window size.
func (c *UserConfig) AppSize(app string) Size {
	if s, ok := c.Windows.Apps[app]; ok && s.Width > 0 && s.Height > 0 {
		return s
	}
	return Size{Width: c.Windows.DefaultWidth, Height: c.Windows.DefaultHeight}
}

// NotesPath returns the configured database path or the XDG default.
func (c *UserConfig) NotesPath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	return DataPath()
}
