package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/Gaurav-Gosain/tuixp/internal/wm"
)

// Environment variables that override config.toml.
const (
	EnvAdminPassword = "TUIXP_ADMIN_PASSWORD"
	EnvAutoLogin     = "TUIXP_AUTO_LOGIN"
	EnvTheme         = "TUIXP_THEME"
	EnvClockFormat   = "TUIXP_CLOCK_FORMAT"
	EnvMuted         = "TUIXP_MUTED"
	EnvVolume        = "TUIXP_VOLUME"
	EnvNotesPath     = "TUIXP_NOTES_PATH"
)

// parseBoolEnv reads a boolean environment variable. The second result
// reports whether the variable held a recognizable value.
func parseBoolEnv(key string) (bool, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return false, false
	}
	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed, true
	}
	switch strings.ToLower(value) {
	case "yes", "y", "on":
		return true, true
	case "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// ApplyEnv overrides cfg with any TUIXP_* variables that are set.
// Unparseable values are ignored.
func ApplyEnv(cfg *UserConfig) {
	if v := os.Getenv(EnvAdminPassword); v != "" {
		cfg.Login.AdminPassword = v
	}
	if v := os.Getenv(EnvAutoLogin); v != "" {
		cfg.Login.AutoLogin = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Desktop.Theme = v
	}
	if v := os.Getenv(EnvClockFormat); v == "12h" || v == "24h" {
		cfg.Desktop.ClockFormat = v
	}
	if muted, ok := parseBoolEnv(EnvMuted); ok {
		cfg.Sound.Muted = muted
	}
	if v := os.Getenv(EnvVolume); v != "" {
		if vol, err := strconv.ParseFloat(v, 64); err == nil && vol >= 0 && vol <= 1 {
			cfg.Sound.Volume = vol
		}
	}
	if v := os.Getenv(EnvNotesPath); v != "" {
		cfg.Storage.Path = v
	}
}

// Overrides holds command-line flag values. Zero values leave the
// configuration untouched.
type Overrides struct {
	Theme       string
	ClockFormat string
	Muted       bool
	AutoLogin   string
	NotesPath   string
}

// ApplyOverrides applies command-line flags on top of file and environment.
func ApplyOverrides(cfg *UserConfig, o Overrides) {
	if o.Theme != "" {
		cfg.Desktop.Theme = o.Theme
	}
	if o.ClockFormat != "" {
		cfg.Desktop.ClockFormat = o.ClockFormat
	}
	if o.Muted {
		cfg.Sound.Muted = true
	}
	if o.AutoLogin != "" {
		cfg.Login.AutoLogin = o.AutoLogin
	}
	if o.NotesPath != "" {
		cfg.Storage.Path = o.NotesPath
	}
}

// Geometry converts the window settings into window manager constants.
// The z-order base is fixed.
func (c *UserConfig) Geometry() wm.Geometry {
	w := c.Windows
	return wm.Geometry{
		DefaultWidth:  w.DefaultWidth,
		DefaultHeight: w.DefaultHeight,
		MinWidth:      w.MinWidth,
		MinHeight:     w.MinHeight,
		CascadeBaseX:  w.CascadeX,
		CascadeBaseY:  w.CascadeY,
		CascadeStepX:  w.CascadeStepX,
		CascadeStepY:  w.CascadeStepY,
		MarginX:       w.MarginX,
		MarginY:       w.MarginY,
		ZBase:         wm.DefaultGeometry().ZBase,
	}
}
