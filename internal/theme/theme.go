// Package theme provides the desktop's colors. The built-in palette is the
// classic blue desktop; any bubbletint theme id can replace it.
package theme

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

// Classic is the name of the built-in palette.
const Classic = "tuixp"

var (
	mu      sync.RWMutex
	enabled bool
	once    sync.Once
)

// Initialize selects the palette. An empty name or Classic uses the built-in
// colors; unknown tint ids fall back to the tint registry's default.
func Initialize(themeName string) error {
	mu.Lock()
	defer mu.Unlock()

	if themeName == "" || themeName == Classic {
		enabled = false
		return nil
	}

	once.Do(func() { tint.NewDefaultRegistry() })
	enabled = true
	if ok := tint.SetTintID(themeName); !ok {
		tint.SetTintID("default")
	}
	return nil
}

// IsEnabled returns true if a bubbletint theme is active.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Current returns the active tint, or nil for the built-in palette.
func Current() *tint.Tint {
	if !IsEnabled() {
		return nil
	}
	return tint.Current()
}

func pick(classic string, fromTint func(*tint.Tint) color.Color) color.Color {
	if t := Current(); t != nil {
		return fromTint(t)
	}
	return lipgloss.Color(classic)
}

// Desktop background.
func Desktop() color.Color {
	return pick("#3A6EA5", func(t *tint.Tint) color.Color { return t.Bg })
}

// DesktopText is used for icon labels.
func DesktopText() color.Color {
	return pick("#FFFFFF", func(t *tint.Tint) color.Color { return t.Fg })
}

// TitleFocused is the focused window's title bar and border.
func TitleFocused() color.Color {
	return pick("#0058EE", func(t *tint.Tint) color.Color { return t.Blue })
}

// TitleUnfocused is an inactive window's title bar and border.
func TitleUnfocused() color.Color {
	return pick("#7A96DF", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// TitleText is the title bar's text.
func TitleText() color.Color {
	return pick("#FFFFFF", func(t *tint.Tint) color.Color { return t.BrightWhite })
}

// WindowBody is the client area background.
func WindowBody() color.Color {
	return pick("#ECE9D8", func(t *tint.Tint) color.Color { return t.Black })
}

// WindowText is the client area's text.
func WindowText() color.Color {
	return pick("#000000", func(t *tint.Tint) color.Color { return t.Fg })
}

// CloseButton is the title bar's close button.
func CloseButton() color.Color {
	return pick("#E04343", func(t *tint.Tint) color.Color { return t.Red })
}

// Taskbar background.
func Taskbar() color.Color {
	return pick("#245EDC", func(t *tint.Tint) color.Color { return t.Blue })
}

// TaskbarButton is an inactive taskbar button.
func TaskbarButton() color.Color {
	return pick("#3C81F3", func(t *tint.Tint) color.Color { return t.BrightBlue })
}

// TaskbarActive is the focused window's taskbar button.
func TaskbarActive() color.Color {
	return pick("#1E52B7", func(t *tint.Tint) color.Color { return t.Purple })
}

// TaskbarMinimized is the text of a minimized window's taskbar button.
func TaskbarMinimized() color.Color {
	return pick("#B8CBF5", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// StartButton is the green start button.
func StartButton() color.Color {
	return pick("#3C9A3C", func(t *tint.Tint) color.Color { return t.Green })
}

// Tray is the clock area on the right of the taskbar.
func Tray() color.Color {
	return pick("#0F8DED", func(t *tint.Tint) color.Color { return t.Cyan })
}

// MenuBackground is used by the start menu and context menus.
func MenuBackground() color.Color {
	return pick("#FFFFFF", func(t *tint.Tint) color.Color { return t.Bg })
}

// MenuText is the text of menu entries.
func MenuText() color.Color {
	return pick("#000000", func(t *tint.Tint) color.Color { return t.Fg })
}

// MenuHighlight is the selected menu entry.
func MenuHighlight() color.Color {
	return pick("#316AC5", func(t *tint.Tint) color.Color { return t.Blue })
}

// MenuHeader is the start menu's user banner.
func MenuHeader() color.Color {
	return pick("#1C5BD6", func(t *tint.Tint) color.Color { return t.BrightBlue })
}

// Muted is secondary text such as separators and hints.
func Muted() color.Color {
	return pick("#808080", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// Error is used by error dialogs and the log overlay.
func Error() color.Color {
	return pick("#C0392B", func(t *tint.Tint) color.Color { return t.BrightRed })
}

// Warning is used by the log overlay.
func Warning() color.Color {
	return pick("#D4A017", func(t *tint.Tint) color.Color { return t.Yellow })
}

// Accent highlights selected icons and gallery cards.
func Accent() color.Color {
	return pick("#FFD700", func(t *tint.Tint) color.Color { return t.BrightYellow })
}

// LoginBackground is the welcome screen's backdrop.
func LoginBackground() color.Color {
	return pick("#5A7EDC", func(t *tint.Tint) color.Color { return t.Bg })
}

// ShutdownBackground is the "safe to turn off" screen.
func ShutdownBackground() color.Color {
	return pick("#000000", func(t *tint.Tint) color.Color { return t.Black })
}

// ShutdownText is the shutdown screen's message color.
func ShutdownText() color.Color {
	return pick("#FF8C00", func(t *tint.Tint) color.Color { return t.BrightYellow })
}
