package apps

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/theme"
)

// AboutApp shows the product name, version and credits.
type AboutApp struct {
	version string
	scroll  int
}

// NewAbout returns the about window's body.
func NewAbout(version string) *AboutApp {
	if version == "" {
		version = "dev"
	}
	return &AboutApp{version: version}
}

func (a *AboutApp) lines() []string {
	head := lipgloss.NewStyle().Bold(true).Foreground(theme.TitleFocused())
	section := lipgloss.NewStyle().Bold(true).Underline(true)
	return []string{
		head.Render("tuixp") + " version " + a.version,
		"A classic desktop for your terminal.",
		"",
		section.Render("Features"),
		"  Draggable and resizable windows",
		"  Taskbar, start menu and clock",
		"  Notepad with autosave",
		"  Runs locally, over SSH or in a browser",
		"",
		section.Render("Built with"),
		"  Bubble Tea and Lip Gloss",
		"  Wish for SSH sessions",
		"  SQLite for the notepad",
		"",
		section.Render("Keys"),
		"  F1 shows every key binding",
		"",
		"Up/Down to scroll",
	}
}

// HandleKey scrolls the text.
func (a *AboutApp) HandleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "up":
		a.scroll = max(a.scroll-1, 0)
	case "down":
		a.scroll = min(a.scroll+1, len(a.lines())-1)
	case "home":
		a.scroll = 0
	}
	return nil
}

// View implements Body.
func (a *AboutApp) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := a.lines()
	start := min(a.scroll, max(len(lines)-height, 0))
	out := make([]string, 0, height)
	for _, l := range lines[start:] {
		if len(out) == height {
			break
		}
		out = append(out, fit(" "+l, width))
	}
	return strings.Join(out, "\n")
}
