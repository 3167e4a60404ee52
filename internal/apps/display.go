package apps

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/theme"
)

// Settings are the desktop preferences the Display Properties window edits.
type Settings struct {
	Theme       string
	ClockFormat string
	Muted       bool
	Volume      float64
}

// SettingsChangedMsg is sent whenever Display Properties changes a value.
// The shell applies it.
type SettingsChangedMsg struct {
	Settings Settings
}

// DisplayThemes are the themes offered by Display Properties.
var DisplayThemes = []string{theme.Classic, "dracula", "nord", "tokyonight"}

var displayFields = []string{"Theme", "Clock", "Sounds", "Volume"}

// DisplayApp edits Settings with the arrow keys.
type DisplayApp struct {
	settings Settings
	selected int
}

// NewDisplay returns a Display Properties body showing current.
func NewDisplay(current Settings) *DisplayApp {
	return &DisplayApp{settings: current}
}

// Settings returns the values as edited so far.
func (d *DisplayApp) Settings() Settings { return d.settings }

// Selected returns the highlighted field's index.
func (d *DisplayApp) Selected() int { return d.selected }

// HandleKey moves between fields with up/down and changes the selected one
// with left/right, enter or space.
func (d *DisplayApp) HandleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "up":
		d.selected = (d.selected + len(displayFields) - 1) % len(displayFields)
		return nil
	case "down", "tab":
		d.selected = (d.selected + 1) % len(displayFields)
		return nil
	case "left":
		d.change(-1)
	case "right", "enter", "space":
		d.change(1)
	default:
		return nil
	}
	s := d.settings
	return func() tea.Msg { return SettingsChangedMsg{Settings: s} }
}

func (d *DisplayApp) change(delta int) {
	s := &d.settings
	switch d.selected {
	case 0:
		i := slices.Index(DisplayThemes, s.Theme)
		if i < 0 {
			i = 0
		}
		s.Theme = DisplayThemes[(i+delta+len(DisplayThemes))%len(DisplayThemes)]
	case 1:
		if s.ClockFormat == "24h" {
			s.ClockFormat = "12h"
		} else {
			s.ClockFormat = "24h"
		}
	case 2:
		s.Muted = !s.Muted
	case 3:
		v := float64(int(s.Volume*10+0.5)+delta) / 10
		s.Volume = min(max(v, 0), 1)
	}
}

// View implements Body.
func (d *DisplayApp) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	s := d.settings
	sounds := "On"
	if s.Muted {
		sounds = "Off"
	}
	themeName := s.Theme
	if themeName == "" {
		themeName = theme.Classic
	}
	values := []string{
		themeName,
		s.ClockFormat,
		sounds,
		volumeBar(s.Volume),
	}

	selected := lipgloss.NewStyle().Foreground(theme.TitleText()).Background(theme.MenuHighlight())
	lines := []string{lipgloss.NewStyle().Bold(true).Render("Display Properties"), ""}
	for i, f := range displayFields {
		line := fmt.Sprintf(" %-8s < %s >", f, values[i])
		if i == d.selected {
			line = selected.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Muted()).Render("Up/Down select, Left/Right change"))

	if len(lines) > height {
		lines = lines[:height]
	}
	for i := range lines {
		lines[i] = fit(" "+lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func volumeBar(v float64) string {
	n := min(max(int(v*10+0.5), 0), 10)
	return strings.Repeat("█", n) + strings.Repeat("░", 10-n)
}
