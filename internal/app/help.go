package app

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/Gaurav-Gosain/tuixp/internal/config"
	"github.com/Gaurav-Gosain/tuixp/internal/theme"
)

// HelpSections returns the help overlay's categories, built from the
// current key bindings.
func (m *OS) HelpSections() []config.KeybindingSection {
	return config.GetKeybindings(m.KeybindRegistry)
}

// MoveHelpCategory switches the help overlay's tab.
func (m *OS) MoveHelpCategory(delta int) {
	n := len(m.HelpSections())
	if n == 0 {
		return
	}
	m.HelpCategory = ((m.HelpCategory+delta)%n + n) % n
}

// RenderHelpMenu draws the help overlay: one tab per category and a table
// of the active category's bindings.
func (m *OS) RenderHelpMenu() string {
	sections := m.HelpSections()
	if len(sections) == 0 {
		return ""
	}
	m.HelpCategory = max(0, min(m.HelpCategory, len(sections)-1))

	tabs := make([]string, 0, len(sections))
	for i, s := range sections {
		style := lipgloss.NewStyle().Foreground(theme.Muted()).Padding(0, 1)
		if i == m.HelpCategory {
			style = lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.TitleText()).
				Background(theme.TitleFocused()).
				Padding(0, 1)
		}
		tabs = append(tabs, style.Render(s.Title))
	}

	rows := make([][]string, 0, len(sections[m.HelpCategory].Bindings))
	for _, b := range sections[m.HelpCategory].Bindings {
		rows = append(rows, []string{b.Key, b.Description})
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent()).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Muted())).
		Headers("Keys", "Action").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	footer := lipgloss.NewStyle().Foreground(theme.Muted()).Italic(true).
		Render("←/→ switch category · esc close")

	content := strings.Join([]string{
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		t.Render(),
		"",
		footer,
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent()).
		Padding(1, 2).
		Render(content)
}
