package app

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/login"
	"github.com/Gaurav-Gosain/tuixp/internal/theme"
)

// Welcome screen layout: a centered column with the product name, a hint,
// one row per account and the password prompt below them.
const (
	loginWidth       = 40
	loginHeaderRows  = 4
	loginPromptRows  = 5
	loginAccountPad  = 2
	loginPasswordBox = 24
)

func (m *OS) loginBlockRect() Rect {
	h := loginHeaderRows + len(m.Login.Accounts()) + loginPromptRows
	return Rect{
		X: max((m.Width-loginWidth)/2, 0),
		Y: max((m.Height-h)/2, 0),
		W: loginWidth,
		H: h,
	}
}

// LoginAccountAt returns the index of the account row at (x, y).
func (m *OS) LoginAccountAt(x, y int) (int, bool) {
	r := m.loginBlockRect()
	i := y - r.Y - loginHeaderRows
	if x < r.X || x >= r.X+r.W || i < 0 || i >= len(m.Login.Accounts()) {
		return 0, false
	}
	return i, true
}

func (m *OS) loginLayers() []*lipgloss.Layer {
	bg := theme.LoginBackground()
	base := lipgloss.NewStyle().Background(bg).Foreground(theme.DesktopText())
	row := func(s lipgloss.Style, text string) string {
		return s.Render(fitLine(text, loginWidth))
	}

	lines := []string{
		row(base.Bold(true), "  tuixp"),
		row(base, ""),
		row(base.Foreground(theme.Muted()), "  To begin, click your user name"),
		row(base, ""),
	}

	step := m.Login.Step()
	for i, u := range m.Login.Accounts() {
		style := base
		if i == m.Login.Selected() {
			style = base.Background(theme.MenuHighlight()).Bold(true)
		}
		lines = append(lines, row(style, strings.Repeat(" ", loginAccountPad)+u.Picture+"  "+u.Name))
	}

	lines = append(lines, row(base, ""))
	switch step {
	case login.EnterPassword:
		input := lipgloss.NewStyle().
			Background(theme.WindowBody()).
			Foreground(theme.WindowText()).
			Render(fitLine(m.Login.Masked()+"▏", loginPasswordBox))
		lines = append(lines,
			row(base, "  Type your password"),
			base.Render("  ")+input+base.Render(strings.Repeat(" ", loginWidth-2-loginPasswordBox)),
			row(base.Foreground(theme.Muted()), "  enter log on · esc back"),
			row(base, ""),
		)
	case login.ShowError:
		msg := ""
		if err := m.Login.Err(); err != nil {
			msg = err.Error()
		}
		lines = append(lines,
			row(base.Foreground(theme.Error()).Bold(true), "  Log On failed"),
			row(base.Foreground(theme.Error()), "  "+msg),
			row(base.Foreground(theme.Muted()), "  press enter to try again"),
			row(base, ""),
		)
	default:
		lines = append(lines,
			row(base.Foreground(theme.Muted()), "  ↑/↓ choose · enter select"),
			row(base, ""), row(base, ""), row(base, ""),
		)
	}

	r := m.loginBlockRect()
	return []*lipgloss.Layer{
		lipgloss.NewLayer(fill(m.Width, m.Height, bg)).Z(zDesktop),
		lipgloss.NewLayer(strings.Join(lines, "\n")).X(r.X).Y(r.Y).Z(zIcons),
	}
}
