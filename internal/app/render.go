package app

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/apps"
	"github.com/Gaurav-Gosain/tuixp/internal/theme"
	"github.com/Gaurav-Gosain/tuixp/internal/wm"
	"github.com/charmbracelet/x/ansi"
)

// Layer depths above the window stack.
const (
	zDesktop      = 0
	zIcons        = 1
	zTaskbar      = 1 << 20
	zStartMenu    = zTaskbar + 10
	zContextMenu  = zTaskbar + 20
	zDialog       = zTaskbar + 30
	zOverlay      = zTaskbar + 40
	zNotification = zTaskbar + 50
)

// fitLine truncates s to width cells and pads it with spaces to exactly width.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// fill returns a width x height block of background color bg.
func fill(width, height int, bg color.Color) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	row := lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", width))
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

// GetCanvas builds the full screen.
func (m *OS) GetCanvas() *lipgloss.Canvas {
	canvas := lipgloss.NewCanvas(m.Width, m.Height)
	var layers []*lipgloss.Layer
	switch m.Screen {
	case LoginScreen:
		layers = m.loginLayers()
	case ShutDownScreen:
		layers = m.shutdownLayers()
	default:
		layers = m.desktopLayers()
	}
	layers = append(layers, m.overlayLayers()...)
	return canvas.Compose(lipgloss.NewCompositor(layers...))
}

// Render returns the screen as a string.
func (m *OS) Render() string {
	if m.Width <= 0 || m.Height <= 0 {
		return ""
	}
	return m.GetCanvas().Render()
}

// View returns the rendered view.
func (m *OS) View() tea.View {
	view := tea.NewView(m.Render())
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	view.WindowTitle = "tuixp"
	return view
}

func (m *OS) desktopLayers() []*lipgloss.Layer {
	layers := []*lipgloss.Layer{
		lipgloss.NewLayer(fill(m.Width, m.DesktopHeight(), theme.Desktop())).Z(zDesktop),
	}
	layers = append(layers, m.iconLayers()...)

	for _, w := range m.WM.Windows() {
		if !w.Visible() {
			continue
		}
		layers = append(layers, lipgloss.NewLayer(m.renderWindow(w)).
			ID(w.ID).X(w.Bounds.X).Y(w.Bounds.Y).Z(w.Z))
	}

	layers = append(layers, m.taskbarLayers()...)
	if m.Taskbar.StartMenuOpen() {
		r := m.StartMenuRect()
		layers = append(layers, lipgloss.NewLayer(m.renderStartMenu()).X(r.X).Y(r.Y).Z(zStartMenu))
	}
	if m.Menu != nil {
		layers = append(layers, lipgloss.NewLayer(m.renderContextMenu()).X(m.Menu.X).Y(m.Menu.Y).Z(zContextMenu))
	}
	if m.Dialog != NoDialog {
		r := m.DialogRect()
		layers = append(layers, lipgloss.NewLayer(m.renderDialog()).X(r.X).Y(r.Y).Z(zDialog))
	}
	return layers
}

func (m *OS) iconLayers() []*lipgloss.Layer {
	if !m.Config.Desktop.ShowIcons {
		return nil
	}
	var layers []*lipgloss.Layer
	for i, icon := range m.Icons {
		r := IconRect(i)
		if r.Y+r.H > m.DesktopHeight() {
			break
		}
		style := lipgloss.NewStyle().
			Foreground(theme.DesktopText()).
			Background(theme.Desktop()).
			Width(r.W).
			Align(lipgloss.Center)
		if i == m.SelectedIcon {
			style = style.Background(theme.MenuHighlight())
		}
		content := strings.Join([]string{
			style.Render(icon.Glyph),
			style.Render(ansi.Truncate(icon.Label, r.W, "…")),
			style.Render(""),
		}, "\n")
		layers = append(layers, lipgloss.NewLayer(content).X(r.X).Y(r.Y).Z(zIcons))
	}
	return layers
}

// renderWindow draws a window's border, title bar and body.
func (m *OS) renderWindow(w wm.Window) string {
	b := w.Bounds
	inner := b.Width - chromeWidth
	if inner <= 0 || b.Height < chromeHeight {
		return ""
	}

	borderColor := theme.TitleUnfocused()
	if w.Focused {
		borderColor = theme.TitleFocused()
	}
	border := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Background(borderColor).Foreground(theme.TitleText())
	closeStyle := lipgloss.NewStyle().Background(theme.CloseButton()).Foreground(theme.TitleText())
	bodyStyle := lipgloss.NewStyle().Background(theme.WindowBody()).Foreground(theme.WindowText())

	lines := make([]string, 0, b.Height)
	lines = append(lines, border.Render("╭"+strings.Repeat("─", inner)+"╮"))

	maxGlyph := "□"
	if w.Maximized {
		maxGlyph = "❐"
	}
	buttons := titleStyle.Render(" _ ") + titleStyle.Render(" "+maxGlyph+" ") + closeStyle.Render(" × ")
	title := titleStyle.Render(fitLine(" "+w.Icon+" "+w.Title, max(inner-3*titleButtonSize, 0)))
	lines = append(lines, border.Render("│")+title+buttons+border.Render("│"))

	bw, bh := BodySize(b)
	var body []string
	if app, ok := w.Body.(apps.Body); ok && bh > 0 {
		body = strings.Split(app.View(bw, bh), "\n")
	}
	for i := range bh {
		line := ""
		if i < len(body) {
			line = body[i]
		}
		lines = append(lines, border.Render("│")+bodyStyle.Render(fitLine(line, bw))+border.Render("│"))
	}

	lines = append(lines, border.Render("╰"+strings.Repeat("─", inner)+"╯"))
	return strings.Join(lines, "\n")
}

func (m *OS) taskbarLayers() []*lipgloss.Layer {
	y := m.Height - 1
	layers := []*lipgloss.Layer{
		lipgloss.NewLayer(fill(m.Width, 1, theme.Taskbar())).Y(y).Z(zTaskbar),
	}

	start := lipgloss.NewStyle().Bold(true).Background(theme.StartButton()).Foreground(theme.TitleText())
	if m.Taskbar.StartMenuOpen() {
		start = start.Reverse(true)
	}
	layers = append(layers, lipgloss.NewLayer(start.Render(startButtonLabel)).Y(y).Z(zTaskbar+1))

	buttons := m.Taskbar.Buttons()
	for i, r := range m.TaskButtonRects() {
		btn := buttons[i]
		style := lipgloss.NewStyle().Background(theme.TaskbarButton()).Foreground(theme.TitleText())
		switch {
		case btn.Active:
			style = style.Background(theme.TaskbarActive()).Bold(true)
		case btn.Minimized:
			style = style.Foreground(theme.TaskbarMinimized())
		}
		label := fitLine(" "+btn.Icon+" "+btn.Title, r.W)
		layers = append(layers, lipgloss.NewLayer(style.Render(label)).X(r.X).Y(y).Z(zTaskbar+1))
	}

	tray := m.TrayRect()
	trayStyle := lipgloss.NewStyle().Background(theme.Tray()).Foreground(theme.TitleText())
	layers = append(layers, lipgloss.NewLayer(trayStyle.Render(m.trayText())).X(tray.X).Y(y).Z(zTaskbar+2))
	return layers
}

// menuBox draws lines, each already inner cells wide, in a bordered box.
func menuBox(lines []string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.MenuText()).
		BorderBackground(theme.MenuBackground()).
		Background(theme.MenuBackground()).
		Render(strings.Join(lines, "\n"))
}

func (m *OS) renderStartMenu() string {
	inner := startMenuWidth - 2
	text := lipgloss.NewStyle().Background(theme.MenuBackground()).Foreground(theme.MenuText())
	highlight := lipgloss.NewStyle().Background(theme.MenuHighlight()).Foreground(theme.TitleText())
	header := lipgloss.NewStyle().Background(theme.MenuHeader()).Foreground(theme.TitleText()).Bold(true)

	user := m.Taskbar.User()
	if u, ok := m.accountPicture(user); ok {
		user = u + " " + user
	}
	lines := []string{header.Render(fitLine(" "+user, inner))}
	for i, item := range m.Taskbar.MenuItems() {
		if !item.Selectable() {
			lines = append(lines, text.Render(strings.Repeat("─", inner)))
			continue
		}
		style := text
		if i == m.Taskbar.Selected() {
			style = highlight
		}
		lines = append(lines, style.Render(fitLine(" "+item.Label, inner)))
	}
	return menuBox(lines)
}

func (m *OS) accountPicture(name string) (string, bool) {
	for _, u := range m.Login.Accounts() {
		if u.Name == name {
			return u.Picture, true
		}
	}
	return "", false
}

func (m *OS) renderContextMenu() string {
	inner := menuWidth(m.Menu) - 2
	text := lipgloss.NewStyle().Background(theme.MenuBackground()).Foreground(theme.MenuText())
	disabled := text.Foreground(theme.Muted())
	highlight := lipgloss.NewStyle().Background(theme.MenuHighlight()).Foreground(theme.TitleText())

	lines := make([]string, 0, len(m.Menu.Entries))
	for i, e := range m.Menu.Entries {
		style := text
		switch {
		case e.Action == MenuSeparator:
			lines = append(lines, text.Render(strings.Repeat("─", inner)))
			continue
		case e.Disabled:
			style = disabled
		case i == m.Menu.Selected:
			style = highlight
		}
		lines = append(lines, style.Render(fitLine(" "+e.Label, inner)))
	}
	return menuBox(lines)
}

func (m *OS) dialogText() (title, message string) {
	switch m.Dialog {
	case LogOffDialog:
		return "Log Off tuixp", "Are you sure you want to log off?"
	case ShutDownDialog:
		return "Shut Down tuixp", "Are you sure you want to shut down?"
	}
	return "", ""
}

func (m *OS) renderDialog() string {
	inner := dialogWidth - 2
	bg := theme.MenuBackground()
	base := lipgloss.NewStyle().Background(bg).Foreground(theme.MenuText())
	center := base.Width(inner).Align(lipgloss.Center)

	button := func(label string, selected bool) []string {
		c := theme.Muted()
		if selected {
			c = theme.Accent()
		}
		s := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(c).
			BorderBackground(bg).
			Background(bg).
			Foreground(c).
			Width(dialogButtonWidth).
			Align(lipgloss.Center)
		if selected {
			s = s.Bold(true)
		}
		return strings.Split(s.Render(label), "\n")
	}
	yes := button("Yes", m.DialogSelection == 0)
	no := button("No", m.DialogSelection == 1)

	title, message := m.dialogText()
	lines := []string{
		center.Render(""),
		center.Bold(true).Render(title),
		center.Render(message),
		center.Render(""),
	}
	yesRect, noRect := m.DialogButtonRects()
	r := m.DialogRect()
	left := yesRect.X - r.X - 1
	gap := noRect.X - yesRect.X - yesRect.W
	for i := range 3 {
		row := base.Render(strings.Repeat(" ", left)) + yes[i] + base.Render(strings.Repeat(" ", gap)) + no[i]
		rest := inner - left - gap - 2*dialogButtonWidth
		lines = append(lines, row+base.Render(strings.Repeat(" ", max(rest, 0))))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.TitleFocused()).
		BorderBackground(bg).
		Render(strings.Join(lines, "\n"))
}

func (m *OS) shutdownLayers() []*lipgloss.Layer {
	msg := "It's now safe to turn off your computer."
	style := lipgloss.NewStyle().Foreground(theme.ShutdownText()).Background(theme.ShutdownBackground()).Bold(true)
	x := max((m.Width-ansi.StringWidth(msg))/2, 0)
	return []*lipgloss.Layer{
		lipgloss.NewLayer(fill(m.Width, m.Height, theme.ShutdownBackground())).Z(zDesktop),
		lipgloss.NewLayer(style.Render(msg)).X(x).Y(m.Height / 2).Z(zIcons),
	}
}

// overlayLayers are the help and log viewers and the notifications, drawn
// over every screen.
func (m *OS) overlayLayers() []*lipgloss.Layer {
	var layers []*lipgloss.Layer
	center := func(content string, z int) *lipgloss.Layer {
		x := max((m.Width-lipgloss.Width(content))/2, 0)
		y := max((m.Height-lipgloss.Height(content))/2, 0)
		return lipgloss.NewLayer(content).X(x).Y(y).Z(z)
	}
	if m.ShowHelp {
		layers = append(layers, center(m.RenderHelpMenu(), zOverlay))
	}
	if m.ShowLogs {
		layers = append(layers, center(m.RenderLogViewer(), zOverlay+1))
	}

	y := 1
	for _, n := range m.Notifications {
		c := theme.Accent()
		switch n.Type {
		case "error":
			c = theme.Error()
		case "warning":
			c = theme.Warning()
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Foreground(c).
			Padding(0, 1).
			Render(ansi.Truncate(n.Message, max(m.Width/2, 10), "…"))
		x := max(m.Width-lipgloss.Width(box)-1, 0)
		layers = append(layers, lipgloss.NewLayer(box).X(x).Y(y).Z(zNotification))
		y += lipgloss.Height(box)
	}
	if l := m.showkeysLayer(); l != nil {
		layers = append(layers, l)
	}
	return layers
}

// logViewerRows is the number of log lines the viewer shows at once.
const logViewerRows = 15

// RenderLogViewer draws the most recent log messages, scrolled by
// LogScrollOffset lines from the end.
func (m *OS) RenderLogViewer() string {
	width := max(min(m.Width-4, 100), 20)
	inner := width - 4

	total := len(m.LogMessages)
	m.LogScrollOffset = max(0, min(m.LogScrollOffset, total-logViewerRows))
	end := total - m.LogScrollOffset
	start := max(end-logViewerRows, 0)

	levelStyle := map[string]lipgloss.Style{
		"INFO":  lipgloss.NewStyle().Foreground(theme.Accent()),
		"WARN":  lipgloss.NewStyle().Foreground(theme.Warning()),
		"ERROR": lipgloss.NewStyle().Foreground(theme.Error()),
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render("System Log"), ""}
	for _, msg := range m.LogMessages[start:end] {
		level := levelStyle[msg.Level].Render(fmt.Sprintf("%-5s", msg.Level))
		lines = append(lines, fitLine(msg.Time.Format("15:04:05")+" "+level+" "+msg.Message, inner))
	}
	for len(lines) < logViewerRows+2 {
		lines = append(lines, "")
	}
	footer := fmt.Sprintf("%d messages  ↑/↓ scroll  esc close", total)
	lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Muted()).Render(footer))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent()).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}
