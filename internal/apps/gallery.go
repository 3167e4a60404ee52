package apps

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/theme"
)

// GalleryCards are the pictures shown by My Gallery.
var GalleryCards = []string{
	"card1.jpeg", "card2.jpeg", "card3.jpeg", "card4.jpeg",
	"card5.jpeg", "card6.jpeg", "card7.jpeg", "card8.jpeg",
	"card9.jpeg", "card10.jpeg", "card11.jpeg", "card12.jpeg",
}

const (
	cardWidth  = 14
	cardHeight = 5
)

var cardPatterns = []string{"░", "▒", "▓", "╳", "◆", "●", "▲", "■", "◇", "○", "△", "□"}

// GalleryApp is a grid of picture cards with a keyboard selection.
type GalleryApp struct {
	selected int
	cols     int
	top      int
}

// NewGallery returns a gallery with the first card selected.
func NewGallery() *GalleryApp {
	return &GalleryApp{cols: 1}
}

// Selected returns the index of the selected card.
func (g *GalleryApp) Selected() int { return g.selected }

// Select moves the selection to card i. Out of range values are ignored.
func (g *GalleryApp) Select(i int) {
	if i >= 0 && i < len(GalleryCards) {
		g.selected = i
	}
}

// HandleKey moves the selection. Rows are as wide as the last rendered
// grid.
func (g *GalleryApp) HandleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "left":
		g.Select(g.selected - 1)
	case "right":
		g.Select(g.selected + 1)
	case "up":
		g.Select(g.selected - g.cols)
	case "down":
		g.Select(g.selected + g.cols)
	case "home":
		g.Select(0)
	case "end":
		g.Select(len(GalleryCards) - 1)
	}
	return nil
}

// View draws as many cards per row as fit, plus a caption for the selected
// card.
func (g *GalleryApp) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	g.cols = max(width/(cardWidth+1), 1)
	gridHeight := height - 1
	visibleRows := max(gridHeight/cardHeight, 1)

	selRow := g.selected / g.cols
	if selRow < g.top {
		g.top = selRow
	}
	if selRow >= g.top+visibleRows {
		g.top = selRow - visibleRows + 1
	}

	var rows []string
	for r := g.top; r < g.top+visibleRows; r++ {
		var cards []string
		for c := range g.cols {
			i := r*g.cols + c
			if i >= len(GalleryCards) {
				break
			}
			cards = append(cards, g.card(i), " ")
		}
		if len(cards) == 0 {
			break
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	caption := fmt.Sprintf(" %s  (%d of %d)", GalleryCards[g.selected], g.selected+1, len(GalleryCards))
	grid := strings.Join(rows, "\n")
	grid = lipgloss.NewStyle().MaxHeight(gridHeight).Render(grid)
	lines := strings.Split(grid, "\n")
	for len(lines) < gridHeight {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = fit(lines[i], width)
	}
	lines = append(lines, fit(lipgloss.NewStyle().Foreground(theme.Muted()).Render(caption), width))
	return strings.Join(lines, "\n")
}

func (g *GalleryApp) card(i int) string {
	border := theme.Muted()
	if i == g.selected {
		border = theme.Accent()
	}
	pattern := cardPatterns[i%len(cardPatterns)]
	inner := cardWidth - 2
	art := strings.Repeat(pattern, inner)
	label := lipgloss.PlaceHorizontal(inner, lipgloss.Center, fmt.Sprintf("Image %d", i+1))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cardWidth).
		Render(art + "\n" + art + "\n" + label)
}
