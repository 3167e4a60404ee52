package app

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuixp/internal/theme"
)

// Showkeys overlay limits.
const (
	keyHistorySize = 5
	keyTimeout     = 3 * time.Second
)

// KeyEvent is one entry in the showkeys overlay. Repeated presses of the
// same key collapse into a count.
type KeyEvent struct {
	Key       string
	Modifiers []string
	Timestamp time.Time
	Count     int
}

var specialKeys = map[string]string{
	"enter":     "Enter",
	"esc":       "Esc",
	"tab":       "Tab",
	"backspace": "Backspace",
	"delete":    "Delete",
	"up":        "↑",
	"down":      "↓",
	"left":      "←",
	"right":     "→",
	"home":      "Home",
	"end":       "End",
	"pgup":      "PgUp",
	"pgdown":    "PgDn",
	"space":     "Space",
}

// CaptureKeyEvent records a key press for the showkeys overlay. Password
// keys on the welcome screen are masked.
func (m *OS) CaptureKeyEvent(msg tea.KeyPressMsg) {
	if !m.ShowKeys {
		return
	}
	key := msg.Key()

	var modifiers []string
	if key.Mod&tea.ModCtrl != 0 {
		modifiers = append(modifiers, "Ctrl")
	}
	if key.Mod&tea.ModAlt != 0 {
		modifiers = append(modifiers, "Alt")
	}
	if key.Mod&tea.ModShift != 0 {
		modifiers = append(modifiers, "Shift")
	}

	display := formatKeyDisplay(msg.Keystroke())
	if m.Screen == LoginScreen && len(modifiers) == 0 && key.Text != "" {
		display = "•"
	}

	now := m.now()
	if n := len(m.RecentKeys); n > 0 {
		last := &m.RecentKeys[n-1]
		if last.Key == display && strings.Join(last.Modifiers, "+") == strings.Join(modifiers, "+") {
			last.Count++
			last.Timestamp = now
			return
		}
	}

	m.RecentKeys = append(m.RecentKeys, KeyEvent{
		Key:       display,
		Modifiers: modifiers,
		Timestamp: now,
		Count:     1,
	})
	if len(m.RecentKeys) > keyHistorySize {
		m.RecentKeys = m.RecentKeys[len(m.RecentKeys)-keyHistorySize:]
	}
}

// formatKeyDisplay turns a keystroke such as "ctrl+left" into the key part
// of the overlay ("←").
func formatKeyDisplay(keystroke string) string {
	base := keystroke
	if i := strings.LastIndex(keystroke, "+"); i >= 0 && i < len(keystroke)-1 {
		base = keystroke[i+1:]
	}
	if special, ok := specialKeys[base]; ok {
		return special
	}
	return base
}

// CleanupExpiredKeys drops overlay entries older than the timeout.
func (m *OS) CleanupExpiredKeys() {
	now := m.now()
	kept := m.RecentKeys[:0]
	for _, k := range m.RecentKeys {
		if now.Sub(k.Timestamp) <= keyTimeout {
			kept = append(kept, k)
		}
	}
	m.RecentKeys = kept
}

func (k KeyEvent) String() string {
	s := k.Key
	if len(k.Modifiers) > 0 {
		s = strings.Join(k.Modifiers, "+") + " + " + s
	}
	if k.Count > 1 {
		s += fmt.Sprintf(" ×%d", k.Count)
	}
	return s
}

// renderShowkeys draws the recent keys as pills.
func (m *OS) renderShowkeys() string {
	if len(m.RecentKeys) == 0 {
		return ""
	}
	pill := lipgloss.NewStyle().
		Background(theme.TitleFocused()).
		Foreground(theme.TitleText()).
		Bold(true)

	keys := make([]string, 0, len(m.RecentKeys))
	for i, k := range m.RecentKeys {
		if i > 0 {
			keys = append(keys, " ")
		}
		keys = append(keys, pill.Render(" "+k.String()+" "))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, keys...)
}

// showkeysLayer places the overlay above the taskbar's right end.
func (m *OS) showkeysLayer() *lipgloss.Layer {
	content := m.renderShowkeys()
	if content == "" {
		return nil
	}
	x := max(m.Width-lipgloss.Width(content)-1, 0)
	y := max(m.Height-TaskbarHeight-2, 0)
	return lipgloss.NewLayer(content).X(x).Y(y).Z(zNotification + 1)
}
