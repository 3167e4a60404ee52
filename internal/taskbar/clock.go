package taskbar

import (
	"fmt"
	"time"
)

// Clock formats.
const (
	Clock12h = "12h"
	Clock24h = "24h"
)

// FormatClock renders the taskbar clock. The 12h format has no leading zero
// on the hour and shows midnight and noon as 12.
func FormatClock(t time.Time, format string) string {
	if format == Clock24h {
		return t.Format("15:04")
	}
	h := t.Hour()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute(), suffix)
}
