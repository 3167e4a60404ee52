// Package terminal puts the local terminal back into a usable state when
// the desktop exits without restoring it itself.
package terminal

import (
	"io"

	"github.com/charmbracelet/x/ansi"
)

// modes are the terminal modes a desktop session turns on.
var modes = []ansi.Mode{
	ansi.ModeMouseNormal,
	ansi.ModeMouseButtonEvent,
	ansi.ModeMouseAnyEvent,
	ansi.ModeMouseExtSgr,
	ansi.ModeFocusEvent,
	ansi.ModeBracketedPaste,
	ansi.ModeAltScreenSaveCursor,
}

// Reset disables mouse tracking, leaves the alternate screen and shows the
// cursor again.
func Reset(w io.Writer) error {
	_, err := io.WriteString(w, ansi.ResetMode(modes...)+ansi.ShowCursor+ansi.ResetStyle+"\r\n")
	return err
}
