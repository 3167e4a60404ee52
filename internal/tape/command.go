package tape

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CommandType represents the type of a tape command
type CommandType string

const (
	CommandType_Type        CommandType = "Type"
	CommandType_Sleep       CommandType = "Sleep"
	CommandType_Set         CommandType = "Set"
	CommandType_Key         CommandType = "Key"
	CommandType_Click       CommandType = "Click"
	CommandType_DoubleClick CommandType = "DoubleClick"
	CommandType_RightClick  CommandType = "RightClick"
	CommandType_Drag        CommandType = "Drag"
	CommandType_Action      CommandType = "Action"
)

// Command represents a parsed tape command
type Command struct {
	Type CommandType
	// Args holds the text for Type, the keystroke for Key ("alt+f4"), the
	// duration for Sleep, coordinates for pointer commands, the action name
	// for Action and the key and value for Set.
	Args []string
	// Delay overrides the pause after each repetition (Enter@200ms).
	Delay  time.Duration
	Repeat int
	Line   int
}

// String renders the command back in tape syntax.
func (c Command) String() string {
	var sb strings.Builder
	switch c.Type {
	case CommandType_Type:
		sb.WriteString("Type")
		if c.Delay > 0 {
			fmt.Fprintf(&sb, "@%s", c.Delay)
		}
		fmt.Fprintf(&sb, " %q", strings.Join(c.Args, ""))
		return sb.String()
	case CommandType_Key:
		if len(c.Args) > 0 {
			sb.WriteString(keystrokeToTape(c.Args[0]))
		}
	default:
		sb.WriteString(string(c.Type))
		for _, a := range c.Args {
			sb.WriteByte(' ')
			sb.WriteString(a)
		}
		return sb.String()
	}
	if c.Delay > 0 {
		fmt.Fprintf(&sb, "@%s", c.Delay)
	}
	if c.Repeat > 1 {
		fmt.Fprintf(&sb, " %d", c.Repeat)
	}
	return sb.String()
}

// Point returns the i-th coordinate pair of a pointer command.
func (c Command) Point(i int) (x, y int, err error) {
	if len(c.Args) < 2*i+2 {
		return 0, 0, fmt.Errorf("%s needs %d coordinates", c.Type, 2*i+2)
	}
	if x, err = strconv.Atoi(c.Args[2*i]); err != nil {
		return 0, 0, err
	}
	if y, err = strconv.Atoi(c.Args[2*i+1]); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

var tapeKeyNames = map[string]string{
	"enter":     "Enter",
	"space":     "Space",
	"backspace": "Backspace",
	"delete":    "Delete",
	"tab":       "Tab",
	"esc":       "Escape",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"home":      "Home",
	"end":       "End",
	"ctrl":      "Ctrl",
	"alt":       "Alt",
	"shift":     "Shift",
}

// keystrokeToTape turns a keystroke ("ctrl+shift+left") into tape syntax
// ("Ctrl+Shift+Left").
func keystrokeToTape(keystroke string) string {
	parts := strings.Split(keystroke, "+")
	for i, p := range parts {
		if name, ok := tapeKeyNames[p]; ok {
			parts[i] = name
		} else if len(p) > 1 && p[0] == 'f' {
			parts[i] = strings.ToUpper(p)
		}
	}
	return strings.Join(parts, "+")
}
