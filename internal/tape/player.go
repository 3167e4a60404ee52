package tape

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
)

// Playback pacing.
const (
	DefaultTypingSpeed = 50 * time.Millisecond
	keyPause           = 100 * time.Millisecond
	pointerPause       = 80 * time.Millisecond
)

// ActionMsg asks the desktop to run the key binding action Name, as if
// one of its keys had been pressed.
type ActionMsg struct {
	Name string
}

// Step is one message of a playback followed by a pause.
type Step struct {
	Msg   tea.Msg
	Pause time.Duration
	Line  int
}

var namedKeys = map[string]rune{
	"enter":     tea.KeyEnter,
	"space":     tea.KeySpace,
	"backspace": tea.KeyBackspace,
	"delete":    tea.KeyDelete,
	"tab":       tea.KeyTab,
	"esc":       tea.KeyEscape,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"f1":        tea.KeyF1,
	"f2":        tea.KeyF2,
	"f3":        tea.KeyF3,
	"f4":        tea.KeyF4,
	"f5":        tea.KeyF5,
	"f6":        tea.KeyF6,
	"f7":        tea.KeyF7,
	"f8":        tea.KeyF8,
	"f9":        tea.KeyF9,
	"f10":       tea.KeyF10,
	"f11":       tea.KeyF11,
	"f12":       tea.KeyF12,
}

// KeyPress builds the key press for a keystroke such as "alt+f4", "enter"
// or "x".
func KeyPress(keystroke string) (tea.KeyPressMsg, error) {
	var k tea.Key
	parts := strings.Split(keystroke, "+")
	name := parts[len(parts)-1]
	if name == "" && len(parts) > 1 {
		// "ctrl++"
		parts = parts[:len(parts)-1]
		name = "+"
	}
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "ctrl":
			k.Mod |= tea.ModCtrl
		case "alt":
			k.Mod |= tea.ModAlt
		case "shift":
			k.Mod |= tea.ModShift
		default:
			return tea.KeyPressMsg{}, fmt.Errorf("unknown modifier %q in %q", mod, keystroke)
		}
	}

	plain := k.Mod&(tea.ModCtrl|tea.ModAlt) == 0
	if code, ok := namedKeys[name]; ok {
		k.Code = code
		if code == tea.KeySpace && plain {
			k.Text = " "
		}
		return tea.KeyPressMsg(k), nil
	}
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || size != len(name) {
		return tea.KeyPressMsg{}, fmt.Errorf("unknown key %q", keystroke)
	}
	k.Code = r
	if plain {
		k.Text = name
		if k.Mod&tea.ModShift != 0 {
			k.Text = strings.ToUpper(name)
		}
	}
	return tea.KeyPressMsg(k), nil
}

// typed returns the key press that types r.
func typed(r rune) tea.KeyPressMsg {
	switch r {
	case '\n':
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case '\t':
		return tea.KeyPressMsg{Code: tea.KeyTab}
	}
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func pause(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

// Compile turns commands into the messages a desktop receives when they
// are played.
func Compile(cmds []Command) ([]Step, error) {
	var steps []Step
	speed := DefaultTypingSpeed
	add := func(line int, p time.Duration, msgs ...tea.Msg) {
		for _, m := range msgs {
			steps = append(steps, Step{Msg: m, Line: line})
		}
		if n := len(steps); n > 0 {
			steps[n-1].Pause += p
		}
	}

	for _, c := range cmds {
		switch c.Type {
		case CommandType_Type:
			for _, r := range strings.Join(c.Args, "") {
				add(c.Line, pause(c.Delay, speed), typed(r))
			}

		case CommandType_Sleep:
			if len(steps) == 0 {
				// A leading sleep waits before the first message.
				steps = append(steps, Step{Line: c.Line})
			}
			add(c.Line, c.Delay)

		case CommandType_Set:
			speed = c.Delay

		case CommandType_Key:
			msg, err := KeyPress(c.Args[0])
			if err != nil {
				return nil, &ParseError{Line: c.Line, Msg: err.Error()}
			}
			for range max(c.Repeat, 1) {
				add(c.Line, pause(c.Delay, keyPause), msg)
			}

		case CommandType_Action:
			add(c.Line, keyPause, ActionMsg{Name: c.Args[0]})

		case CommandType_Click, CommandType_DoubleClick, CommandType_RightClick:
			x, y, err := c.Point(0)
			if err != nil {
				return nil, &ParseError{Line: c.Line, Msg: err.Error()}
			}
			button := tea.MouseLeft
			if c.Type == CommandType_RightClick {
				button = tea.MouseRight
			}
			m := tea.Mouse{X: x, Y: y, Button: button}
			clicks := 1
			if c.Type == CommandType_DoubleClick {
				clicks = 2
			}
			for range clicks {
				add(c.Line, 0, tea.MouseClickMsg(m), tea.MouseReleaseMsg(m))
			}
			add(c.Line, pointerPause)

		case CommandType_Drag:
			x1, y1, err := c.Point(0)
			if err != nil {
				return nil, &ParseError{Line: c.Line, Msg: err.Error()}
			}
			x2, y2, err := c.Point(1)
			if err != nil {
				return nil, &ParseError{Line: c.Line, Msg: err.Error()}
			}
			from := tea.Mouse{X: x1, Y: y1, Button: tea.MouseLeft}
			to := tea.Mouse{X: x2, Y: y2, Button: tea.MouseLeft}
			add(c.Line, pointerPause, tea.MouseClickMsg(from))
			add(c.Line, pointerPause, tea.MouseMotionMsg(to))
			add(c.Line, pointerPause, tea.MouseReleaseMsg(to))

		default:
			return nil, &ParseError{Line: c.Line, Msg: fmt.Sprintf("cannot play %s", c.Type)}
		}
	}
	return steps, nil
}

// Player sends compiled steps to a running program.
type Player struct {
	steps []Step
	index int
}

// NewPlayer creates a player for steps.
func NewPlayer(steps []Step) *Player {
	return &Player{steps: steps}
}

// Progress reports how many steps have been sent.
func (p *Player) Progress() (done, total int) {
	return p.index, len(p.steps)
}

// Play sends every step to send, pausing between them, until the steps
// run out or ctx is done.
func (p *Player) Play(ctx context.Context, send func(tea.Msg)) error {
	for ; p.index < len(p.steps); p.index++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s := p.steps[p.index]
		if s.Msg != nil {
			send(s.Msg)
		}
		if s.Pause <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.Pause):
		}
	}
	return nil
}

// Load parses and compiles a script.
func Load(content string) ([]Step, error) {
	cmds, err := ParseFile(content)
	if err != nil {
		return nil, err
	}
	return Compile(cmds)
}
