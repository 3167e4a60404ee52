package tape

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

func TestLexerTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{"type", `Type "hello"`, []TokenType{TOKEN_TYPE, TOKEN_STRING, TOKEN_EOF}},
		{"sleep", `Sleep 500ms`, []TokenType{TOKEN_SLEEP, TOKEN_DURATION, TOKEN_EOF}},
		{"combo", `Alt+F4`, []TokenType{TOKEN_ALT, TOKEN_PLUS, TOKEN_IDENTIFIER, TOKEN_EOF}},
		{"delay and count", `Enter@200ms 3`, []TokenType{TOKEN_ENTER, TOKEN_AT, TOKEN_DURATION, TOKEN_NUMBER, TOKEN_EOF}},
		{"click", `Click 10 4`, []TokenType{TOKEN_CLICK, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_EOF}},
		{"comment", "# note\nEnter", []TokenType{TOKEN_NEWLINE, TOKEN_ENTER, TOKEN_EOF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			if len(tokens) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d", len(tokens), tokens, len(tt.want))
			}
			for i, want := range tt.want {
				if tokens[i].Type != want {
					t.Errorf("token %d: got %v, want %v", i, tokens[i].Type, want)
				}
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{`"hello world"`, "hello world"},
		{`'single'`, "single"},
		{"`back`", "back"},
		{`"say \"hi\""`, `say "hi"`},
		{`"a\nb"`, "a\nb"},
		{`"héllo"`, "héllo"},
	}
	for _, tt := range tests {
		tok := NewLexer(tt.input).NextToken()
		if tok.Type != TOKEN_STRING || tok.Literal != tt.want {
			t.Errorf("%s: got %v %q, want %q", tt.input, tok.Type, tok.Literal, tt.want)
		}
	}
}

func TestLexerLines(t *testing.T) {
	tokens := Tokenize("Enter\n\nTab")
	last := tokens[len(tokens)-2]
	if last.Type != TOKEN_TAB || last.Line != 3 || last.Column != 1 {
		t.Errorf("Tab at %d:%d", last.Line, last.Column)
	}
}

func TestParse(t *testing.T) {
	script := `# open notepad and type
Set TypingSpeed 10ms
Action launch_notepad
Type "hi"
Enter@50ms 2
Ctrl+Shift+Left
Alt+F4
Sleep 1.5
DoubleClick 3 2
Drag 10 1 20 5
`
	cmds, err := ParseFile(script)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"Set TypingSpeed 10ms",
		"Action launch_notepad",
		`Type "hi"`,
		"Enter@50ms 2",
		"Ctrl+Shift+Left",
		"Alt+F4",
		"Sleep 1.5s",
		"DoubleClick 3 2",
		"Drag 10 1 20 5",
	}
	if len(cmds) != len(want) {
		t.Fatalf("got %d commands, want %d: %v", len(cmds), len(want), cmds)
	}
	for i, c := range cmds {
		if got := c.String(); got != want[i] {
			t.Errorf("command %d = %q, want %q", i, got, want[i])
		}
	}
	if cmds[4].Args[0] != "ctrl+shift+left" {
		t.Errorf("keystroke = %q", cmds[4].Args[0])
	}
	if cmds[1].Line != 3 {
		t.Errorf("Action on line %d, want 3", cmds[1].Line)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, script string
	}{
		{"unknown command", "Jump"},
		{"type without text", "Type 3"},
		{"missing coordinate", "Click 3"},
		{"bad delay", "Enter@fast"},
		{"trailing tokens", "Enter 2 3"},
		{"unknown setting", "Set Volume 3s"},
		{"dangling modifier", "Ctrl+"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(tt.script)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want a ParseError", err)
			}
			if pe.Line != 1 {
				t.Errorf("line = %d", pe.Line)
			}
		})
	}
}

func TestParseKeepsGoodLines(t *testing.T) {
	cmds, err := ParseFile("Enter\nJump\nTab")
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v", err)
	}
	if len(cmds) != 2 {
		t.Errorf("got %d commands, want 2", len(cmds))
	}
}

func TestKeyPress(t *testing.T) {
	tests := []struct {
		keystroke string
		code      rune
		mod       tea.KeyMod
		text      string
	}{
		{"enter", tea.KeyEnter, 0, ""},
		{"space", tea.KeySpace, 0, " "},
		{"alt+f4", tea.KeyF4, tea.ModAlt, ""},
		{"alt+2", '2', tea.ModAlt, ""},
		{"x", 'x', 0, "x"},
		{"shift+x", 'x', tea.ModShift, "X"},
		{"ctrl+shift+left", tea.KeyLeft, tea.ModCtrl | tea.ModShift, ""},
	}
	for _, tt := range tests {
		k, err := KeyPress(tt.keystroke)
		if err != nil {
			t.Errorf("%s: %v", tt.keystroke, err)
			continue
		}
		if k.Code != tt.code || k.Mod != tt.mod || k.Text != tt.text {
			t.Errorf("%s: got %+v", tt.keystroke, k)
		}
	}

	for _, bad := range []string{"meta+x", "ctrl+nope"} {
		if _, err := KeyPress(bad); err == nil {
			t.Errorf("%s: no error", bad)
		}
	}
}

func TestCompile(t *testing.T) {
	steps, err := Load("Sleep 1s\nType@5ms \"ab\"\nTab 2\nDrag 1 1 4 2\nRightClick 7 7\n")
	if err != nil {
		t.Fatal(err)
	}
	// blank, a, b, tab, tab, press, motion, release, right press, right release
	if len(steps) != 10 {
		t.Fatalf("got %d steps, want 10", len(steps))
	}
	if steps[0].Msg != nil || steps[0].Pause != time.Second {
		t.Errorf("leading sleep = %+v", steps[0])
	}
	if k, ok := steps[1].Msg.(tea.KeyPressMsg); !ok || k.Text != "a" || steps[1].Pause != 5*time.Millisecond {
		t.Errorf("first typed step = %+v", steps[1])
	}
	if _, ok := steps[5].Msg.(tea.MouseClickMsg); !ok {
		t.Errorf("drag starts with %T", steps[5].Msg)
	}
	if m, ok := steps[6].Msg.(tea.MouseMotionMsg); !ok || m.X != 4 || m.Y != 2 {
		t.Errorf("drag motion = %+v", steps[6].Msg)
	}
	if m, ok := steps[8].Msg.(tea.MouseClickMsg); !ok || m.Button != tea.MouseRight {
		t.Errorf("right click = %+v", steps[8].Msg)
	}
}

func TestPlayerSendsInOrder(t *testing.T) {
	steps := []Step{
		{Msg: ActionMsg{Name: "launch_about"}},
		{Msg: tea.KeyPressMsg{Code: tea.KeyEnter}, Pause: time.Millisecond},
		{Msg: ActionMsg{Name: "quit"}},
	}
	var got []tea.Msg
	p := NewPlayer(steps)
	if err := p.Play(context.Background(), func(m tea.Msg) { got = append(got, m) }); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[2] != (ActionMsg{Name: "quit"}) {
		t.Errorf("sent %v", got)
	}
	if done, total := p.Progress(); done != 3 || total != 3 {
		t.Errorf("progress %d/%d", done, total)
	}
}

func TestPlayerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	steps := []Step{
		{Msg: ActionMsg{Name: "a"}, Pause: time.Hour},
		{Msg: ActionMsg{Name: "b"}},
	}
	var sent int
	p := NewPlayer(steps)
	err := p.Play(ctx, func(tea.Msg) {
		sent++
		cancel()
	})
	if !errors.Is(err, context.Canceled) || sent != 1 {
		t.Errorf("err = %v, sent = %d", err, sent)
	}
}

func TestRecorderRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewRecorder(func() time.Time { return now })
	step := func(d time.Duration) { now = now.Add(d) }

	for _, ch := range "hi there" {
		r.Record(tea.KeyPressMsg{Code: ch, Text: string(ch)})
		step(20 * time.Millisecond)
	}
	r.Record(tea.KeyPressMsg{Code: tea.KeyEnter})
	step(20 * time.Millisecond)
	r.Record(tea.KeyPressMsg{Code: tea.KeyEnter})
	step(time.Second)
	r.Record(tea.KeyPressMsg{Code: tea.KeyF4, Mod: tea.ModAlt})
	step(50 * time.Millisecond)

	click := tea.Mouse{X: 5, Y: 3, Button: tea.MouseLeft}
	r.Record(tea.MouseClickMsg(click))
	r.Record(tea.MouseReleaseMsg(click))
	step(100 * time.Millisecond)
	r.Record(tea.MouseClickMsg(click))
	r.Record(tea.MouseReleaseMsg(click))
	step(50 * time.Millisecond)

	r.Record(tea.MouseClickMsg(tea.Mouse{X: 10, Y: 1, Button: tea.MouseLeft}))
	r.Record(tea.MouseMotionMsg(tea.Mouse{X: 12, Y: 2, Button: tea.MouseLeft}))
	r.Record(tea.MouseReleaseMsg(tea.Mouse{X: 14, Y: 4, Button: tea.MouseLeft}))

	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	want := []string{
		`Type "hi there"`,
		"Enter 2",
		"Sleep 1s",
		"Alt+F4",
		"DoubleClick 5 3",
		"Drag 10 1 14 4",
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if !strings.HasPrefix(got[0], "# Recorded ") {
		t.Errorf("header = %q", got[0])
	}
	got = got[2:]
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("recorded:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	// The recording plays back.
	if _, err := Load(buf.String()); err != nil {
		t.Errorf("recording does not load: %v", err)
	}
}
