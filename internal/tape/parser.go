package tape

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError is a syntax error at a line of the script.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parser parses .tape files into commands
type Parser struct {
	lexer  *Lexer
	cur    Token
	peek   Token
	errors []error
}

// NewParser creates a new parser from a lexer
func NewParser(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
}

// Parse parses the whole input. Lines with errors are skipped; the errors
// are available from Errors.
func (p *Parser) Parse() []Command {
	var commands []Command
	for p.cur.Type != TOKEN_EOF {
		if p.cur.Type == TOKEN_NEWLINE {
			p.next()
			continue
		}
		if cmd, ok := p.parseCommand(); ok {
			commands = append(commands, cmd)
		}
		p.endLine()
	}
	return commands
}

// Errors returns the syntax errors found by Parse.
func (p *Parser) Errors() []error {
	return p.errors
}

func (p *Parser) fail(format string, args ...any) (Command, bool) {
	p.errors = append(p.errors, &ParseError{Line: p.cur.Line, Msg: fmt.Sprintf(format, args...)})
	p.skipLine()
	return Command{}, false
}

func (p *Parser) skipLine() {
	for p.cur.Type != TOKEN_NEWLINE && p.cur.Type != TOKEN_EOF {
		p.next()
	}
}

// endLine reports trailing tokens after a complete command.
func (p *Parser) endLine() {
	if p.cur.Type != TOKEN_NEWLINE && p.cur.Type != TOKEN_EOF {
		p.fail("unexpected %q", p.cur.Literal)
	}
}

func (p *Parser) parseCommand() (Command, bool) {
	line := p.cur.Line
	switch tt := p.cur.Type; {
	case tt == TOKEN_TYPE:
		return p.parseType(line)
	case tt == TOKEN_SLEEP:
		return p.parseSleep(line)
	case tt == TOKEN_SET:
		return p.parseSet(line)
	case tt == TOKEN_ACTION:
		p.next()
		if p.cur.Type != TOKEN_IDENTIFIER {
			return p.fail("Action expects an action name")
		}
		cmd := Command{Type: CommandType_Action, Args: []string{p.cur.Literal}, Line: line}
		p.next()
		return cmd, true
	case tt == TOKEN_CLICK:
		return p.parsePointer(CommandType_Click, 1, line)
	case tt == TOKEN_DOUBLE_CLICK:
		return p.parsePointer(CommandType_DoubleClick, 1, line)
	case tt == TOKEN_RIGHT_CLICK:
		return p.parsePointer(CommandType_RightClick, 1, line)
	case tt == TOKEN_DRAG:
		return p.parsePointer(CommandType_Drag, 2, line)
	case tt.IsModifier():
		return p.parseKeyCombo(line)
	default:
		if key, ok := keyTokens[tt]; ok {
			p.next()
			return p.parseKeySuffix(Command{Type: CommandType_Key, Args: []string{key}, Line: line})
		}
		return p.fail("unknown command %q", p.cur.Literal)
	}
}

// parseDelay parses an optional @<duration>.
func (p *Parser) parseDelay() (time.Duration, bool) {
	if p.cur.Type != TOKEN_AT {
		return 0, true
	}
	p.next()
	if p.cur.Type != TOKEN_DURATION {
		p.fail("expected duration after @")
		return 0, false
	}
	d, err := time.ParseDuration(p.cur.Literal)
	if err != nil {
		p.fail("invalid duration %q", p.cur.Literal)
		return 0, false
	}
	p.next()
	return d, true
}

func (p *Parser) parseType(line int) (Command, bool) {
	p.next()
	delay, ok := p.parseDelay()
	if !ok {
		return Command{}, false
	}
	if p.cur.Type != TOKEN_STRING {
		return p.fail("Type expects a quoted string")
	}
	cmd := Command{Type: CommandType_Type, Args: []string{p.cur.Literal}, Delay: delay, Line: line}
	p.next()
	return cmd, true
}

// parseSleep accepts a duration or a number of seconds.
func (p *Parser) parseSleep(line int) (Command, bool) {
	p.next()
	var d time.Duration
	switch p.cur.Type {
	case TOKEN_DURATION:
		var err error
		if d, err = time.ParseDuration(p.cur.Literal); err != nil {
			return p.fail("invalid duration %q", p.cur.Literal)
		}
	case TOKEN_NUMBER:
		secs, err := strconv.ParseFloat(p.cur.Literal, 64)
		if err != nil {
			return p.fail("invalid number %q", p.cur.Literal)
		}
		d = time.Duration(secs * float64(time.Second))
	default:
		return p.fail("Sleep expects a duration")
	}
	p.next()
	return Command{Type: CommandType_Sleep, Args: []string{d.String()}, Delay: d, Line: line}, true
}

// Settings understood by Set.
const (
	SettingTypingSpeed = "TypingSpeed"
)

func (p *Parser) parseSet(line int) (Command, bool) {
	p.next()
	if p.cur.Type != TOKEN_IDENTIFIER {
		return p.fail("Set expects a setting name")
	}
	key := p.cur.Literal
	if key != SettingTypingSpeed {
		return p.fail("unknown setting %q", key)
	}
	p.next()
	if p.cur.Type != TOKEN_DURATION {
		return p.fail("%s expects a duration", key)
	}
	d, err := time.ParseDuration(p.cur.Literal)
	if err != nil {
		return p.fail("invalid duration %q", p.cur.Literal)
	}
	p.next()
	return Command{Type: CommandType_Set, Args: []string{key, d.String()}, Delay: d, Line: line}, true
}

func (p *Parser) parsePointer(t CommandType, points, line int) (Command, bool) {
	p.next()
	cmd := Command{Type: t, Line: line}
	for range points * 2 {
		if p.cur.Type != TOKEN_NUMBER {
			return p.fail("%s expects %d coordinates", t, points*2)
		}
		cmd.Args = append(cmd.Args, p.cur.Literal)
		p.next()
	}
	return cmd, true
}

// parseKeyCombo parses Ctrl+Alt+x style combinations into a keystroke.
func (p *Parser) parseKeyCombo(line int) (Command, bool) {
	var parts []string
	for p.cur.Type.IsModifier() {
		parts = append(parts, strings.ToLower(p.cur.Literal))
		p.next()
		if p.cur.Type != TOKEN_PLUS {
			return p.fail("expected + after %s", parts[len(parts)-1])
		}
		p.next()
	}

	switch {
	case p.cur.Type == TOKEN_IDENTIFIER, p.cur.Type == TOKEN_NUMBER, p.cur.Type == TOKEN_ILLEGAL:
		parts = append(parts, strings.ToLower(p.cur.Literal))
	default:
		key, ok := keyTokens[p.cur.Type]
		if !ok {
			return p.fail("expected a key after +")
		}
		parts = append(parts, key)
	}
	p.next()
	return p.parseKeySuffix(Command{Type: CommandType_Key, Args: []string{strings.Join(parts, "+")}, Line: line})
}

// parseKeySuffix parses the optional @<delay> and repeat count after a key.
func (p *Parser) parseKeySuffix(cmd Command) (Command, bool) {
	delay, ok := p.parseDelay()
	if !ok {
		return Command{}, false
	}
	cmd.Delay = delay
	cmd.Repeat = 1
	if p.cur.Type == TOKEN_NUMBER {
		n, err := strconv.Atoi(p.cur.Literal)
		if err != nil || n < 1 {
			return p.fail("invalid repeat count %q", p.cur.Literal)
		}
		cmd.Repeat = n
		p.next()
	}
	return cmd, true
}

// ParseFile parses a tape script. All syntax errors are returned joined.
func ParseFile(content string) ([]Command, error) {
	p := NewParser(NewLexer(content))
	commands := p.Parse()
	return commands, errors.Join(p.Errors()...)
}
