package tape

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes .tape file input
type Lexer struct {
	input  string
	pos    int  // start of ch
	width  int  // byte width of ch
	ch     rune // current character, 0 at EOF
	line   int
	column int
}

// NewLexer creates a new Lexer for the given input
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.pos += l.width
	if l.pos >= len(l.input) {
		l.ch, l.width = 0, 0
		return
	}
	l.ch, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.column++
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// readString reads a quoted string. Backslash escapes \n, \t and the quote
// itself; anything else after a backslash is kept as is.
func (l *Lexer) readString(quote rune) string {
	var sb strings.Builder
	l.readChar()
	for l.ch != quote && l.ch != 0 && l.ch != '\n' {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 0:
				return sb.String()
			default:
				sb.WriteRune(l.ch)
			}
		} else {
			sb.WriteRune(l.ch)
		}
		l.readChar()
	}
	if l.ch == quote {
		l.readChar()
	}
	return sb.String()
}

func (l *Lexer) readWhile(ok func(rune) bool) string {
	start := l.pos
	for l.ch != 0 && ok(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// NextToken returns the next token in the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	tok := Token{Line: l.line, Column: l.column}

	switch {
	case l.ch == 0:
		tok.Type = TOKEN_EOF

	case l.ch == '\n':
		tok.Type, tok.Literal = TOKEN_NEWLINE, "\n"
		l.readChar()

	case l.ch == '#':
		l.readWhile(func(r rune) bool { return r != '\n' })
		return l.NextToken()

	case l.ch == '+':
		tok.Type, tok.Literal = TOKEN_PLUS, "+"
		l.readChar()

	case l.ch == '@':
		tok.Type, tok.Literal = TOKEN_AT, "@"
		l.readChar()

	case l.ch == '"' || l.ch == '\'' || l.ch == '`':
		tok.Type = TOKEN_STRING
		tok.Literal = l.readString(l.ch)

	case isDigit(l.ch):
		// 500ms and 1.5s are durations, 12 is a number.
		num := l.readWhile(func(r rune) bool { return isDigit(r) || r == '.' })
		if unicode.IsLetter(l.ch) {
			tok.Type = TOKEN_DURATION
			tok.Literal = num + l.readWhile(unicode.IsLetter)
		} else {
			tok.Type, tok.Literal = TOKEN_NUMBER, num
		}

	case isIdentifierChar(l.ch):
		tok.Literal = l.readWhile(isIdentifierChar)
		tok.Type = LookupKeyword(tok.Literal)

	default:
		// Punctuation is illegal on its own; the parser accepts it as the
		// key of a combo such as Ctrl+/.
		tok.Type, tok.Literal = TOKEN_ILLEGAL, string(l.ch)
		l.readChar()
	}
	return tok
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentifierChar(ch rune) bool {
	return unicode.IsLetter(ch) || isDigit(ch) || ch == '_'
}

// Tokenize returns all tokens from the input (useful for testing)
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			return tokens
		}
	}
}
