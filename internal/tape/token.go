package tape

// TokenType represents the type of a token in a .tape file
type TokenType string

const (
	// Special tokens
	TOKEN_EOF     TokenType = "EOF"
	TOKEN_ILLEGAL TokenType = "ILLEGAL"
	TOKEN_NEWLINE TokenType = "NEWLINE"

	// Literals
	TOKEN_STRING     TokenType = "STRING"
	TOKEN_NUMBER     TokenType = "NUMBER"
	TOKEN_DURATION   TokenType = "DURATION"
	TOKEN_IDENTIFIER TokenType = "IDENTIFIER"

	// Symbols
	TOKEN_PLUS TokenType = "PLUS"
	TOKEN_AT   TokenType = "AT"

	// Typing and timing
	TOKEN_TYPE  TokenType = "Type"
	TOKEN_SLEEP TokenType = "Sleep"
	TOKEN_SET   TokenType = "Set"

	// Keys
	TOKEN_ENTER     TokenType = "Enter"
	TOKEN_SPACE     TokenType = "Space"
	TOKEN_BACKSPACE TokenType = "Backspace"
	TOKEN_DELETE    TokenType = "Delete"
	TOKEN_TAB       TokenType = "Tab"
	TOKEN_ESCAPE    TokenType = "Escape"
	TOKEN_UP        TokenType = "Up"
	TOKEN_DOWN      TokenType = "Down"
	TOKEN_LEFT      TokenType = "Left"
	TOKEN_RIGHT     TokenType = "Right"
	TOKEN_HOME      TokenType = "Home"
	TOKEN_END       TokenType = "End"

	// Modifiers
	TOKEN_CTRL  TokenType = "Ctrl"
	TOKEN_ALT   TokenType = "Alt"
	TOKEN_SHIFT TokenType = "Shift"

	// Pointer
	TOKEN_CLICK        TokenType = "Click"
	TOKEN_DOUBLE_CLICK TokenType = "DoubleClick"
	TOKEN_RIGHT_CLICK  TokenType = "RightClick"
	TOKEN_DRAG         TokenType = "Drag"

	// Key binding actions (Action launch_notepad)
	TOKEN_ACTION TokenType = "Action"
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsModifier returns true if the token is a modifier key
func (tt TokenType) IsModifier() bool {
	switch tt {
	case TOKEN_CTRL, TOKEN_ALT, TOKEN_SHIFT:
		return true
	}
	return false
}

// keyTokens are the keys that are commands of their own.
var keyTokens = map[TokenType]string{
	TOKEN_ENTER:     "enter",
	TOKEN_SPACE:     "space",
	TOKEN_BACKSPACE: "backspace",
	TOKEN_DELETE:    "delete",
	TOKEN_TAB:       "tab",
	TOKEN_ESCAPE:    "esc",
	TOKEN_UP:        "up",
	TOKEN_DOWN:      "down",
	TOKEN_LEFT:      "left",
	TOKEN_RIGHT:     "right",
	TOKEN_HOME:      "home",
	TOKEN_END:       "end",
}

// keywords maps keywords to token types
var keywords = map[string]TokenType{
	"Type":        TOKEN_TYPE,
	"Sleep":       TOKEN_SLEEP,
	"Set":         TOKEN_SET,
	"Enter":       TOKEN_ENTER,
	"Space":       TOKEN_SPACE,
	"Backspace":   TOKEN_BACKSPACE,
	"Delete":      TOKEN_DELETE,
	"Tab":         TOKEN_TAB,
	"Escape":      TOKEN_ESCAPE,
	"Up":          TOKEN_UP,
	"Down":        TOKEN_DOWN,
	"Left":        TOKEN_LEFT,
	"Right":       TOKEN_RIGHT,
	"Home":        TOKEN_HOME,
	"End":         TOKEN_END,
	"Ctrl":        TOKEN_CTRL,
	"Alt":         TOKEN_ALT,
	"Shift":       TOKEN_SHIFT,
	"Click":       TOKEN_CLICK,
	"DoubleClick": TOKEN_DOUBLE_CLICK,
	"RightClick":  TOKEN_RIGHT_CLICK,
	"Drag":        TOKEN_DRAG,
	"Action":      TOKEN_ACTION,
}

// LookupKeyword returns the token type for a keyword, or TOKEN_IDENTIFIER if not a keyword
func LookupKeyword(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return TOKEN_IDENTIFIER
}
