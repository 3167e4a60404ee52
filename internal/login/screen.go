package login

// Step is where the welcome screen currently is.
type Step int

const (
	// ChooseUser shows the account list.
	ChooseUser Step = iota
	// EnterPassword shows the password prompt for the selected account.
	EnterPassword
	// ShowError shows a blocking error message over the prompt.
	ShowError
	// LoggedIn means authentication succeeded.
	LoggedIn
)

// Screen is the welcome screen state machine.
type Screen struct {
	accounts *Accounts
	step     Step
	selected int
	input    []rune
	user     string
	err      error
}

// NewScreen starts at the account list.
func NewScreen(accounts *Accounts) *Screen {
	return &Screen{accounts: accounts}
}

// Step returns the current step.
func (s *Screen) Step() Step { return s.step }

// Selected returns the highlighted account's index.
func (s *Screen) Selected() int { return s.selected }

// Err returns the error being shown.
func (s *Screen) Err() error { return s.err }

// User returns the logged-in account once the screen reaches LoggedIn, or
// the account whose password is being asked for.
func (s *Screen) User() string { return s.user }

// Masked returns the password input as bullets.
func (s *Screen) Masked() string {
	out := make([]rune, len(s.input))
	for i := range out {
		out[i] = '•'
	}
	return string(out)
}

// Accounts returns the accounts offered.
func (s *Screen) Accounts() []User { return s.accounts.Users() }

// Move changes the highlighted account on the list.
func (s *Screen) Move(delta int) {
	if s.step != ChooseUser {
		return
	}
	n := len(s.accounts.users)
	if n == 0 {
		return
	}
	s.selected = ((s.selected+delta)%n + n) % n
}

// Choose picks the account at index i. Accounts without a password log in
// straight away; the administrator goes to the password prompt.
func (s *Screen) Choose(i int) {
	if s.step != ChooseUser || i < 0 || i >= len(s.accounts.users) {
		return
	}
	s.selected = i
	u := s.accounts.users[i]
	s.user = u.Name
	s.input = s.input[:0]
	if !u.NeedsPassword() {
		s.step = LoggedIn
		return
	}
	s.step = EnterPassword
}

// Type appends text to the password input.
func (s *Screen) Type(text string) {
	if s.step != EnterPassword {
		return
	}
	s.input = append(s.input, []rune(text)...)
}

// Backspace removes the last password character.
func (s *Screen) Backspace() {
	if s.step != EnterPassword || len(s.input) == 0 {
		return
	}
	s.input = s.input[:len(s.input)-1]
}

// Submit checks the typed password. On failure the input is cleared and the
// error is shown until Dismiss.
func (s *Screen) Submit() error {
	if s.step != EnterPassword {
		return nil
	}
	err := s.accounts.Authenticate(s.user, string(s.input))
	s.input = s.input[:0]
	if err != nil {
		s.err = err
		s.step = ShowError
		return err
	}
	s.step = LoggedIn
	return nil
}

// Dismiss closes the error message and puts focus back on the password input.
func (s *Screen) Dismiss() {
	if s.step != ShowError {
		return
	}
	s.err = nil
	s.step = EnterPassword
}

// Back returns from the password prompt to the account list.
func (s *Screen) Back() {
	if s.step != EnterPassword && s.step != ShowError {
		return
	}
	s.err = nil
	s.input = s.input[:0]
	s.user = ""
	s.step = ChooseUser
}

// Reset returns to the account list, as after logging off.
func (s *Screen) Reset() {
	s.step = ChooseUser
	s.err = nil
	s.input = s.input[:0]
	s.user = ""
	s.selected = 0
}
