// Package login implements the welcome screen's accounts and its small
// state machine: pick a user, type a password if the account has one, get in.
package login

import (
	"errors"
	"slices"
)

// Account names.
const (
	Administrator = "Administrator"
	Guest         = "Guest"
)

// DefaultAdminPassword is used when the configuration does not set one.
const DefaultAdminPassword = "admin99*"

var (
	// ErrIncorrectPassword is returned for a wrong administrator password.
	ErrIncorrectPassword = errors.New("the password is incorrect, please try again")
	// ErrUnknownUser is returned for an account that does not exist.
	ErrUnknownUser = errors.New("unknown user")
)

// User is an account on the welcome screen.
type User struct {
	Name     string
	Picture  string
	Password string // empty: no password required
}

// NeedsPassword reports whether logging in requires a password.
func (u User) NeedsPassword() bool {
	return u.Password != ""
}

// Accounts is the set of users offered on the welcome screen.
type Accounts struct {
	users []User
}

// NewAccounts returns the Administrator and Guest accounts. An empty
// adminPassword selects DefaultAdminPassword.
func NewAccounts(adminPassword string) *Accounts {
	if adminPassword == "" {
		adminPassword = DefaultAdminPassword
	}
	return &Accounts{users: []User{
		{Name: Administrator, Picture: "♚", Password: adminPassword},
		{Name: Guest, Picture: "☺"},
	}}
}

// Users lists the accounts in display order.
func (a *Accounts) Users() []User {
	return slices.Clone(a.users)
}

// Lookup finds an account by name.
func (a *Accounts) Lookup(name string) (User, bool) {
	i := slices.IndexFunc(a.users, func(u User) bool { return u.Name == name })
	if i < 0 {
		return User{}, false
	}
	return a.users[i], true
}

// Authenticate checks a login attempt.
func (a *Accounts) Authenticate(name, password string) error {
	u, ok := a.Lookup(name)
	if !ok {
		return ErrUnknownUser
	}
	if u.NeedsPassword() && password != u.Password {
		return ErrIncorrectPassword
	}
	return nil
}
