package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Role identifies the account kind of a user. The set is closed: permissions
// are decided per operation, not by rank.
type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// Valid reports whether the role is one of the known kinds.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

const (
	LoginMinLength = 8
	LoginMaxLength = 20
)

var loginPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// ErrInvalidLogin indicates the login does not satisfy length or pattern constraints.
var ErrInvalidLogin = errors.New("login must be 8-20 characters, start with a letter, and contain only letters, digits, and underscores")

// ValidateLogin enforces the login constraints shared by all user kinds.
func ValidateLogin(login string) error {
	if len(login) < LoginMinLength || len(login) > LoginMaxLength {
		return fmt.Errorf("%w: got %d characters", ErrInvalidLogin, len(login))
	}
	if !loginPattern.MatchString(login) {
		return ErrInvalidLogin
	}
	return nil
}

// User mirrors the persisted representation in the users table. ID and Login
// are immutable once assigned. Version rotates on every accepted mutation and
// carries no meaning beyond equality.
type User struct {
	ID           string
	Login        string
	PasswordHash string
	Role         Role
	Active       bool
	Version      string
	CreatedAt    time.Time
}
