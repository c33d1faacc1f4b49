package domain

import (
	"errors"
	"strings"
	"time"
)

// User validation errors.
var (
	ErrInvalidUserID   = errors.New("user ID must be positive")
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrUsernameTooLong = errors.New("username must be at most 64 characters")
)

// User represents a registered user of the picpost service.
//
// The user directory is an external collaborator as far as the post
// pipeline is concerned: this core only ever reads users, it never
// creates or mutates them.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID <= 0 {
		return ErrInvalidUserID
	}
	name := strings.TrimSpace(u.Username)
	if name == "" {
		return ErrEmptyUsername
	}
	if len(name) > 64 {
		return ErrUsernameTooLong
	}
	return nil
}
