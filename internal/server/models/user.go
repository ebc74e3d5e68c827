package models

import "time"

// User is a registered account. The transfer core only needs the id; the
// remaining fields serve registration, login and password recovery.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string

	PasswordHash string

	SecurityQuestion   string
	SecurityAnswerHash string

	MustChangePassword bool

	FailedLoginAttempts int
	LockedUntil         *time.Time

	CreatedAt   time.Time
	LastLoginAt *time.Time
}
