// Package common defines the sentinel errors shared by repositories,
// services and the HTTP layer. Callers match these values with errors.Is;
// wrapping with fmt.Errorf("...: %w", err) preserves the kind.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic flow control).
	ErrInternal     = errors.New("internal error")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")

	// Transfer lifecycle errors. ErrIllegalState means the actor is allowed
	// to perform the verb in general but the session's current status is not
	// a legal starting point for it.
	ErrIllegalState     = errors.New("illegal state for this action")
	ErrSizeMismatch     = errors.New("file size mismatch")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrArtifactMissing  = errors.New("artifact missing")
	ErrStorage          = errors.New("storage failure")

	// Auth errors.
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrEmailTaken         = errors.New("email already registered")
)
