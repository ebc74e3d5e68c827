// Package users persists registered accounts. The transfer core reads user
// ids only; the full record serves login, lockout and password recovery.
package users

import (
	"context"

	"github.com/ulak-labs/ulak/internal/server/models"
)

type Repository interface {
	// Create inserts a new account; a duplicate email yields
	// common.ErrEmailTaken.
	Create(ctx context.Context, user *models.User) error

	// GetByID returns the account or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail returns the account or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update rewrites the mutable account fields (credentials, lockout
	// counters, timestamps).
	Update(ctx context.Context, user *models.User) error
}
