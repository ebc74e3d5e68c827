// Package transfers is the transfer session registry: the durable record of
// each transfer's identity, parties, declared metadata and current status.
// Status mutations go through guarded updates only; there is no bare
// "set status" operation.
package transfers

import (
	"context"

	"github.com/ulak-labs/ulak/internal/server/models"
)

// List limits: callers default to DefaultListLimit, and any supplied value
// is clamped to [1, MaxListLimit].
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type Repository interface {
	// Create persists a new session in its initial status.
	Create(ctx context.Context, session *models.TransferSession) error

	// Get returns the session or common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.TransferSession, error)

	// ListFor returns sessions where userID is sender or bound receiver,
	// newest created_at first.
	ListFor(ctx context.Context, userID string, limit, offset int) ([]*models.TransferSession, error)

	// UpdateStatus moves the session from `from` to `to`, bumping updated_at.
	// When the session is no longer in `from` (a concurrent request won the
	// transition) it returns common.ErrIllegalState.
	UpdateStatus(ctx context.Context, id string, from, to models.Status) error

	// AcceptPending binds receiverID (if the slot is still open or already
	// holds the same id) and moves pending -> accepted in one guarded write.
	// A lost race or an already-decided session yields common.ErrIllegalState.
	AcceptPending(ctx context.Context, id, receiverID string) error
}

// ClampLimit forces a caller-supplied page size into [1, MaxListLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
