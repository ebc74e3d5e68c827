// Package events is the append-only audit trail. Every state transition and
// every protocol action writes exactly one event; nothing ever updates or
// deletes one.
package events

import (
	"context"

	"github.com/ulak-labs/ulak/internal/server/models"
)

type Repository interface {
	// Append records one audit event.
	Append(ctx context.Context, event *models.TransferEvent) error

	// ListForSession returns a session's events, oldest first.
	ListForSession(ctx context.Context, sessionID string) ([]*models.TransferEvent, error)
}
