package events

import (
	"context"
	"sync"

	"github.com/ulak-labs/ulak/internal/server/models"
)

// MemoryRepository keeps events in an append-only slice per session.
type MemoryRepository struct {
	mu     sync.Mutex
	events map[string][]*models.TransferEvent
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: make(map[string][]*models.TransferEvent)}
}

func (r *MemoryRepository) Append(_ context.Context, event *models.TransferEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *event
	r.events[event.SessionID] = append(r.events[event.SessionID], &copied)
	return nil
}

func (r *MemoryRepository) ListForSession(_ context.Context, sessionID string) ([]*models.TransferEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.events[sessionID]
	result := make([]*models.TransferEvent, 0, len(stored))
	for _, e := range stored {
		copied := *e
		result = append(result, &copied)
	}
	return result, nil
}
