package transfers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ulak-labs/ulak/internal/common"
	"github.com/ulak-labs/ulak/internal/server/models"
)

// MemoryRepository is a map-backed registry with the same guarded-update
// semantics as the Postgres implementation. A single mutex serializes all
// mutations, so racing transitions resolve to exactly one winner.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]*models.TransferSession
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string]*models.TransferSession)}
}

func (r *MemoryRepository) Create(_ context.Context, session *models.TransferSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.TransferSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *MemoryRepository) ListFor(_ context.Context, userID string, limit, offset int) ([]*models.TransferSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	limit = ClampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	var matched []*models.TransferSession
	for _, s := range r.sessions {
		if s.SenderID == userID || (s.ReceiverID != "" && s.ReceiverID == userID) {
			copied := *s
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, from, to models.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return common.ErrNotFound
	}
	if session.Status != from {
		return common.ErrIllegalState
	}
	session.Status = to
	session.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryRepository) AcceptPending(_ context.Context, id, receiverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return common.ErrNotFound
	}
	if session.Status != models.StatusPending {
		return common.ErrIllegalState
	}
	if session.ReceiverID != "" && session.ReceiverID != receiverID {
		return common.ErrIllegalState
	}
	session.ReceiverID = receiverID
	session.Status = models.StatusAccepted
	session.UpdatedAt = time.Now().UTC()
	return nil
}
