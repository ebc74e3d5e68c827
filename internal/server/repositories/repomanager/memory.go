package repomanager

import (
	"context"
	"database/sql"

	"github.com/ulak-labs/ulak/internal/dbx"
	"github.com/ulak-labs/ulak/internal/server/repositories/events"
	"github.com/ulak-labs/ulak/internal/server/repositories/transfers"
	"github.com/ulak-labs/ulak/internal/server/repositories/users"
)

// MemoryRepositoryManager vends shared in-memory repositories. The DBTX
// argument is ignored; the in-memory stores serialize internally.
type MemoryRepositoryManager struct {
	users     *users.MemoryRepository
	transfers *transfers.MemoryRepository
	events    *events.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:     users.NewMemoryRepository(),
		transfers: transfers.NewMemoryRepository(),
		events:    events.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Transfers(dbx.DBTX) transfers.Repository {
	return m.transfers
}

func (m *MemoryRepositoryManager) Events(dbx.DBTX) events.Repository {
	return m.events
}
