// Package repomanager vends repository implementations bound to a DBTX, so
// services can run several repositories inside one transaction by handing
// them the same transactional handle.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/ulak-labs/ulak/internal/dbx"
	"github.com/ulak-labs/ulak/internal/server/repositories/events"
	"github.com/ulak-labs/ulak/internal/server/repositories/transfers"
	"github.com/ulak-labs/ulak/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Transfers(db dbx.DBTX) transfers.Repository
	Events(db dbx.DBTX) events.Repository
}
