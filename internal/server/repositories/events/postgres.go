package events

import (
	"context"
	"fmt"

	"github.com/ulak-labs/ulak/internal/dbx"
	"github.com/ulak-labs/ulak/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, event *models.TransferEvent) error {
	query := `
		INSERT INTO transfer_events (id, transfer_session_id, event, message, ip, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.SessionID, event.Event, event.Message, event.IP, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transfer event: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListForSession(ctx context.Context, sessionID string) ([]*models.TransferEvent, error) {
	query := `
		SELECT id, transfer_session_id, event, COALESCE(message, ''), COALESCE(ip, ''), created_at
		FROM transfer_events
		WHERE transfer_session_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list transfer events: %w", err)
	}
	defer rows.Close()

	var result []*models.TransferEvent
	for rows.Next() {
		var e models.TransferEvent
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Event, &e.Message, &e.IP, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
