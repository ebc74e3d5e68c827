package transfers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ulak-labs/ulak/internal/common"
	"github.com/ulak-labs/ulak/internal/dbx"
	"github.com/ulak-labs/ulak/internal/server/models"
)

// PostgresRepository implements the registry over a dbx.DBTX, so the same
// code runs against *sql.DB and inside a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, sender_user_id, COALESCE(receiver_user_id::text, ''), COALESCE(receiver_addr, ''),
		file_name, file_size, COALESCE(file_type, ''), checksum_sha256, status, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (*models.TransferSession, error) {
	s := &models.TransferSession{}
	err := row.Scan(&s.ID, &s.SenderID, &s.ReceiverID, &s.ReceiverAddr,
		&s.FileName, &s.FileSize, &s.FileType, &s.Checksum, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, session *models.TransferSession) error {
	query := `
		INSERT INTO transfer_sessions
			(id, sender_user_id, receiver_user_id, receiver_addr, file_name, file_size, file_type, checksum_sha256, status, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.SenderID, session.ReceiverID, session.ReceiverAddr,
		session.FileName, session.FileSize, session.FileType, session.Checksum,
		session.Status, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert transfer session: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.TransferSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM transfer_sessions WHERE id = $1`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("select transfer session: %w", err)
	}
	return session, nil
}

func (r *PostgresRepository) ListFor(ctx context.Context, userID string, limit, offset int) ([]*models.TransferSession, error) {
	limit = ClampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + sessionColumns + `
		FROM transfer_sessions
		WHERE sender_user_id = $1 OR receiver_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfer sessions: %w", err)
	}
	defer rows.Close()

	var result []*models.TransferSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, from, to models.Status) error {
	query := `UPDATE transfer_sessions SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	res, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	n, err := dbx.RowsAffected(res)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if n == 0 {
		// The session left `from` between read and write; the caller lost
		// the transition race.
		return common.ErrIllegalState
	}
	return nil
}

func (r *PostgresRepository) AcceptPending(ctx context.Context, id, receiverID string) error {
	// The receiver_user_id guard keeps the binding monotonic: an open slot
	// is bound to the first acceptor, a bound slot only matches itself.
	query := `
		UPDATE transfer_sessions
		SET receiver_user_id = $1, status = $2, updated_at = $3
		WHERE id = $4 AND status = $5 AND (receiver_user_id IS NULL OR receiver_user_id = $1)
	`

	res, err := r.db.ExecContext(ctx, query, receiverID, models.StatusAccepted, time.Now().UTC(), id, models.StatusPending)
	if err != nil {
		return fmt.Errorf("accept transfer: %w", err)
	}
	n, err := dbx.RowsAffected(res)
	if err != nil {
		return fmt.Errorf("accept transfer: %w", err)
	}
	if n == 0 {
		return common.ErrIllegalState
	}
	return nil
}
