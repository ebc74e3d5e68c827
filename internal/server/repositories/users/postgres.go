package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ulak-labs/ulak/internal/common"
	"github.com/ulak-labs/ulak/internal/dbx"
	"github.com/ulak-labs/ulak/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash, security_question, security_answer_hash,
		must_change_password, failed_login_attempts, locked_until, created_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.SecurityQuestion, &u.SecurityAnswerHash, &u.MustChangePassword,
		&u.FailedLoginAttempts, &u.LockedUntil, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users
			(id, first_name, last_name, email, password_hash, security_question, security_answer_hash,
			 must_change_password, failed_login_attempts, locked_until, created_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.SecurityQuestion, user.SecurityAnswerHash, user.MustChangePassword,
		user.FailedLoginAttempts, user.LockedUntil, user.CreatedAt, user.LastLoginAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			password_hash = $1,
			must_change_password = $2,
			failed_login_attempts = $3,
			locked_until = $4,
			last_login_at = $5
		WHERE id = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		user.PasswordHash, user.MustChangePassword, user.FailedLoginAttempts,
		user.LockedUntil, user.LastLoginAt, user.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := dbx.RowsAffected(res)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
