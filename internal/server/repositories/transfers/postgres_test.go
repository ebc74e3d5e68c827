package transfers

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ulak-labs/ulak/internal/common"
	"github.com/ulak-labs/ulak/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleSession() *models.TransferSession {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.TransferSession{
		ID:           "s-1",
		SenderID:     "u-sender",
		ReceiverID:   "u-receiver",
		FileName:     "report.pdf",
		FileSize:     1024,
		FileType:     "application/pdf",
		Checksum:     "ab12",
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func sessionRows(s *models.TransferSession) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "sender_user_id", "receiver_user_id", "receiver_addr",
		"file_name", "file_size", "file_type", "checksum_sha256",
		"status", "created_at", "updated_at",
	}).AddRow(s.ID, s.SenderID, s.ReceiverID, s.ReceiverAddr,
		s.FileName, s.FileSize, s.FileType, s.Checksum,
		s.Status.String(), s.CreatedAt, s.UpdatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := sampleSession()
	mock.ExpectExec(`(?s)INSERT\s+INTO\s+transfer_sessions`).
		WithArgs(s.ID, s.SenderID, s.ReceiverID, s.ReceiverAddr,
			s.FileName, s.FileSize, s.FileType, s.Checksum,
			s.Status, s.CreatedAt, s.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+transfer_sessions`).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), sampleSession())
	if err == nil {
		t.Fatal("want error")
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := sampleSession()
	mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+transfer_sessions\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("s-1").
		WillReturnRows(sessionRows(s))

	got, err := repo.Get(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != "s-1" || got.Status != models.StatusPending || got.FileName != "report.pdf" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+transfer_sessions\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestListFor_ClampsLimit(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	s := sampleSession()
	mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+transfer_sessions\s+WHERE\s+sender_user_id\s*=\s*\$1\s+OR\s+receiver_user_id\s*=\s*\$1`).
		WithArgs("u-sender", MaxListLimit, 0).
		WillReturnRows(sessionRows(s))

	got, err := repo.ListFor(context.Background(), "u-sender", 9999, -5)
	if err != nil {
		t.Fatalf("ListFor error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s-1" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatus_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE\s+transfer_sessions\s+SET\s+status`).
		WithArgs(models.StatusAccepted, sqlmock.AnyArg(), "s-1", models.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "s-1", models.StatusPending, models.StatusAccepted)
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
}

func TestUpdateStatus_LostRace(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE\s+transfer_sessions\s+SET\s+status`).
		WithArgs(models.StatusAccepted, sqlmock.AnyArg(), "s-1", models.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "s-1", models.StatusPending, models.StatusAccepted)
	if !errors.Is(err, common.ErrIllegalState) {
		t.Fatalf("want common.ErrIllegalState, got %v", err)
	}
}

func TestAcceptPending_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE\s+transfer_sessions\s+SET\s+receiver_user_id`).
		WithArgs("u-receiver", models.StatusAccepted, sqlmock.AnyArg(), "s-1", models.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.AcceptPending(context.Background(), "s-1", "u-receiver"); err != nil {
		t.Fatalf("AcceptPending error: %v", err)
	}
}

func TestAcceptPending_AlreadyDecided(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE\s+transfer_sessions\s+SET\s+receiver_user_id`).
		WithArgs("u-other", models.StatusAccepted, sqlmock.AnyArg(), "s-1", models.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AcceptPending(context.Background(), "s-1", "u-other")
	if !errors.Is(err, common.ErrIllegalState) {
		t.Fatalf("want common.ErrIllegalState, got %v", err)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{-10, 1}, {0, 1}, {1, 1}, {50, 50}, {200, 200}, {201, 200}, {100000, 200},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
