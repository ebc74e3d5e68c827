// Package services holds the application services: the transfer session
// lifecycle (state machine + streaming upload/download protocol) and user
// account management. Services own the unit-of-work boundaries; every
// transfer-affecting request runs its registry mutation and its audit event
// in one transaction.
package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ulak-labs/ulak/internal/common"
	"github.com/ulak-labs/ulak/internal/dbx"
	"github.com/ulak-labs/ulak/internal/logging"
	"github.com/ulak-labs/ulak/internal/server/models"
	"github.com/ulak-labs/ulak/internal/server/repositories/repomanager"
	"github.com/ulak-labs/ulak/internal/server/storage"
)

// uploadChunkSize is the streaming buffer size; peak memory per upload is
// independent of file size.
const uploadChunkSize = 1 << 20

const checksumHexLen = 64

// TransferService drives the transfer session lifecycle. All status
// mutations go through guarded registry updates, so concurrent requests
// against the same session resolve to exactly one winner; the loser gets
// common.ErrIllegalState.
type TransferService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	store  storage.ArtifactStore
	logger logging.Logger
}

func NewTransferService(db *sql.DB, repos repomanager.RepositoryManager, store storage.ArtifactStore, logger logging.Logger) *TransferService {
	return &TransferService{
		db:     db,
		repos:  repos,
		store:  store,
		logger: logger.With("module", "transfer_service"),
	}
}

// withTx runs fn inside a transaction when a database handle is present.
// The in-memory repository manager works without one.
func (s *TransferService) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

func newEvent(sessionID, tag, message, ip string) *models.TransferEvent {
	return &models.TransferEvent{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Event:     tag,
		Message:   message,
		IP:        ip,
		CreatedAt: time.Now().UTC(),
	}
}

// CreateSessionInput is the sender-declared metadata for a new transfer.
type CreateSessionInput struct {
	ReceiverID   string
	ReceiverAddr string
	FileName     string
	FileSize     int64
	FileType     string
	Checksum     string
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}

func (in *CreateSessionInput) validate() error {
	hasID := in.ReceiverID != ""
	hasAddr := in.ReceiverAddr != ""
	if hasID == hasAddr {
		return fmt.Errorf("%w: exactly one of receiver id or receiver address is required", common.ErrValidation)
	}
	if in.FileName == "" {
		return fmt.Errorf("%w: file name is required", common.ErrValidation)
	}
	if in.FileSize < 0 {
		return fmt.Errorf("%w: file size must be non-negative", common.ErrValidation)
	}
	if len(in.Checksum) != checksumHexLen || !isHex(in.Checksum) {
		return fmt.Errorf("%w: checksum must be a 64-character hex SHA-256", common.ErrValidation)
	}
	return nil
}

// CreateSession declares a transfer on behalf of senderID. The metadata is
// recorded as declared and not verified until upload time.
func (s *TransferService) CreateSession(ctx context.Context, senderID string, in CreateSessionInput, clientIP string) (*models.TransferSession, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &models.TransferSession{
		ID:           uuid.New().String(),
		SenderID:     senderID,
		ReceiverID:   in.ReceiverID,
		ReceiverAddr: in.ReceiverAddr,
		FileName:     in.FileName,
		FileSize:     in.FileSize,
		FileType:     in.FileType,
		Checksum:     strings.ToLower(in.Checksum),
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Transfers(tx).Create(ctx, session); err != nil {
			return err
		}
		return s.repos.Events(tx).Append(ctx, newEvent(session.ID, models.EventCreated, "", clientIP))
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info(ctx, "transfer session created", "session_id", session.ID, "sender_id", senderID)
	return session, nil
}

// ListSessions returns sessions where userID is sender or bound receiver,
// newest first.
func (s *TransferService) ListSessions(ctx context.Context, userID string, limit, offset int) ([]*models.TransferSession, error) {
	return s.repos.Transfers(s.db).ListFor(ctx, userID, limit, offset)
}

// GetSession returns a session to one of its parties.
func (s *TransferService) GetSession(ctx context.Context, sessionID, actorID string) (*models.TransferSession, error) {
	session, err := s.repos.Transfers(s.db).Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsParty(actorID) {
		return nil, common.ErrUnauthorized
	}
	return session, nil
}

// ListEvents returns the audit trail of a session to one of its parties.
func (s *TransferService) ListEvents(ctx context.Context, sessionID, actorID string) ([]*models.TransferEvent, error) {
	session, err := s.repos.Transfers(s.db).Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsParty(actorID) {
		return nil, common.ErrUnauthorized
	}
	return s.repos.Events(s.db).ListForSession(ctx, sessionID)
}

// canActAsReceiver reports whether actorID may answer for the receiver slot:
// the bound receiver, or anyone while an address-bound slot is still open.
func canActAsReceiver(session *models.TransferSession, actorID string) bool {
	if session.ReceiverBound() {
		return session.ReceiverID == actorID
	}
	return true
}

// Accept moves a pending session to accepted. The first acceptor of an
// address-bound session becomes the receiver; the binding never changes
// afterwards.
func (s *TransferService) Accept(ctx context.Context, sessionID, actorID, clientIP string) error {
	session, err := s.repos.Transfers(s.db).Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !canActAsReceiver(session, actorID) {
		return common.ErrUnauthorized
	}
	if session.Status != models.StatusPending {
		return common.ErrIllegalState
	}

	err = s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Transfers(tx).AcceptPending(ctx, sessionID, actorID); err != nil {
			return err
		}
		return s.repos.Events(tx).Append(ctx, newEvent(sessionID, models.EventAccepted, "", clientIP))
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "transfer accepted", "session_id", sessionID, "receiver_id", actorID)
	return nil
}

// Reject declines a pending session. Rejecting an address-bound session does
// not bind the receiver slot.
func (s *TransferService) Reject(ctx context.Context, sessionID, actorID, clientIP string) error {
	session, err := s.repos.Transfers(s.db).Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !canActAsReceiver(session, actorID) {
		return common.ErrUnauthorized
	}
	if session.Status != models.StatusPending {
		return common.ErrIllegalState
	}

	err = s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Transfers(tx).UpdateStatus(ctx, sessionID, models.StatusPending, models.StatusRejected); err != nil {
			return err
		}
		return s.repos.Events(tx).Append(ctx, newEvent(sessionID, models.EventRejected, "", clientIP))
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "transfer rejected", "session_id", sessionID)
	return nil
}

// Cancel lets the sender withdraw a session that has not reached a terminal
// state. An in-flight upload stream is not interrupted; its completion
// transition loses the guarded update and surfaces ErrIllegalState instead.
func (s *TransferService) Cancel(ctx context.Context, sessionID, actorID, clientIP string) error {
	session, err := s.repos.Transfers(s.db).Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.SenderID != actorID {
		return common.ErrUnauthorized
	}

	switch session.Status {
	case models.StatusPending, models.StatusAccepted, models.StatusInProgress:
		// cancellable
	case models.StatusRejected, models.StatusCompleted, models.StatusCancelled, models.StatusFailed:
		return common.ErrIllegalState
	default:
		return common.ErrIllegalState
	}

	err = s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Transfers(tx).UpdateStatus(ctx, sessionID, session.Status, models.StatusCancelled); err != nil {
			return err
		}
		return s.repos.Events(tx).Append(ctx, newEvent(sessionID, models.EventCancelled, "", clientIP))
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "transfer cancelled", "session_id", sessionID)
	return nil
}

// Upload streams the payload into the content store while hashing it, then
// verifies size and checksum against the declared metadata. Only a fully
// verified payload is promoted to the artifact location; every other exit
// discards the spooled bytes.
//
// A read error before a verdict (client disconnect) aborts the spool and
// leaves the session status untouched, so the sender can retry.
func (s *TransferService) Upload(ctx context.Context, sessionID, actorID string, body io.Reader, clientIP string) error {
	session, err := s.repos.Transfers(s.db).Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.SenderID != actorID {
		return common.ErrUnauthorized
	}

	switch session.Status {
	case models.StatusRejected, models.StatusCancelled, models.StatusFailed:
		return common.ErrIllegalState
	case models.StatusPending, models.StatusAccepted, models.StatusInProgress, models.StatusCompleted:
		// uploadable; completed means the sender is replacing the artifact
	default:
		return common.ErrIllegalState
	}

	if session.Status == models.StatusAccepted {
		err = s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
			if err := s.repos.Transfers(tx).UpdateStatus(ctx, sessionID, models.StatusAccepted, models.StatusInProgress); err != nil {
				return err
			}
			return s.repos.Events(tx).Append(ctx, newEvent(sessionID, models.EventUploadStarted, "", clientIP))
		})
		if err != nil {
			return err
		}
		session.Status = models.StatusInProgress
	}

	w, err := s.store.Begin(ctx, sessionID)
	if err != nil {
		return err
	}
	// Abort is a no-op once the writer committed; this covers every early
	// return below.
	defer func() { _ = w.Abort() }()

	hasher := sha256.New()
	written, err := io.CopyBuffer(io.MultiWriter(w, hasher), body, make([]byte, uploadChunkSize))
	if err != nil {
		s.logger.Warn(ctx, "upload stream interrupted", "session_id", sessionID, "received", written, "error", err.Error())
		return fmt.Errorf("%w: upload stream: %w", common.ErrStorage, err)
	}

	if written != session.FileSize {
		msg := fmt.Sprintf("size mismatch: expected=%d got=%d", session.FileSize, written)
		if err := s.failUpload(ctx, session, msg, clientIP); err != nil {
			return err
		}
		return fmt.Errorf("%w: expected %d bytes, got %d", common.ErrSizeMismatch, session.FileSize, written)
	}

	digest := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(digest, session.Checksum) {
		if err := s.failUpload(ctx, session, "checksum mismatch", clientIP); err != nil {
			return err
		}
		return fmt.Errorf("%w: declared %s, got %s", common.ErrChecksumMismatch, session.Checksum, digest)
	}

	if err := w.Commit(ctx, session.FileName); err != nil {
		return err
	}

	err = s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Transfers(tx).UpdateStatus(ctx, sessionID, session.Status, models.StatusCompleted); err != nil {
			return err
		}
		return s.repos.Events(tx).Append(ctx, newEvent(sessionID, models.EventUploaded, "", clientIP))
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "upload completed", "session_id", sessionID, "bytes", written)
	return nil
}

// failUpload records an integrity failure: the session moves to failed and
// one upload_failed event is appended. A completed session stays completed
// (terminal states have no exits); the failed replacement attempt is only
// audited.
func (s *TransferService) failUpload(ctx context.Context, session *models.TransferSession, message, clientIP string) error {
	return s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if session.Status != models.StatusCompleted {
			err := s.repos.Transfers(tx).UpdateStatus(ctx, session.ID, session.Status, models.StatusFailed)
			if err != nil {
				return err
			}
		}
		return s.repos.Events(tx).Append(ctx, newEvent(session.ID, models.EventUploadFailed, message, clientIP))
	})
}

// Download streams a committed artifact to the bound receiver. The returned
// session carries the declared file name and type for the response headers.
// One downloaded event is appended per attempt that actually serves bytes.
func (s *TransferService) Download(ctx context.Context, sessionID, actorID, clientIP string) (io.ReadCloser, *models.TransferSession, error) {
	session, err := s.repos.Transfers(s.db).Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if !session.ReceiverBound() || session.ReceiverID != actorID {
		return nil, nil, common.ErrUnauthorized
	}

	switch session.Status {
	case models.StatusAccepted, models.StatusCompleted:
		// downloadable
	case models.StatusPending, models.StatusRejected, models.StatusInProgress, models.StatusCancelled, models.StatusFailed:
		return nil, nil, common.ErrIllegalState
	default:
		return nil, nil, common.ErrIllegalState
	}

	rc, err := s.store.Open(ctx, sessionID, session.FileName)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repos.Events(s.db).Append(ctx, newEvent(sessionID, models.EventDownloaded, "", clientIP)); err != nil {
		_ = rc.Close()
		return nil, nil, err
	}

	s.logger.Info(ctx, "artifact downloaded", "session_id", sessionID, "receiver_id", actorID)
	return rc, session, nil
}
