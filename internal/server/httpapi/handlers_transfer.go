package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/ulak-labs/ulak/internal/common"
	"github.com/ulak-labs/ulak/internal/filex"
	"github.com/ulak-labs/ulak/internal/netx"
	"github.com/ulak-labs/ulak/internal/server/models"
	"github.com/ulak-labs/ulak/internal/server/services"
)

type createSessionRequest struct {
	ReceiverUserID string `json:"receiver_user_id"`
	ReceiverAddr   string `json:"receiver_ip"`
	FileName       string `json:"file_name"`
	FileSize       int64  `json:"file_size"`
	FileType       string `json:"file_type"`
	ChecksumSHA256 string `json:"checksum_sha256"`
}

type sessionResponse struct {
	ID             string    `json:"id"`
	SenderUserID   string    `json:"sender_user_id"`
	ReceiverUserID string    `json:"receiver_user_id,omitempty"`
	ReceiverAddr   string    `json:"receiver_ip,omitempty"`
	FileName       string    `json:"file_name"`
	FileSize       int64     `json:"file_size"`
	FileType       string    `json:"file_type,omitempty"`
	ChecksumSHA256 string    `json:"checksum_sha256"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toSessionResponse(s *models.TransferSession) sessionResponse {
	return sessionResponse{
		ID:             s.ID,
		SenderUserID:   s.SenderID,
		ReceiverUserID: s.ReceiverID,
		ReceiverAddr:   s.ReceiverAddr,
		FileName:       s.FileName,
		FileSize:       s.FileSize,
		FileType:       s.FileType,
		ChecksumSHA256: s.Checksum,
		Status:         s.Status.String(),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

type eventResponse struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	Message   string    `json:"message,omitempty"`
	IP        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeInto(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	session, err := s.transfers.CreateSession(r.Context(), actorID(r), services.CreateSessionInput{
		ReceiverID:   req.ReceiverUserID,
		ReceiverAddr: req.ReceiverAddr,
		FileName:     req.FileName,
		FileSize:     req.FileSize,
		FileType:     req.FileType,
		Checksum:     req.ChecksumSHA256,
	}, netx.ClientIP(r))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	sessions, err := s.transfers.ListSessions(r.Context(), actorID(r), limit, offset)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	result := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, toSessionResponse(session))
	}
	writeJSON(w, http.StatusOK, result)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	s.handleVerb(w, r, s.transfers.Accept)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	s.handleVerb(w, r, s.transfers.Reject)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.handleVerb(w, r, s.transfers.Cancel)
}

func (s *Server) handleVerb(w http.ResponseWriter, r *http.Request, verb func(ctx context.Context, sessionID, actorID, clientIP string) error) {
	if err := verb(r.Context(), r.PathValue("id"), actorID(r), netx.ClientIP(r)); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload streams the multipart "file" part into the transfer service
// without buffering the payload.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		s.writeError(r.Context(), w, fmt.Errorf("%w: multipart body required", common.ErrValidation))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.writeError(r.Context(), w, fmt.Errorf("%w: reading multipart body: %w", common.ErrStorage, err))
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		err = s.transfers.Upload(r.Context(), r.PathValue("id"), actorID(r), part, netx.ClientIP(r))
		_ = part.Close()
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	s.writeError(r.Context(), w, fmt.Errorf("%w: missing file part", common.ErrValidation))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rc, session, err := s.transfers.Download(r.Context(), r.PathValue("id"), actorID(r), netx.ClientIP(r))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	defer func() { _ = rc.Close() }()

	contentType := session.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment",
		map[string]string{"filename": filex.SafeName(session.FileName)}))
	w.Header().Set("Content-Length", strconv.FormatInt(session.FileSize, 10))

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are sent; the client sees a truncated body.
		s.logger.Warn(r.Context(), "download stream interrupted", "session_id", session.ID, "error", err.Error())
	}
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.transfers.ListEvents(r.Context(), r.PathValue("id"), actorID(r))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	result := make([]eventResponse, 0, len(events))
	for _, e := range events {
		result = append(result, eventResponse{
			ID:        e.ID,
			Event:     e.Event,
			Message:   e.Message,
			IP:        e.IP,
			CreatedAt: e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, result)
}
