package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ulak-labs/ulak/internal/common"
)

// errorBody is the JSON shape of every error response. Code distinguishes
// the taxonomy kind so clients can tell unauthorized-actor from wrong-state
// from missing-session without parsing the detail text.
type errorBody struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto an HTTP status and a stable code.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, common.ErrValidation):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, common.ErrSizeMismatch):
		status, code = http.StatusBadRequest, "size_mismatch"
	case errors.Is(err, common.ErrChecksumMismatch):
		status, code = http.StatusBadRequest, "checksum_mismatch"
	case errors.Is(err, common.ErrArtifactMissing):
		status, code = http.StatusNotFound, "artifact_missing"
	case errors.Is(err, common.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, common.ErrUnauthorized):
		status, code = http.StatusForbidden, "unauthorized"
	case errors.Is(err, common.ErrIllegalState):
		status, code = http.StatusConflict, "illegal_state"
	case errors.Is(err, common.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		status, code = http.StatusUnauthorized, "invalid_token"
	case errors.Is(err, common.ErrAccountLocked):
		status, code = http.StatusLocked, "account_locked"
	case errors.Is(err, common.ErrEmailTaken):
		status, code = http.StatusConflict, "email_taken"
	default:
		status, code = http.StatusInternalServerError, "internal_error"
		s.logger.Error(ctx, "request failed", "error", err.Error())
	}

	writeJSON(w, status, errorBody{Code: code, Detail: err.Error()})
}
