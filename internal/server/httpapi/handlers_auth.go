package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ulak-labs/ulak/internal/common"
	"github.com/ulak-labs/ulak/internal/server/services"
)

type registerRequest struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	PasswordConfirm  string `json:"password_confirm"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken        string    `json:"access_token"`
	ExpiresAt          time.Time `json:"expires_at"`
	MustChangePassword bool      `json:"must_change_password"`
}

func decodeInto(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrValidation
	}
	return nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeInto(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	user, err := s.users.Register(r.Context(), services.RegisterInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Password:         req.Password,
		PasswordConfirm:  req.PasswordConfirm,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": user.ID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeInto(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	result, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:        result.AccessToken,
		ExpiresAt:          result.ExpiresAt,
		MustChangePassword: result.MustChangePassword,
	})
}

func (s *Server) handleForgotQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeInto(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	question, err := s.users.SecurityQuestion(r.Context(), req.Email)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"security_question": question})
}

func (s *Server) handleForgotReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email          string `json:"email"`
		SecurityAnswer string `json:"security_answer"`
	}
	if err := decodeInto(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	newPassword, err := s.users.ResetPassword(r.Context(), req.Email, req.SecurityAnswer)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"new_password": newPassword})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword        string `json:"old_password"`
		NewPassword        string `json:"new_password"`
		NewPasswordConfirm string `json:"new_password_confirm"`
	}
	if err := decodeInto(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	err := s.users.ChangePassword(r.Context(), actorID(r), req.OldPassword, req.NewPassword, req.NewPasswordConfirm)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
