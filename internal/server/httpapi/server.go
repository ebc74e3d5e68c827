// Package httpapi exposes the transfer service over HTTP. Handlers are thin:
// they decode the request, resolve the actor from the auth middleware, call
// a service and map the error taxonomy onto status codes.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ulak-labs/ulak/internal/logging"
	"github.com/ulak-labs/ulak/internal/server/models"
	"github.com/ulak-labs/ulak/internal/server/services"
)

// TransferService is the verb surface of the transfer core.
type TransferService interface {
	CreateSession(ctx context.Context, senderID string, in services.CreateSessionInput, clientIP string) (*models.TransferSession, error)
	ListSessions(ctx context.Context, userID string, limit, offset int) ([]*models.TransferSession, error)
	ListEvents(ctx context.Context, sessionID, actorID string) ([]*models.TransferEvent, error)
	Accept(ctx context.Context, sessionID, actorID, clientIP string) error
	Reject(ctx context.Context, sessionID, actorID, clientIP string) error
	Cancel(ctx context.Context, sessionID, actorID, clientIP string) error
	Upload(ctx context.Context, sessionID, actorID string, body io.Reader, clientIP string) error
	Download(ctx context.Context, sessionID, actorID, clientIP string) (io.ReadCloser, *models.TransferSession, error)
}

// UserService is the identity collaborator surface.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Resolve(ctx context.Context, token string) (*models.User, error)
	SecurityQuestion(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, answer string) (string, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword, newPasswordConfirm string) error
}

type Server struct {
	address   string
	apiPrefix string
	logger    logging.Logger

	users     UserService
	transfers TransferService

	ipAllowlist map[string]struct{}
	ipBlocklist map[string]struct{}

	handler http.Handler
}

func NewServer(address, apiPrefix string, logger logging.Logger, us UserService, ts TransferService, ipAllowlist, ipBlocklist []string) *Server {
	s := &Server{
		address:     address,
		apiPrefix:   apiPrefix,
		logger:      logger.With("module", "http_server"),
		users:       us,
		transfers:   ts,
		ipAllowlist: toSet(ipAllowlist),
		ipBlocklist: toSet(ipBlocklist),
	}
	s.handler = s.routes()
	return s
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// Handler returns the fully assembled handler; tests drive it directly.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	p := s.apiPrefix

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST "+p+"/auth/register", s.handleRegister)
	mux.HandleFunc("POST "+p+"/auth/login", s.handleLogin)
	mux.HandleFunc("POST "+p+"/auth/forgot-password/question", s.handleForgotQuestion)
	mux.HandleFunc("POST "+p+"/auth/forgot-password/reset", s.handleForgotReset)
	mux.HandleFunc("POST "+p+"/auth/change-password", s.withAuth(s.handleChangePassword))

	mux.HandleFunc("POST "+p+"/transfers/sessions", s.withAuth(s.handleCreateSession))
	mux.HandleFunc("GET "+p+"/transfers/sessions", s.withAuth(s.handleListSessions))
	mux.HandleFunc("POST "+p+"/transfers/sessions/{id}/accept", s.withAuth(s.handleAccept))
	mux.HandleFunc("POST "+p+"/transfers/sessions/{id}/reject", s.withAuth(s.handleReject))
	mux.HandleFunc("POST "+p+"/transfers/sessions/{id}/cancel", s.withAuth(s.handleCancel))
	mux.HandleFunc("POST "+p+"/transfers/sessions/{id}/upload", s.withAuth(s.handleUpload))
	mux.HandleFunc("GET "+p+"/transfers/sessions/{id}/download", s.withAuth(s.handleDownload))
	mux.HandleFunc("GET "+p+"/transfers/sessions/{id}/events", s.withAuth(s.handleListEvents))

	return s.ipFilter(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
