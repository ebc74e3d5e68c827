package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/ulak-labs/ulak/internal/netx"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// actorID returns the authenticated user id placed by withAuth.
func actorID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// withAuth resolves the Bearer token into a user and stores the id in the
// request context. The core trusts this identity completely; no handler
// re-checks credentials.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Code: "invalid_token", Detail: "missing bearer token"})
			return
		}

		user, err := s.users.Resolve(r.Context(), token)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, user.ID)
		next(w, r.WithContext(ctx))
	}
}

// ipFilter rejects requests per the configured allow/block lists before any
// routing happens. An empty allowlist admits everyone not blocked.
func (s *Server) ipFilter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := netx.ClientIP(r)

		if _, blocked := s.ipBlocklist[ip]; blocked {
			writeJSON(w, http.StatusForbidden, errorBody{Code: "ip_blocked", Detail: "address is blocked"})
			return
		}
		if len(s.ipAllowlist) > 0 {
			if _, allowed := s.ipAllowlist[ip]; !allowed {
				writeJSON(w, http.StatusForbidden, errorBody{Code: "ip_not_allowed", Detail: "address is not allowlisted"})
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
