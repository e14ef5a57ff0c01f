package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/parallaxhq/parallax/internal/common"
	"github.com/parallaxhq/parallax/internal/server/models"
)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// corsMiddleware adds the permissive CORS headers the original backend
// shipped with and short-circuits preflight requests.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+common.AccessTokenHeaderName)
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware requires a "Bearer <token>" Authorization header, resolves
// the account, and stores it in the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AccessTokenHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "missing token")
			return
		}

		userID, err := s.users.ValidateAccessToken(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := s.users.GetByID(r.Context(), userID)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "unknown account")
			return
		}

		ctx := context.WithValue(r.Context(), currentUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the account the auth middleware resolved, or nil.
func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(currentUserKey).(*models.User)
	return user
}
