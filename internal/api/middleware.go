package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/traitforge/disc-engine/internal/auth"
	"github.com/traitforge/disc-engine/internal/storage"
)

// AuthMiddleware resolves bearer access tokens to user records.
type AuthMiddleware struct {
	authService *auth.Service
	repo        storage.Repository
}

// NewAuthMiddleware creates new auth middleware
func NewAuthMiddleware(authService *auth.Service, repo storage.Repository) *AuthMiddleware {
	return &AuthMiddleware{authService: authService, repo: repo}
}

// Authenticate verifies the bearer token from the Authorization header. A
// stale or unknown token gets 401, which is the client's cue to run its
// refresh protocol.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			writeAuthError(w, http.StatusUnauthorized, "missing token", "provide Authorization header with Bearer token")
			return
		}

		userID, err := m.authService.Validate(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				slog.Debug("expired or unknown access token", "key_prefix", maskToken(token))
				writeAuthError(w, http.StatusUnauthorized, "invalid token", "the access token is expired or unknown")
				return
			}
			slog.Error("failed to validate access token", "error", err)
			writeAuthError(w, http.StatusInternalServerError, "authentication error", "internal server error")
			return
		}

		user, err := m.repo.GetUserByID(r.Context(), userID)
		if err != nil {
			slog.Error("failed to load user for token", "error", err, "user_id", userID)
			writeAuthError(w, http.StatusInternalServerError, "authentication error", "internal server error")
			return
		}
		if user == nil {
			slog.Warn("token resolved to missing user", "user_id", userID)
			writeAuthError(w, http.StatusUnauthorized, "invalid token", "the access token no longer maps to a user")
			return
		}

		ctx := ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearerToken extracts the token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// maskToken returns first 8 chars of a token for safe logging
func maskToken(token string) string {
	if len(token) < 8 {
		return "***"
	}
	return token[:8] + "..."
}

// writeAuthError writes a JSON error response in the standard envelope
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	respondError(w, status, code, message)
}
