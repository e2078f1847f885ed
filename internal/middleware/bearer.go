package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/crypto-dca-backend/internal/logger"
	"github.com/AnshRaj112/crypto-dca-backend/pkg/utils"
)

type ctxKey string

const ctxKeyUserID ctxKey = "userId"

const (
	msgMissingHeader = "Authorization header is missing"
	msgBadFormat     = "Invalid authorization format. Expected: Bearer [token]"
	msgInvalidToken  = "Invalid authorization token"
	msgUnauthorized  = "Unauthorized"
)

// TokenVerifier resolves an access token to a user id.
type TokenVerifier interface {
	VerifyAccessToken(token string) (string, error)
}

// Bearer authenticates the request with an "Authorization: Bearer <token>"
// header and stores the token's user id in the request context.
func Bearer(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				utils.WriteError(w, http.StatusUnauthorized, msgMissingHeader)
				return
			}

			parts := strings.Fields(header)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.WriteError(w, http.StatusUnauthorized, msgBadFormat)
				return
			}

			userID, err := verifier.VerifyAccessToken(parts[1])
			if err != nil {
				logger.Log.Debugw("bearer token rejected", "path", r.URL.Path, "err", err)
				utils.WriteError(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// RequirePathUser rejects requests whose {param} URL parameter differs from
// the authenticated user id. It must run after Bearer inside a chi route.
func RequirePathUser(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok || userID != chi.URLParam(r, param) {
				utils.WriteError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

// UserIDFromContext returns the user id stored by Bearer.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ctxKeyUserID).(string)
	return userID, ok && userID != ""
}
