package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/AnshRaj112/crypto-dca-backend/internal/logger"
	"github.com/AnshRaj112/crypto-dca-backend/pkg/utils"
)

const HeaderAPIKey = "X-API-KEY"

// GatewayKey rejects requests whose X-API-KEY header does not match key.
// An empty key disables the check. Preflight requests are never checked.
func GatewayKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		expected := []byte(key)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if subtle.ConstantTimeCompare([]byte(r.Header.Get(HeaderAPIKey)), expected) != 1 {
				logger.Log.Warnw("rejected request with invalid api key", "method", r.Method, "path", r.URL.Path)
				utils.WriteError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
