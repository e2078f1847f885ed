package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/AnshRaj112/crypto-dca-backend/internal/logger"
	"github.com/AnshRaj112/crypto-dca-backend/pkg/clientip"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger assigns every request an id, echoes it in X-Request-ID and
// logs one line per request once the handler returns.
func RequestLogger(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(HeaderRequestID)
			if _, err := uuid.Parse(reqID); err != nil {
				reqID = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, reqID)

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			log := logger.Log.Infow
			if status >= http.StatusInternalServerError {
				log = logger.Log.Errorw
			}
			log("request",
				"request_id", reqID,
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"remote_ip", clientip.RealClientIP(r, trustProxy),
				"status", status,
				"response_size", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
