package middlewares

import (
	"net/http"
	"time"

	sessionsutil "github.com/AhmedZafar5533/marbo-go/app/utils/sessions"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SessionSyncMiddleware mirrors the cookie session's authenticated flag into
// the in-process gate before each request, so the reconciliation engine sees
// the session state without touching the request itself.
func SessionSyncMiddleware(cookies sessionsutil.SessionStore, state *sessionsutil.State) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state.SetAuthenticated(cookies.Authenticated(r))
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs each request with its duration.
func LoggingMiddleware(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("took", time.Since(start)),
			)
		})
	}
}
