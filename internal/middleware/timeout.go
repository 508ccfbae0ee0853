package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds a single request end to end. Analytics
// endpoints fan out several Trello reads, so this is generous.
const DefaultRequestTimeout = 30 * time.Second

// Timeout enforces a deadline on every request. The context deadline
// cancels in-flight upstream calls; http.TimeoutHandler closes the
// response side.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		timeoutHandler := http.TimeoutHandler(next, timeout, "Request Timeout")
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			timeoutHandler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
