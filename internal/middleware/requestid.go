package middleware

import (
	"net/http"

	"github.com/pberthonneau/trello-copilot/internal/request"
)

// RequestID attaches a request id to the context and echoes it in the
// response. Inbound ids are honored so callers can correlate retries.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := request.EnsureID(r)
		w.Header().Set(request.HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(request.WithRequestID(r.Context(), id)))
	})
}
