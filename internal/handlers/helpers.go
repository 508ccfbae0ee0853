package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pberthonneau/trello-copilot/internal/trello"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sanitizeErrorMessage removes internal details from error messages
func sanitizeErrorMessage(message string) string {
	sanitized := message
	if len(sanitized) > 200 {
		sanitized = sanitized[:200] + "..."
	}
	return sanitized
}

// respondJSONError sends an error JSON response with sanitized error messages
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizeErrorMessage(message),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondDomainError maps an error coming out of the core onto an HTTP
// status. Unknown errors are treated as upstream failures with no detail
// leaked beyond the sanitized message.
func respondDomainError(w http.ResponseWriter, err error) {
	var domainErr *trello.Error
	if !errors.As(err, &domainErr) {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}
	switch domainErr.Kind {
	case trello.KindNotFound:
		respondJSONError(w, http.StatusNotFound, "Not Found", domainErr.Message)
	case trello.KindAmbiguous:
		respondJSONError(w, http.StatusBadRequest, "Bad Request", domainErr.Message)
	case trello.KindGeneration:
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", domainErr.Message)
	case trello.KindUpstream:
		if domainErr.UpstreamStatus >= 400 {
			respondJSONError(w, http.StatusBadGateway, "Bad Gateway", domainErr.Message)
		} else {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", domainErr.Message)
		}
	default:
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", domainErr.Message)
	}
}

// decodeJSON decodes a request body, rejecting malformed payloads early.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON payload")
		return false
	}
	return true
}

// firstNonEmpty returns the first non-empty alias spelling.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
