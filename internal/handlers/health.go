package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// UpstreamPinger verifies connectivity to the Trello API.
type UpstreamPinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker handles health check requests
type HealthChecker struct {
	upstream UpstreamPinger
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(upstream UpstreamPinger) *HealthChecker {
	return &HealthChecker{upstream: upstream}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if mode == "extended" {
		checks := make(map[string]string)

		if err := h.checkUpstream(r.Context()); err != nil {
			response.Status = "unhealthy"
			checks["trello"] = "unhealthy: " + err.Error()
		} else {
			checks["trello"] = "healthy"
		}

		response.Checks = checks

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(response)
		return
	}

	// Basic mode - just return that the server is running
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// checkUpstream verifies the Trello API connection
func (h *HealthChecker) checkUpstream(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.upstream.Ping(ctx)
}
