package handlers

import (
	"net/http"
	"time"
)

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates the handler for GET /health.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// ReadinessCheck reports whether a dependency is ready to serve.
type ReadinessCheck func() error

// ReadyHandler answers readiness probes by running the registered checks.
type ReadyHandler struct {
	checks map[string]ReadinessCheck
}

// NewReadyHandler creates the handler for GET /ready.
func NewReadyHandler(checks map[string]ReadinessCheck) *ReadyHandler {
	return &ReadyHandler{checks: checks}
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	failures := map[string]string{}
	for name, check := range h.checks {
		if err := check(); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "not_ready",
			"failures":  failures,
			"timestamp": time.Now().Unix(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
