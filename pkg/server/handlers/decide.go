package handlers

import (
	"net/http"

	"aegis-hq/aegis/pkg/decision"
)

// DecideHandler exposes the decision engine alone, without execution.
// Useful for dry-running an observation against the current policy.
type DecideHandler struct {
	engine decision.Engine
}

// NewDecideHandler creates the handler for POST /v1/decide.
func NewDecideHandler(engine decision.Engine) *DecideHandler {
	return &DecideHandler{engine: engine}
}

func (h *DecideHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var event eventRequest
	if err := decodeBody(r, &event); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	// In-process engines resolve every failure to a noop decision.
	decided, err := h.engine.Decide(r.Context(), event.observation())
	if err != nil {
		writeError(w, http.StatusBadGateway, "decision engine unavailable")
		return
	}
	writeJSON(w, http.StatusOK, decided)
}
