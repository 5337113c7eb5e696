package handlers

import (
	"context"
	"net/http"

	"aegis-hq/aegis/pkg/orchestrator"
	"aegis-hq/aegis/pkg/remedy"
)

// EventProcessor is the orchestrator surface the events handler needs.
type EventProcessor interface {
	ProcessEvent(ctx context.Context, obs *remedy.RuntimeObservation) *orchestrator.EventResult
}

// EventsHandler runs the full pipeline for one inbound event. Pipeline
// failures are data: the response is always 200 with an explicit status
// field; only malformed JSON earns a 400.
type EventsHandler struct {
	orch EventProcessor
}

// NewEventsHandler creates the handler for POST /v1/events.
func NewEventsHandler(orch EventProcessor) *EventsHandler {
	return &EventsHandler{orch: orch}
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var event eventRequest
	if err := decodeBody(r, &event); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	result := h.orch.ProcessEvent(r.Context(), event.observation())
	writeJSON(w, http.StatusOK, result)
}
