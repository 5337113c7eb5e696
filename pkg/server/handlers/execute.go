package handlers

import (
	"net/http"

	"aegis-hq/aegis/pkg/orchestrator"
	"aegis-hq/aegis/pkg/remedy"
)

// ExecuteHandler exposes the execution gateway directly. The allowlist is
// enforced exactly as it is for orchestrated events.
type ExecuteHandler struct {
	gateway orchestrator.Executor
}

// NewExecuteHandler creates the handler for POST /v1/execute.
func NewExecuteHandler(gw orchestrator.Executor) *ExecuteHandler {
	return &ExecuteHandler{gateway: gw}
}

func (h *ExecuteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req remedy.ExecutionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	result, err := h.gateway.Execute(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadGateway, "execution gateway unavailable")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
