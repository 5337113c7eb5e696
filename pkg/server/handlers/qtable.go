package handlers

import (
	"net/http"

	"aegis-hq/aegis/pkg/policy/qtable"
	"aegis-hq/aegis/pkg/remedy"
)

// qtableResponse is the introspection view of the learned policy.
type qtableResponse struct {
	Algorithm   string                                       `json:"algorithm"`
	Values      map[qtable.StateID]map[remedy.Action]float64 `json:"values"`
	BestActions map[qtable.StateID]remedy.Action             `json:"best_actions"`
}

// QTableHandler exposes the current value table and the greedy policy
// derived from it.
type QTableHandler struct {
	table     *qtable.Table
	algorithm string
}

// NewQTableHandler creates the handler for GET /v1/policy/qtable.
func NewQTableHandler(table *qtable.Table, algorithm string) *QTableHandler {
	return &QTableHandler{table: table, algorithm: algorithm}
}

func (h *QTableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snapshot := h.table.Snapshot()

	best := make(map[qtable.StateID]remedy.Action, len(snapshot.Values))
	for state := range snapshot.Values {
		action, _ := h.table.BestAction(state)
		best[state] = action
	}

	writeJSON(w, http.StatusOK, qtableResponse{
		Algorithm:   h.algorithm,
		Values:      snapshot.Values,
		BestActions: best,
	})
}
