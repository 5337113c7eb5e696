package handlers

import (
	"net/http"

	"aegis-hq/aegis/pkg/policy/qtable"
	"aegis-hq/aegis/pkg/remedy"
	"aegis-hq/aegis/pkg/reward"
)

// FeedbackHandler applies human feedback on a past decision to the value
// table through the reward adapter.
type FeedbackHandler struct {
	learner *reward.Learner
}

// NewFeedbackHandler creates the handler for POST /v1/feedback. learner may
// be nil when learning is disabled; the handler then reports 503.
func NewFeedbackHandler(learner *reward.Learner) *FeedbackHandler {
	return &FeedbackHandler{learner: learner}
}

func (h *FeedbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.learner == nil {
		writeError(w, http.StatusServiceUnavailable, "learning disabled")
		return
	}

	var req feedbackRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	if req.State == "" || req.Action == "" || req.Outcome == "" {
		writeError(w, http.StatusBadRequest, "state, action, and outcome are required")
		return
	}

	action := remedy.Action(req.Action)
	if !action.Valid() {
		writeError(w, http.StatusBadRequest, "unknown action")
		return
	}

	var succeeded bool
	switch req.Outcome {
	case "success":
		succeeded = true
	case "failure":
		succeeded = false
	default:
		writeError(w, http.StatusBadRequest, "outcome must be success or failure")
		return
	}

	verdict := reward.Verdict(req.Feedback)
	if !verdict.Valid() {
		writeError(w, http.StatusBadRequest, "feedback must be accepted or rejected")
		return
	}

	update, err := h.learner.Learn(r.Context(),
		qtable.StateID(req.State), action,
		reward.Shape(succeeded, verdict), qtable.StateNoFailure)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "update not committed")
		return
	}

	writeJSON(w, http.StatusOK, update)
}
