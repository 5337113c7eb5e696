package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"aegis-hq/aegis/pkg/remedy"
)

// eventMetadata carries the runtime signals of an inbound event.
type eventMetadata struct {
	State         string   `json:"state"`
	LatencyMs     *float64 `json:"latency_ms,omitempty"`
	ErrorsLastMin *int     `json:"errors_last_min,omitempty"`
}

// eventRequest is the inbound event envelope. The decide endpoint accepts
// the same envelope so callers can replay events against the engine alone.
type eventRequest struct {
	EventType string        `json:"event_type"`
	App       string        `json:"app"`
	Env       string        `json:"env"`
	Metadata  eventMetadata `json:"metadata"`
}

// observation converts the wire envelope into the typed observation. No
// validation happens here; the engine owns that.
func (e *eventRequest) observation() *remedy.RuntimeObservation {
	return &remedy.RuntimeObservation{
		AppID:       e.App,
		Environment: remedy.Environment(e.Env),
		HealthState: remedy.HealthState(e.Metadata.State),
		LatencyMs:   e.Metadata.LatencyMs,
		ErrorCount:  e.Metadata.ErrorsLastMin,
		ObservedAt:  time.Now(),
	}
}

// feedbackRequest is the human-feedback payload for the reward adapter.
type feedbackRequest struct {
	State    string `json:"state"`
	Action   string `json:"action"`
	Outcome  string `json:"outcome"`
	Feedback string `json:"feedback,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeBody parses a JSON request body. It reports malformed JSON; an empty
// body decodes into the zero value so payload-level validation stays with
// the pipeline.
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
