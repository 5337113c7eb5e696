package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Custom attribute keys use the "aegis.*" namespace.
const (
	AttrEventID     = "aegis.event_id"
	AttrApp         = "aegis.app"
	AttrEnvironment = "aegis.env"
	AttrState       = "aegis.state"

	AttrAction     = "aegis.action"
	AttrReason     = "aegis.reason"
	AttrConfidence = "aegis.confidence"
	AttrStrategy   = "aegis.strategy"

	AttrExecutionID = "aegis.execution_id"
	AttrStatus      = "aegis.status"

	AttrFailureStage = "aegis.failure.stage"
	AttrFailureKind  = "aegis.failure.kind"
)

// SetObservationAttributes tags a span with the observation being processed.
func SetObservationAttributes(span trace.Span, eventID, app, env string) {
	span.SetAttributes(
		attribute.String(AttrEventID, eventID),
		attribute.String(AttrApp, app),
		attribute.String(AttrEnvironment, env),
	)
}

// SetDecisionAttributes tags a span with the decision outcome.
func SetDecisionAttributes(span trace.Span, action, reason string, confidence float64) {
	span.SetAttributes(
		attribute.String(AttrAction, action),
		attribute.String(AttrReason, reason),
		attribute.Float64(AttrConfidence, confidence),
	)
}

// SetExecutionAttributes tags a span with the execution outcome.
func SetExecutionAttributes(span trace.Span, status, executionID string) {
	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.String(AttrExecutionID, executionID),
	)
}

// SetEventStatus tags a span with the terminal pipeline status.
func SetEventStatus(span trace.Span, status string) {
	span.SetAttributes(attribute.String(AttrStatus, status))
}

// SetFailureAttributes tags a span with a degraded stage and failure kind.
func SetFailureAttributes(span trace.Span, stage, kind string) {
	span.SetAttributes(
		attribute.String(AttrFailureStage, stage),
		attribute.String(AttrFailureKind, kind),
	)
}
