package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FailureKind classifies why a downstream stage failed.
type FailureKind string

const (
	// FailureTimeout means the stage exceeded its configured ceiling.
	FailureTimeout FailureKind = "timeout"

	// FailureConnection means the stage's dependency was unreachable.
	FailureConnection FailureKind = "connection_error"

	// FailureProtocol means the dependency answered with something the
	// pipeline could not interpret.
	FailureProtocol FailureKind = "protocol_error"

	// FailureUnexpected covers everything else, including recovered panics.
	FailureUnexpected FailureKind = "unexpected_error"
)

// StageError wraps a downstream failure with the stage it occurred in and
// its classification.
type StageError struct {
	Stage string
	Kind  FailureKind
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed (%s): %v", e.Stage, e.Kind, e.Cause)
}

func (e *StageError) Unwrap() error { return e.Cause }

// ProtocolError marks a response the pipeline could not interpret.
// Transport-level engine and gateway implementations return it so the
// orchestrator classifies the failure as protocol_error.
type ProtocolError struct {
	Detail string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s", e.Detail)
}

// panicError carries a recovered panic value across the stage boundary.
type panicError struct {
	value interface{}
}

func (e *panicError) Error() string {
	return fmt.Sprintf("recovered panic: %v", e.value)
}

// classify maps an error from a downstream call to its failure kind.
func classify(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}

	var protoErr *ProtocolError
	if errors.As(err, &protoErr) {
		return FailureProtocol
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureConnection
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return FailureConnection
	}

	return FailureUnexpected
}
