package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("learning.alpha", "must be in (0, 1]")
	if !strings.Contains(err.Error(), "learning.alpha") {
		t.Errorf("Error() = %q, want field named", err.Error())
	}

	bare := NewConfigError("", "file unreadable")
	if strings.Contains(bare.Error(), "in :") {
		t.Errorf("Error() = %q, empty field rendered", bare.Error())
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	cause := errors.New("listener busy")
	err := NewCommandError("run", cause)

	if !errors.Is(err, cause) {
		t.Error("Unwrap() does not reach cause")
	}
	if !strings.Contains(err.Error(), "run") {
		t.Errorf("Error() = %q, want command named", err.Error())
	}
}
