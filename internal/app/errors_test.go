package app

import (
	"errors"
	"testing"

	"github.com/dshills/keymacro/internal/input/macro"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "op only",
			err:      &OperationError{Op: "record"},
			expected: "record",
		},
		{
			name:     "op and target",
			err:      &OperationError{Op: "remove", Target: "line 7"},
			expected: "remove line 7",
		},
		{
			name:     "op, target, and context",
			err:      &OperationError{Op: "save", Target: "greet", Context: "library"},
			expected: "save greet (library)",
		},
		{
			name:     "full error chain",
			err:      &OperationError{Op: "move", Target: "line 2", Context: "offset -5", Err: macro.ErrOffsetOutOfRange},
			expected: "move line 2 (offset -5): " + macro.ErrOffsetOutOfRange.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestOperationError_WithContext_Nil(t *testing.T) {
	var err *OperationError
	if err.WithContext("context") != nil {
		t.Error("expected nil result for nil receiver")
	}
	if err.Unwrap() != nil {
		t.Error("expected nil from Unwrap() on nil receiver")
	}
	if err.Is(errors.New("any")) {
		t.Error("expected Is() to return false for nil receiver")
	}
}

func TestOperationError_Is(t *testing.T) {
	err := NewOperationError("remove", "line 9", macro.ErrLineNotFound)

	if !errors.Is(err, macro.ErrLineNotFound) {
		t.Error("expected errors.Is to match wrapped sentinel")
	}
	if !errors.Is(err, err) {
		t.Error("expected errors.Is to match same instance")
	}
	if errors.Is(err, macro.ErrKindMismatch) {
		t.Error("expected errors.Is to not match different error")
	}
}

func TestErrorList(t *testing.T) {
	var list ErrorList
	if list.AsError() != nil {
		t.Fatal("empty list should be a nil error")
	}

	list.Add(nil)
	list.Add(ErrClosed)
	if list.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", list.Len())
	}
	if list.Error() != ErrClosed.Error() {
		t.Errorf("Error() = %q", list.Error())
	}

	list.Add(macro.ErrCaptureFailed)
	err := list.AsError()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrClosed) || !errors.Is(err, macro.ErrCaptureFailed) {
		t.Errorf("errors.Is should see every collected error: %v", err)
	}
	if got, want := err.Error(), "2 errors: first: "+ErrClosed.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
