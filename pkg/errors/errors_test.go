package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNetNotFound, "net %d missing", 7)

	if err.Code != ErrCodeNetNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetNotFound)
	}

	if err.Message != "net 7 missing" {
		t.Errorf("Message = %v, want %v", err.Message, "net 7 missing")
	}

	expected := "NET_NOT_FOUND: net 7 missing"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidFormat, cause, "decode netlist")

	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFormat)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeCircularDependency, "test"),
			code:     ErrCodeCircularDependency,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeCircularDependency, "test"),
			code:     ErrCodeOutOfRange,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("stage 3: %w", New(ErrCodeUnplacedGate, "inner")),
			code:     ErrCodeUnplacedGate,
			expected: true,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeInternal, New(ErrCodeOutOfRange, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeAlreadyPlaced, "x")); got != ErrCodeAlreadyPlaced {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeAlreadyPlaced)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
		{
			name:     "wrapped chain",
			err:      Wrap(ErrCodeInvalidInput, New(ErrCodeOutOfRange, "width 9 exceeds 4"), "invalid options"),
			expected: "invalid options: width 9 exceeds 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUnusedNetError(t *testing.T) {
	err := error(&UnusedNetError{Nets: []uint{4, 9}})

	if !Is(err, ErrCodeUnusedNet) {
		t.Fatalf("Is(err, ErrCodeUnusedNet) = false for %v", err)
	}
	if !strings.Contains(err.Error(), "[4 9]") {
		t.Errorf("Error() = %q, want it to list the nets", err.Error())
	}

	var une *UnusedNetError
	if !errors.As(err, &une) || len(une.Nets) != 2 {
		t.Errorf("errors.As did not recover the net list")
	}
}
