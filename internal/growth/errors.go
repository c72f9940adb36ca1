package growth

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates a violated precondition; no simulation was run.
var ErrInvalidInput = errors.New("growth: invalid input")

// InputError names the offending field.
type InputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s %s, got %v", ErrInvalidInput, e.Field, e.Reason, e.Value)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
