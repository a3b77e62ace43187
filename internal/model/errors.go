package model

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a startup-time fault: a missing model or
// vocabulary, or a vocabulary that does not match the model's output width.
// A process holding one must not serve traffic.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Op == "" {
		return "configuration: " + e.Err.Error()
	}
	return fmt.Sprintf("configuration: %s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Configf builds a ConfigurationError with a formatted cause.
func Configf(op, format string, args ...any) error {
	return &ConfigurationError{Op: op, Err: fmt.Errorf(format, args...)}
}

// InvalidInputError reports a recoverable, per-request fault in the caller's input.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return "invalid input: " + e.Reason }

// IsConfiguration reports whether err is or wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsInvalidInput reports whether err is or wraps an InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}
