package model

import (
	"errors"
	"fmt"
)

// ValidationError is a caller-side problem detected before anything is sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConnectionError covers transport failures, timeouts and non-2xx responses.
// Status is 0 when no HTTP response was received. The message is the
// transport's; response bodies are not interpreted.
type ConnectionError struct {
	Op     string
	Status int
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConnection(err error) bool {
	var c *ConnectionError
	return errors.As(err, &c)
}
