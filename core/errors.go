package core

import "github.com/pkg/errors"

// FieldError pins a validation failure to one named input field, eg. a
// status value outside the allowed set.
type FieldError struct {
	Field string
	Error string
}

// ValidationError rejects a request before any store mutation. Fields may
// be empty when the failure concerns the request as a whole.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks an error the server cannot serve through; the error
// handler reacts by signaling a graceful stop.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown reports whether err (or its cause) asks for a shutdown.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
