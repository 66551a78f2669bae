// Package clinicerr defines the closed set of domain errors the scheduling
// core can return. All three categories are caller mistakes or genuine
// business conflicts, never transient faults; store-level failures are wrapped
// and propagated separately by the repositories.
package clinicerr

import "fmt"

// ValidationError signals malformed input (bad CPF, bad date, unsupported
// exam name).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError signals that a referenced entity does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError signals a time-slot collision on create or reschedule.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
