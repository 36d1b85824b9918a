// Package domainerrors provides the typed error taxonomy shared by services
// and the HTTP layer.
//
// Stores return sentinel errors (pkg/platform/sentinel) describing
// infrastructure facts; services translate them into coded domain errors so
// transport layers can map each failure to a status without inspecting
// messages. Internal errors keep their cause chained for logging but are
// surfaced to callers without detail.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and caller branching.
type Code string

const (
	// CodeValidation marks user-correctable field-level input problems.
	CodeValidation Code = "validation_error"
	// CodeInvalidInput marks malformed identifiers or parameters at trust boundaries.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks structurally invalid requests (bad JSON, nonsense arguments).
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks references to entities that do not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict marks operations rejected by the current state of the entity.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks broken domain invariants; constructors return
	// these and services decide whether to re-expose them as validation errors.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeTimeout marks operations aborted by deadline or cancellation.
	CodeTimeout Code = "timeout"
	// CodeInternal marks infrastructure failures. Detail is logged, never surfaced.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New constructs a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, keeping the cause
// chained so errors.Is/As still see it.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		de = nil
	}
	return false
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries no code at all.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost coded message, or empty when uncoded.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeInvariantViolation, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
