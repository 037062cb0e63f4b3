package errcodes

import (
	"fmt"
	"net/http"
)

// Error is an error that knows how it should be reported over HTTP.
type Error struct {
	HTTPCode int
	Message  string
	Code     string
	// Cause is the underlying failure. It's logged, never shown to the client.
	Cause error
}

func newError(httpCode int, code, msg string) *Error {
	return &Error{HTTPCode: httpCode, Code: code, Message: msg}
}

func (err *Error) Error() string {
	if err.Cause == nil {
		return err.Message
	}
	return err.Message + ": " + err.Cause.Error()
}

func (err *Error) Unwrap() error {
	return err.Cause
}

// Is matches on the client-facing parts only, so errors.Is(err,
// NotFound("Book")) holds whatever the cause was.
func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	return ok &&
		te.HTTPCode == err.HTTPCode &&
		te.Code == err.Code &&
		te.Message == err.Message
}

func NotFound(resource string) error {
	return newError(http.StatusNotFound, "not_found", resource+" not found.")
}

// OperationFailed wraps a write that failed and was rolled back. The status
// differs per route, so the caller picks it.
func OperationFailed(msg string, httpCode int, cause error) error {
	e := newError(httpCode, "operation_failed", msg)
	e.Cause = cause
	return e
}

// ConstraintViolation is a 409 for a write the schema rejected.
func ConstraintViolation(cause error) error {
	e := newError(http.StatusConflict, "constraint_violation", "Constraint violation.")
	e.Cause = cause
	return e
}

func ValidationError(msg string) error {
	return newError(http.StatusBadRequest, "validation_error", msg)
}

func ValidationTypeError(msg string) error {
	return newError(http.StatusBadRequest, "validation_type_error", msg)
}

func UnknownParameter(param string) error {
	return newError(http.StatusBadRequest, "unknown_parameter", fmt.Sprintf("Unknown Parameter %q", param))
}

func MalformedPayload() error {
	return newError(http.StatusBadRequest, "malformed_payload", "Malformed Payload")
}

func EmptyRequestBody() error {
	return newError(http.StatusBadRequest, "empty_request_body", "Request body can't be empty.")
}

func UnsupportedMediaType() error {
	return newError(http.StatusUnsupportedMediaType, "unsupported_media_type", "Unsupported Media Type")
}
