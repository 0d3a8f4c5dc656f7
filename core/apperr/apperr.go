package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	// Field is the input field name (e.g. "name", "price").
	Field string `json:"field"`
	// Message is the human-readable reason.
	Message string `json:"message"`
}

// ValidationError is raised locally, before any remote call is made.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// FetchError is a transport-level failure: timeout, refused connection,
// or a non-2xx response that carried no body.
type FetchError struct {
	// Status is the HTTP status when a response was received, 0 otherwise.
	Status int
	Cause  error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote store unavailable: status %d", e.Status)
	}
	if e.Cause != nil {
		return "remote store unavailable: " + e.Cause.Error()
	}
	return "remote store unavailable"
}

func (e *FetchError) Unwrap() error { return e.Cause }

// RemoteError means the remote store rejected a well-formed request.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote store rejected request: status %d", e.Status)
	}
	return fmt.Sprintf("remote store rejected request: status %d: %s", e.Status, e.Body)
}

// DecodeError means a response body did not match the expected shape.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause == nil {
		return "malformed response"
	}
	return "malformed response: " + e.Cause.Error()
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// InternalError signals a broken invariant inside the client.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string { return "internal error: " + e.Message }

// Validation creates a ValidationError with optional field details.
func Validation(msg string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}

// Fetch wraps a transport failure.
func Fetch(cause error) *FetchError {
	return &FetchError{Cause: cause}
}

// FetchStatus reports a non-2xx response without a body.
func FetchStatus(status int) *FetchError {
	return &FetchError{Status: status}
}

// Remote creates a RemoteError.
func Remote(status int, body string) *RemoteError {
	return &RemoteError{Status: status, Body: body}
}

// Decode wraps a decoding failure.
func Decode(cause error) *DecodeError {
	return &DecodeError{Cause: cause}
}

// Internal creates an InternalError with a formatted message.
func Internal(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a RemoteError with status 404.
func IsNotFound(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote) && remote.Status == http.StatusNotFound
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// HTTPStatus maps an error to the status the admin API answers with.
// Remote 4xx rejections pass through; everything upstream-related is a 502.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		fetch      *FetchError
		remote     *RemoteError
		decode     *DecodeError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &remote):
		if remote.Status >= 400 && remote.Status < 500 {
			return remote.Status
		}
		return http.StatusBadGateway
	case errors.As(err, &fetch):
		return http.StatusBadGateway
	case errors.As(err, &decode):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the single user-visible message for err.
// Remote bodies are shown as sent by the store.
func Message(err error) string {
	var (
		validation *ValidationError
		remote     *RemoteError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &remote) && remote.Body != "":
		return remote.Body
	default:
		return err.Error()
	}
}
