package directory

import (
	"context"
	"errors"
	"net"
	"net/http"

	appErrors "github.com/noah-isme/yupiflow-admin/pkg/errors"
)

var (
	// ErrSuperseded is returned by a list load whose result was discarded because a newer load was issued.
	ErrSuperseded = errors.New("directory: superseded by a newer request")
	// ErrDeleteCancelled is returned when the confirmation step answers no.
	ErrDeleteCancelled = errors.New("directory: delete cancelled")
	// ErrMutationInFlight is returned when a screen already has a mutation outstanding.
	ErrMutationInFlight = errors.New("directory: another request is in progress")
)

const (
	genericMessage = "Something went wrong, please try again"
	timeoutMessage = "The server took too long to respond"
)

// ValidationError is detected on the client before any request is sent.
type ValidationError struct {
	Field string
	Err   *appErrors.Error
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Err: appErrors.Clone(appErrors.ErrValidation, message)}
}

func (e *ValidationError) Error() string { return e.Err.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// RequestError is a network or server failure. Message holds what the user should see.
type RequestError struct {
	Op     string
	Status int
	Err    *appErrors.Error
}

func (e *RequestError) Error() string {
	if e.Err.Err != nil {
		return e.Op + ": " + e.Err.Message + ": " + e.Err.Err.Error()
	}
	return e.Op + ": " + e.Err.Message
}

func (e *RequestError) Unwrap() error { return e.Err }

// Message returns the server message or the operation fallback.
func (e *RequestError) Message() string { return e.Err.Message }

// NotFound reports whether the server answered 404.
func (e *RequestError) NotFound() bool { return e.Status == http.StatusNotFound }

// asRequestError converts any failure into a RequestError so callers never see raw transport errors.
func asRequestError(op string, err error, fallback string) error {
	if err == nil {
		return nil
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr
	}
	if isTimeout(err) {
		return &RequestError{Op: op, Status: http.StatusGatewayTimeout, Err: appErrors.Wrap(err, appErrors.ErrRequest.Code, http.StatusGatewayTimeout, timeoutMessage)}
	}
	return &RequestError{Op: op, Err: appErrors.Wrap(err, appErrors.ErrRequest.Code, appErrors.ErrRequest.Status, fallback)}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// DisplayMessage converts an error returned by this package into a user-visible string.
// Superseded loads produce an empty string since nothing should be shown for them.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Err.Message
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message()
	}
	switch {
	case errors.Is(err, ErrSuperseded):
		return ""
	case errors.Is(err, ErrDeleteCancelled):
		return "Delete cancelled"
	case errors.Is(err, ErrMutationInFlight):
		return "Another request is in progress"
	case isTimeout(err):
		return timeoutMessage
	default:
		return genericMessage
	}
}
