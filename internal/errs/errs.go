// Package errs defines the error taxonomy shared by every core service.
//
// Services raise *Error values at the point of detection and wrap them with
// fmt.Errorf("...: %w") on the way up; KindOf recovers the kind at the
// transport boundary so nothing gets downgraded into a generic failure.
package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the transport layer.
type Kind string

const (
	KindValidation     Kind = "ValidationError"
	KindAuthentication Kind = "AuthenticationError"
	KindAuthorization  Kind = "AuthorizationError"
	KindNotFound       Kind = "NotFoundError"
	KindConflict       Kind = "ConflictError"
	KindTimeout        Kind = "TimeoutError"
	KindCanceled       Kind = "CanceledError"
	KindInternal       Kind = "InternalError"
)

// StatusClientClosedRequest is reported when the caller went away before the
// request finished. net/http has no constant for it.
const StatusClientClosedRequest = 499

// internalMessage is the only text an InternalError ever shows to a client.
const internalMessage = "internal server error"

// Error is a classified domain error.
type Error struct {
	Err     error
	Kind    Kind
	Message string
	Details []string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Public returns the message that is safe to show a client.
func (e *Error) Public() string {
	if e.Kind == KindInternal {
		return internalMessage
	}
	return e.Message
}

// Validation creates a ValidationError. Details name the offending fields.
func Validation(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// Authentication creates an AuthenticationError.
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Authorization creates an AuthorizationError.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound creates a NotFoundError.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict creates a ConflictError.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Timeout creates a TimeoutError wrapping the store error that timed out.
func Timeout(message string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: message, Err: err}
}

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in the chain. Context deadline
// errors anywhere in the chain count as timeouts and cancellation as
// canceled; anything else is internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func IsValidation(err error) bool { return Is(err, KindValidation) }
func IsAuthentication(err error) bool { return Is(err, KindAuthentication) }
func IsAuthorization(err error) bool { return Is(err, KindAuthorization) }
func IsNotFound(err error) bool { return Is(err, KindNotFound) }
func IsConflict(err error) bool { return Is(err, KindConflict) }
func IsTimeout(err error) bool { return Is(err, KindTimeout) }

// FromStore classifies an error coming back from a repository call. Domain
// errors pass through, deadline errors become TimeoutError, cancellation is
// returned unchanged, and everything else becomes InternalError.
func FromStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(op+" timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return Internal(op+" failed", err)
}

// Status maps a kind to the suggested HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindCanceled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-safe message for any error.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Public()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}
	return internalMessage
}

// DetailsOf returns the detail list of the first *Error in the chain.
func DetailsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) && len(e.Details) > 0 {
		return e.Details
	}
	return []string{}
}
