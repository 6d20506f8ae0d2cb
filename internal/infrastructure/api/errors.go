package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why a call to the REST API did not produce usable data
type Kind string

const (
	// KindNetwork covers transport failures and timeouts
	KindNetwork Kind = "network"
	// KindRejected is a non-2xx status or a structured success:false body
	KindRejected Kind = "rejected"
	// KindMalformed is a 2xx body missing the expected payload
	KindMalformed Kind = "malformed"
	// KindValidation is a client-side check that failed before any request
	KindValidation Kind = "validation"
)

// Error is the single error type returned by the client
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s %s (%d): %s", e.Op, e.Kind, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s %s: %s", e.Op, e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s %s (%d)", e.Op, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind alone, e.g. errors.Is(err, &Error{Kind: KindRejected})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Status == 0 || t.Status == e.Status)
}

// NewValidationError builds a client-side error from per-field messages
func NewValidationError(op string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: "please correct the highlighted fields", Fields: fields}
}

// KindOf reports the kind of err, or "" when err is not an *Error
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsRetryable is true for failures the user can fix by trying again
// (network) or by editing the form (validation)
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindValidation:
		return true
	}
	return false
}

// IsUnauthorized reports a rejection with 401 or 403
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindRejected {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// UserMessage is what a visitor sees for err. Server messages on rejections
// are shown verbatim; everything else collapses to fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return fallback
	}
	switch apiErr.Kind {
	case KindRejected, KindValidation:
		if apiErr.Message != "" {
			return apiErr.Message
		}
	case KindNetwork:
		return "We couldn't reach the server. Please check your connection and try again."
	}
	return fallback
}
