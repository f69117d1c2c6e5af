package blog

import "errors"

// Kind classifies a failed API interaction. The presentation layer keys
// its messaging off the kind, never off status codes or transport details.
type Kind int

const (
	KindUnknown Kind = iota // unclassified non-2xx response
	KindNetwork             // transport failure, no response received
	KindUnauthorized        // session missing, expired, or rejected
	KindValidation          // request rejected with a field-level complaint
	KindNotFound            // target resource absent (e.g. already deleted)
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a classified API failure with a human-readable message.
// Locally detected failures (missing session, empty form fields) use the
// same type so the presentation layer reports them uniformly.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, may be nil
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// NewError creates an Error with the given kind and message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an Error that retains the underlying cause.
func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the classification of err, or KindUnknown when err does
// not carry one.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// ErrBusy is returned when an action of the same category is already in
// flight; the caller should ignore or retry after the first completes.
var ErrBusy = errors.New("operation already in progress")
