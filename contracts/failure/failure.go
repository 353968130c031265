// Package failure defines the typed failure kinds shared by every
// observer-experience module. Domain packages declare sentinel failures with
// New and the HTTP boundary translates them with errors.As.
package failure

import "net/http"

type Kind string

const (
	KindNotFound      Kind = "NOT_FOUND"
	KindInvalidInput  Kind = "INVALID_INPUT"
	KindStateConflict Kind = "STATE_CONFLICT"
	KindLimitExceeded Kind = "LIMIT_EXCEEDED"
)

// Error carries a stable machine code and the HTTP status the boundary layer
// should respond with. Sentinels are compared by identity via errors.Is.
type Error struct {
	Kind    Kind
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, code string, message string) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Status:  defaultStatus(kind),
		Message: message,
	}
}

// Temporal marks a limit failure as time-bound (daily caps) so the boundary
// answers 429 instead of 400.
func Temporal(code string, message string) *Error {
	return &Error{
		Kind:    KindLimitExceeded,
		Code:    code,
		Status:  http.StatusTooManyRequests,
		Message: message,
	}
}

func defaultStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindStateConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
