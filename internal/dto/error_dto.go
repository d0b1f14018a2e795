package dto

import (
	"fmt"
	"time"
)

// ApiError is the structured error surfaced to clients. Code follows the
// "kind:surface" convention, e.g. "rate_limit:chat".
type ApiError struct {
	Kind    string `json:"-"`
	Surface string `json:"-"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *ApiError) Error() string {
	return e.Message
}

func (e *ApiError) Code() string {
	return fmt.Sprintf("%s:%s", e.Kind, e.Surface)
}

const (
	ErrKindBadRequest   = "bad_request"
	ErrKindUnauthorized = "unauthorized"
	ErrKindForbidden    = "forbidden"
	ErrKindNotFound     = "not_found"
	ErrKindRateLimit    = "rate_limit"
	ErrKindInternal     = "internal"
)

var messagesByKind = map[string]string{
	ErrKindBadRequest:   "The request couldn't be processed. Please check your input and try again.",
	ErrKindUnauthorized: "You need to sign in before continuing.",
	ErrKindForbidden:    "This content belongs to another account.",
	ErrKindNotFound:     "The requested item was not found.",
	ErrKindRateLimit:    "You have exceeded your maximum number of messages for the day. Please try again later.",
	ErrKindInternal:     "An error occurred while processing your request. Please try again later.",
}

var statusByKind = map[string]int{
	ErrKindBadRequest:   400,
	ErrKindUnauthorized: 401,
	ErrKindForbidden:    403,
	ErrKindNotFound:     404,
	ErrKindRateLimit:    429,
	ErrKindInternal:     500,
}

func NewApiError(kind, surface string) *ApiError {
	return &ApiError{
		Kind:    kind,
		Surface: surface,
		Message: messagesByKind[kind],
		Status:  statusByKind[kind],
	}
}

// LimitExceededError carries rolling-window quota details so the client
// can render the upsell prompt instead of a generic error toast.
type LimitExceededError struct {
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	ResetAfter time.Time `json:"reset_after"`
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("daily message limit reached (%d/%d), resets %s", e.Used, e.Limit, e.ResetAfter.Format(time.RFC3339))
}
