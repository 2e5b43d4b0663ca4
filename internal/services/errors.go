package services

import "fmt"

// Error codes surfaced on the chat endpoint.
const (
	ErrInvalidRequest  = "INVALID_REQUEST"
	ErrMisconfigured   = "MISCONFIGURED"
	ErrProfileLoad     = "PROFILE_LOAD_ERROR"
	ErrNoValidMessages = "NO_VALID_MESSAGES"
	ErrProvider        = "PROVIDER_ERROR"
	ErrAllModelsFailed = "ALL_MODELS_FAILED"
)

// RelayError is a terminal relay failure, carrying the HTTP status to
// surface and the last model candidate that was attempted.
type RelayError struct {
	Code       string
	Status     int
	Message    string
	ModelTried string
	Err        error
}

func (e *RelayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *RelayError) Unwrap() error { return e.Err }
