package gemini

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrMissingAPIKey = errors.New("gemini api key is not set")
	ErrNoCandidates  = errors.New("no candidates in response")
	ErrBlocked       = errors.New("response blocked by safety filters")
	ErrEmptyReply    = errors.New("assistant returned no code")
)

// RequestError wraps a failed Gemini API call.
type RequestError struct {
	Status  int
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gemini request failed with %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("gemini request failed: %v", e.Cause)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}
