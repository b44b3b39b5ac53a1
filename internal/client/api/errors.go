package api

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrSessionExpired = errors.New("session expired")
)

// ErrorDetail is a single field-level problem reported by the backend
// validation layer.
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a response the backend answered with an error status. Status
// holds the HTTP code, Message the backend's error string and Details
// the validation breakdown when one was supplied.
type Error struct {
	Status  int
	Message string
	Details []ErrorDetail
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, fmt.Sprintf("%s: %s", d.Field, d.Message))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}
