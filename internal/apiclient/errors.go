package apiclient

import (
	"fmt"
	"sort"
	"strings"
)

// NetworkError reports a transport failure, a timeout, an unreadable body or
// a server-side (5xx) failure.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError reports a submission the remote API refused on content
// (bad fields, duplicate email or phone).
type ValidationError struct {
	Status  int
	Message string
	Fails   map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fails) == 0 {
		return fmt.Sprintf("validation failed (%d): %s", e.Status, e.Message)
	}

	fields := make([]string, 0, len(e.Fails))
	for field := range e.Fails {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return fmt.Sprintf("validation failed (%d): %s [%s]", e.Status, e.Message, strings.Join(fields, ", "))
}

// AuthError reports an expired or invalid submission token.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "authorization failed: " + e.Message
}

// StatusError reports any other unexpected non-2xx answer.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Message)
}
