package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested object or bucket does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrAccessDenied indicates the configured credentials were rejected
	// or lack permission for the requested operation.
	ErrAccessDenied = errors.New("access denied")
)

// StatusError carries an upstream HTTP-style status code for failures
// that are neither not-found nor access-denied.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storage request failed with status %d", e.Code)
	}
	return fmt.Sprintf("storage request failed with status %d: %s", e.Code, e.Message)
}

// StatusCode extracts the upstream status code from err, if it carries one.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}
