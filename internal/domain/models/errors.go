package models

import (
	"errors"
	"strings"
)

var (
	// ErrAuth is returned for any username or password mismatch.
	ErrAuth = errors.New("invalid username or password")
	// ErrNotLoggedIn guards check-out operations.
	ErrNotLoggedIn = errors.New("staff login required")
	// ErrNotFound indicates no open record matched the selection.
	ErrNotFound = errors.New("could not register checkout, try again")
	// ErrStoreUnavailable indicates the store could not be opened.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrStoreRead indicates rows could not be read or decoded.
	ErrStoreRead = errors.New("record store read failed")
	// ErrStoreWrite indicates an append or cell update was rejected.
	ErrStoreWrite = errors.New("record store write failed")
)

// ValidationError lists the check-in fields that are missing or out of range.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// IsStoreError reports whether err came from the record store.
func IsStoreError(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrStoreRead) || errors.Is(err, ErrStoreWrite)
}
