// Package sentinel holds the infrastructure errors stores and clients return,
// optionally wrapped. Services translate them into domain errors; handlers
// never see them raw.
package sentinel

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the key is unknown.
	ErrNotFound = errors.New("not found")
	// ErrExpired means the key existed but outlived its TTL. It matches
	// ErrNotFound under errors.Is, so callers that do not care about the
	// difference check only ErrNotFound.
	ErrExpired = fmt.Errorf("expired: %w", ErrNotFound)
	// ErrUnavailable means the backing service could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
