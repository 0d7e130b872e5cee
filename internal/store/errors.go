package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a Backend when no value exists for a key.
	ErrNotFound = errors.New("store: key not found")

	// ErrPersist matches every *PersistError.
	ErrPersist = errors.New("store: persist failed")

	// ErrInvalidPatch is wrapped by UpdateItem when a patch names an unknown
	// field or carries a value of the wrong type.
	ErrInvalidPatch = errors.New("store: invalid patch")
)

// PersistError reports that a mutation was applied in memory but could not be
// written to the backend. The store stays usable; the next successful write
// (or Flush) brings the backend up to date.
type PersistError struct {
	Section string
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("store: persist %s: %v", e.Section, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Is reports ErrPersist as a match so callers can use errors.Is.
func (e *PersistError) Is(target error) bool { return target == ErrPersist }

// ErrClosed is returned by mutations after Close.
var ErrClosed = errors.New("store: closed")

// ErrConflict is returned by Reload when the blob changed on the backend while
// the store held changes it had not managed to write. The local state wins.
var ErrConflict = errors.New("store: external change conflicts with unsaved state")
