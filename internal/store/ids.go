package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces record ids. Implementations must be safe for
// concurrent use and never return the same id twice.
type IDGenerator interface {
	NewID() string
}

// UUIDs generates time-sortable UUIDv7 ids. It is the default generator.
type UUIDs struct{}

// NewID returns a hyphenated UUIDv7 string.
func (UUIDs) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ClockIDs generates ids from the wall clock in Unix milliseconds, the format
// older state files use. Two calls within the same millisecond get
// consecutive values instead of colliding.
type ClockIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewClockIDs returns a ClockIDs reading time from now; nil means time.Now.
func NewClockIDs(now func() time.Time) *ClockIDs {
	if now == nil {
		now = time.Now
	}
	return &ClockIDs{now: now}
}

// NewID returns the current millisecond timestamp, bumped past the previous id
// if the clock has not advanced.
func (c *ClockIDs) NewID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return strconv.FormatInt(ms, 10)
}

// SequenceIDs returns prefix-1, prefix-2, ... for deterministic tests.
type SequenceIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceIDs creates a sequence generator with the given prefix.
func NewSequenceIDs(prefix string) *SequenceIDs {
	return &SequenceIDs{prefix: prefix}
}

// NewID returns the next id in the sequence.
func (s *SequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.prefix + "-" + strconv.Itoa(s.n)
}
