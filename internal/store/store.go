// Package store holds the organiser's shared state: five named sections
// persisted together as one JSON blob under a single storage key.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// DefaultKey is the storage key the state blob lives under.
const DefaultKey = "personalOrganiser"

// Op identifies the kind of mutation reported in a Change.
type Op string

const (
	OpInit    Op = "init"
	OpReload  Op = "reload"
	OpReplace Op = "replace"
	OpModify  Op = "modify"
	OpAdd     Op = "add"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
)

// Change describes one applied mutation.
type Change struct {
	Section string
	Op      Op
	ItemID  string
}

// Observer is called after every mutation with a private snapshot of the new
// State. It runs while the store is locked and must not call back into it.
type Observer func(State, Change)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDs sets the record id generator.
func WithIDs(g IDGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithWarningHandler registers fn to receive non-fatal persistence errors.
// It is called without the store lock held.
func WithWarningHandler(fn func(error)) Option {
	return func(s *Store) { s.warn = fn }
}

// Store is the shared state container. It is safe for concurrent use; all
// reads and mutations are serialized.
type Store struct {
	mu        sync.Mutex
	backend   Backend
	key       string
	ids       IDGenerator
	logger    *zap.Logger
	warn      func(error)
	state     State
	dirty     bool
	lastBlob  []byte
	observers map[int]Observer
	nextObs   int
	closed    bool
}

// New returns a Store over backend holding the default State. Call Initialize
// to hydrate it from the backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		key:       DefaultKey,
		ids:       UUIDs{},
		logger:    zap.NewNop(),
		state:     DefaultState(),
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key.
func (s *Store) Key() string { return s.key }

// Initialize loads the persisted blob. A missing blob, a read error or
// malformed content all leave the store holding DefaultState; problems are
// logged, never returned.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = DefaultState()
	s.lastBlob = nil

	data, err := s.backend.Get(s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.logger.Debug("no persisted state, using defaults", zap.String("key", s.key))
	case err != nil:
		s.logger.Warn("read persisted state", zap.String("key", s.key), zap.Error(err))
	default:
		st, decodeErr := s.decode(data)
		if decodeErr != nil {
			s.logger.Warn("ignoring malformed persisted state", zap.String("key", s.key), zap.Error(decodeErr))
			break
		}
		s.state = st
		s.lastBlob = data
	}
	s.notifyLocked(Change{Op: OpInit})
}

// decode parses a persisted blob. Absent or null sections become empty.
func (s *Store) decode(data []byte) (State, error) {
	if !gjson.ValidBytes(data) {
		return State{}, fmt.Errorf("store: decode: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return State{}, fmt.Errorf("store: decode: root is %s, want object", root.Type)
	}
	for _, name := range SectionNames {
		if v := root.Get(name); !v.Exists() || v.Type == gjson.Null {
			s.logger.Debug("section absent, using empty default", zap.String("section", name))
		}
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("store: decode: %w", err)
	}
	st.normalize()
	return st, nil
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// NewID returns a fresh id from the configured generator.
func (s *Store) NewID() string { return s.ids.NewID() }

// Dirty reports whether the in-memory state has changes the backend lacks.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Subscribe registers obs and returns a function that removes it.
func (s *Store) Subscribe(obs Observer) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = obs
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// Flush writes the in-memory state if an earlier write failed.
func (s *Store) Flush() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	err := s.persistLocked("")
	s.mu.Unlock()
	if err != nil {
		s.report(err)
	}
	return err
}

// Reload re-reads the blob after an external change. Content identical to the
// last blob read or written is ignored. Malformed content is rejected and the
// current state kept. If the store is dirty the external blob is not
// installed: the in-memory state is written over it and ErrConflict is
// returned, joined with the write error if that failed too. It reports whether
// the state changed.
func (s *Store) Reload() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	data, err := s.backend.Get(s.key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: reload: %w", err)
	}
	if bytes.Equal(data, s.lastBlob) {
		return false, nil
	}
	if s.dirty {
		s.logger.Warn("external change conflicts with unsaved state, keeping local", zap.String("key", s.key))
		conflict := fmt.Errorf("store: reload: %w", ErrConflict)
		return false, errors.Join(conflict, s.persistLocked(""))
	}
	st, err := s.decode(data)
	if err != nil {
		return false, fmt.Errorf("store: reload: %w", err)
	}
	s.state = st
	s.lastBlob = data
	s.notifyLocked(Change{Op: OpReload})
	return true, nil
}

// Close flushes pending state if needed and closes the backend.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	var flushErr error
	if s.dirty {
		flushErr = s.persistLocked("")
	}
	s.mu.Unlock()
	return errors.Join(flushErr, s.backend.Close())
}

// mutate applies fn to a private copy of the state and, if fn succeeds,
// installs the copy, notifies observers and persists. fn returns the id of the
// record it touched, if any.
func (s *Store) mutate(section string, op Op, fn func(*State) (string, error)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	next := s.state.Clone()
	itemID, err := fn(&next)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next.normalize()
	s.state = next
	s.notifyLocked(Change{Section: section, Op: op, ItemID: itemID})
	err = s.persistLocked(section)
	s.mu.Unlock()

	if err != nil {
		s.report(err)
	}
	return err
}

func (s *Store) notifyLocked(c Change) {
	for _, obs := range s.observers {
		obs(s.state.Clone(), c)
	}
}

// persistLocked writes the full state. On failure the store is marked dirty
// and a *PersistError is returned.
func (s *Store) persistLocked(section string) error {
	data, err := json.Marshal(s.state)
	if err == nil {
		err = s.backend.Set(s.key, data)
	}
	if err != nil {
		s.dirty = true
		s.logger.Warn("persist state", zap.String("section", section), zap.Error(err))
		return &PersistError{Section: section, Err: err}
	}
	s.dirty = false
	s.lastBlob = data
	s.logger.Debug("state persisted", zap.String("section", section), zap.Int("bytes", len(data)))
	return nil
}

func (s *Store) report(err error) {
	if s.warn != nil {
		s.warn(err)
	}
}
