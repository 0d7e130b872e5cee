package store

import (
	"errors"
	"fmt"
)

// maxIDAttempts bounds retries when a generator yields an id already in use.
const maxIDAttempts = 16

// AddItem assigns item a fresh id, appends it to the list section and returns
// the stored record. A *PersistError means the record was added in memory but
// not yet written.
func AddItem[T any](s *Store, key ListKey[T], item T) (T, error) {
	var stored T
	err := s.mutate(key.name, OpAdd, func(st *State) (string, error) {
		list := key.list(st)
		id, err := freshID(s.ids, key, *list)
		if err != nil {
			return "", err
		}
		*key.id(&item) = id
		*list = append(*list, key.copyRecord(item))
		stored = key.copyRecord(item)
		return id, nil
	})
	if err != nil && !isPersist(err) {
		var zero T
		return zero, err
	}
	return stored, err
}

// UpdateItem merges patch onto the record with the given id. Keys are the
// persisted JSON field names; "id" is ignored. An unknown field or a value of
// the wrong type yields an error wrapping ErrInvalidPatch and changes nothing.
// A missing id is not an error: found is false and the section is unchanged.
func UpdateItem[T any](s *Store, key ListKey[T], id string, patch Patch) (updated T, found bool, err error) {
	err = s.mutate(key.name, OpUpdate, func(st *State) (string, error) {
		list := *key.list(st)
		for i := range list {
			if *key.id(&list[i]) != id {
				continue
			}
			merged, perr := applyPatch(list[i], patch)
			if perr != nil {
				return "", fmt.Errorf("store: update %s/%s: %w", key.name, id, perr)
			}
			*key.id(&merged) = id
			list[i] = merged
			updated = key.copyRecord(merged)
			found = true
			break
		}
		return id, nil
	})
	if err != nil && !isPersist(err) {
		var zero T
		return zero, false, err
	}
	return updated, found, err
}

// DeleteItem removes the record with the given id. A missing id is not an
// error; found reports whether a record was removed.
func DeleteItem[T any](s *Store, key ListKey[T], id string) (found bool, err error) {
	err = s.mutate(key.name, OpDelete, func(st *State) (string, error) {
		list := key.list(st)
		kept := (*list)[:0]
		for _, rec := range *list {
			if *key.id(&rec) == id {
				found = true
				continue
			}
			kept = append(kept, rec)
		}
		*list = kept
		return id, nil
	})
	if err != nil && !isPersist(err) {
		return false, err
	}
	return found, err
}

// ReplaceSection overwrites one top-level section wholesale.
func ReplaceSection[T any](s *Store, key SectionKey[T], value T) error {
	return s.mutate(key.name, OpReplace, func(st *State) (string, error) {
		*key.get(st) = key.clone(value)
		return "", nil
	})
}

// Modify replaces a top-level section with fn applied to a copy of its current
// value, atomically with respect to every other store operation. If fn returns
// an error nothing changes and that error is returned.
func Modify[T any](s *Store, key SectionKey[T], fn func(T) (T, error)) error {
	return s.mutate(key.name, OpModify, func(st *State) (string, error) {
		cur := key.get(st)
		next, err := fn(key.clone(*cur))
		if err != nil {
			return "", err
		}
		*cur = key.clone(next)
		return "", nil
	})
}

// Items returns a copy of one list section.
func Items[T any](s *Store, key ListKey[T]) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := *key.list(&s.state)
	out := make([]T, len(list))
	for i, rec := range list {
		out[i] = key.copyRecord(rec)
	}
	return out
}

// Section returns a copy of one top-level section.
func Section[T any](s *Store, key SectionKey[T]) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return key.clone(*key.get(&s.state))
}

// Find returns a copy of the record with the given id.
func Find[T any](s *Store, key ListKey[T], id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := *key.list(&s.state)
	for i := range list {
		if *key.id(&list[i]) == id {
			return key.copyRecord(list[i]), true
		}
	}
	var zero T
	return zero, false
}

// FreshID returns an id for a new record of key that no record in list
// already uses. It is for Modify callbacks that build records themselves;
// list is the section as the callback sees it.
func FreshID[T any](s *Store, key ListKey[T], list []T) (string, error) {
	return freshID(s.ids, key, list)
}

func freshID[T any](g IDGenerator, key ListKey[T], list []T) (string, error) {
	used := make(map[string]bool, len(list))
	for i := range list {
		used[*key.id(&list[i])] = true
	}
	for range maxIDAttempts {
		id := g.NewID()
		if id != "" && !used[id] {
			return id, nil
		}
	}
	return "", fmt.Errorf("store: add %s: no unique id after %d attempts", key.name, maxIDAttempts)
}

func isPersist(err error) bool {
	return errors.Is(err, ErrPersist)
}
