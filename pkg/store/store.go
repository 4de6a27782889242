// Package store implements the canonical rule store: a single JSON
// document holding every rule, written with atomic whole-file replace
// and guarded by a single-writer discipline so rapid UI-driven
// mutations never interleave partial writes.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/codmate/codmate/pkg/errors"
	"github.com/codmate/codmate/pkg/logging"
	"github.com/codmate/codmate/pkg/rules"
)

// Store is the canonical rule collection. All mutating operations are
// serialized through one mutex; every mutation persists the entire
// collection before returning.
type Store struct {
	mu    sync.Mutex
	path  string
	rules map[string]rules.Rule
}

// Open loads the store document at path, creating an empty store if
// the file does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		rules: make(map[string]rules.Rule),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrapf(err, errors.ErrPersistenceRead,
			"failed to read rule store %s", path)
	}

	var list []rules.Rule
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, errors.Wrapf(err, errors.ErrPersistenceDecode,
			"failed to decode rule store %s", path)
	}
	for _, r := range list {
		s.rules[r.ID] = r
	}

	logger := logging.GetLogger("store")
	logger.Debug().
		Int("rules", len(s.rules)).
		Str("path", path).
		Msg("Rule store loaded")

	return s, nil
}

// Path returns the backing document location.
func (s *Store) Path() string {
	return s.path
}

// List returns a snapshot copy of every rule, ordered by creation time
// then id so output is stable.
func (s *Store) List() []rules.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]rules.Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Get returns a copy of the rule with the given id.
func (s *Store) Get(id string) (rules.Rule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rules[id]
	if !ok {
		return rules.Rule{}, false
	}
	return r.Clone(), true
}

// Upsert inserts or fully replaces the rule keyed by its id and
// persists the collection atomically.
func (s *Store) Upsert(r rules.Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.rules[r.ID]
	s.rules[r.ID] = r.Clone()
	if err := s.persistLocked(); err != nil {
		// Roll back so memory and disk stay consistent.
		if existed {
			s.rules[r.ID] = prev
		} else {
			delete(s.rules, r.ID)
		}
		return err
	}
	return nil
}

// Update applies a delta to the rule with the given id. It reports
// false without touching the store when the id is absent.
func (s *Store) Update(id string, delta rules.Delta) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.rules[id]
	if !ok {
		return false, nil
	}

	next := delta.Apply(prev)
	if err := next.Validate(); err != nil {
		return false, err
	}

	s.rules[id] = next
	if err := s.persistLocked(); err != nil {
		s.rules[id] = prev
		return false, err
	}
	return true, nil
}

// Delete removes the rule with the given id. Deleting an absent id is
// a no-op.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.rules[id]
	if !ok {
		return nil
	}

	delete(s.rules, id)
	if err := s.persistLocked(); err != nil {
		s.rules[id] = prev
		return err
	}
	return nil
}

// persistLocked writes the full collection with write-temp-then-rename
// so a concurrent reader never observes a half-written document.
// Callers must hold s.mu.
func (s *Store) persistLocked() error {
	list := make([]rules.Rule, 0, len(s.rules))
	for _, r := range s.rules {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrPersistenceEncode,
			"failed to encode rule store")
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrPersistenceWrite,
			"failed to create store directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".rules-*.json.tmp")
	if err != nil {
		return errors.Wrap(err, errors.ErrPersistenceWrite,
			"failed to create temp store file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrPersistenceWrite,
			"failed to write temp store file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrPersistenceWrite,
			"failed to close temp store file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrPersistenceWrite,
			"failed to replace rule store %s", s.path)
	}

	return nil
}
