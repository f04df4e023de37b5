// Package jsonstore contains JSON-file implementations of repository interfaces.
//
// Each collection is a single pretty-printed JSON array under the data
// directory. Writes replace the whole file through a temp-file rename, and a
// per-collection mutex serializes every load-modify-persist cycle so
// concurrent mutations cannot overwrite each other.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Collection names one of the persisted record groups.
type Collection string

// The three persisted collections.
const (
	Cases    Collection = "cases"
	Evidence Collection = "evidence"
	Users    Collection = "users"
)

var collections = []Collection{Cases, Evidence, Users}

// Store persists each collection as a JSON array file under dir.
type Store struct {
	dir string
	log *zap.Logger
	mu  map[Collection]*sync.Mutex
}

// New creates the data directory if needed and bootstraps any missing
// collection file with an empty array. Calling it again is a no-op.
func New(dir string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: dir, log: log, mu: make(map[Collection]*sync.Mutex, len(collections))}
	for _, c := range collections {
		s.mu[c] = &sync.Mutex{}
		if _, err := os.Stat(s.path(c)); os.IsNotExist(err) {
			if err := s.Save(c, []struct{}{}); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, fmt.Errorf("stat %s: %w", c, err)
		}
	}
	return s, nil
}

func (s *Store) path(c Collection) string {
	return filepath.Join(s.dir, string(c)+".json")
}

// Lock acquires the collection's mutex and returns the unlock function.
// Repositories hold it across their whole read-modify-write cycle.
func (s *Store) Lock(c Collection) func() {
	m := s.mu[c]
	m.Lock()
	return m.Unlock
}

// Load decodes the collection file into v (a pointer to a slice). A missing
// or undecodable file is logged and leaves v empty; it is never an error.
func (s *Store) Load(c Collection, v any) error {
	b, err := os.ReadFile(s.path(c))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("read collection", zap.String("collection", string(c)), zap.Error(err))
		}
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		s.log.Warn("corrupt collection, treating as empty",
			zap.String("collection", string(c)), zap.Error(err))
		// Unmarshal may have partially filled v before failing; a corrupt
		// collection must read as no data, not as zero-value records.
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
			rv.Elem().SetZero()
		}
	}
	return nil
}

// Save atomically replaces the collection file with the given records.
func (s *Store) Save(c Collection, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c, err)
	}
	tmp, err := os.CreateTemp(s.dir, string(c)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", c, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	if err := os.Rename(tmp.Name(), s.path(c)); err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	return nil
}
