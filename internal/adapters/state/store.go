// Package state persists build records between runs.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/mymake/internal/core/domain"
	"go.trai.ch/mymake/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore using a flat JSON file.
// The file is read on first use.
type Store struct {
	path   string
	mu     sync.RWMutex
	loaded bool
	cache  map[string]domain.BuildInfo
}

// NewStore creates a new BuildInfoStore backed by the file at the given path.
func NewStore(path string) *Store {
	return &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.BuildInfo),
	}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// loadLocked reads the backing file once. Must be called with s.mu held for writing.
func (s *Store) loadLocked() error {
	if s.loaded {
		return nil
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.loaded = true
			return nil
		}
		return zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", s.path)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.cache); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrStoreUnmarshalFailed, err.Error()), "path", s.path)
		}
	}

	s.loaded = true
	return nil
}

func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(domain.ErrStoreMarshalFailed, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", s.path)
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", s.path)
	}

	return nil
}

// Get retrieves the build record for a given target.
func (s *Store) Get(target string) (*domain.BuildInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, err
	}

	info, ok := s.cache[target]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the build record and writes the file.
func (s *Store) Put(info domain.BuildInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	s.cache[info.Target] = info
	return s.saveLocked()
}

// Clear forgets every record and removes the backing file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = make(map[string]domain.BuildInfo)
	s.loaded = true

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(domain.ErrStoreRemoveFailed, err.Error()), "path", s.path)
	}
	// Drop the state directory too when nothing else lives there.
	_ = os.Remove(filepath.Dir(s.path))
	return nil
}
