// Package memory provides an in-memory blob.Store for tests and
// storage-less development runs.
package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/cognicase/cognicase/pkg/blob"
)

// Store keeps objects in a map.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// Ensure Store implements blob.Store at compile time.
var _ blob.Store = (*Store)(nil)

// New creates an empty in-memory blob store.
func New() *Store {
	return &Store{objects: make(map[string][]byte)}
}

// Upload stores the object bytes under key.
func (s *Store) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

// Download opens the object for reading.
func (s *Store) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the object. Missing keys are not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
