package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// StubStore implements ObjectStore in memory for development and tests
type StubStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubStore creates an in-memory object store
func NewStubStore() *StubStore {
	return &StubStore{objects: make(map[string][]byte)}
}

// Upload stores an object under the given key
func (s *StubStore) Upload(ctx context.Context, key string, contentType string, body io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return fmt.Errorf("storage: upload failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = buf.Bytes()
	return nil
}

// PresignDownload returns a fake URL for a stored object
func (s *StubStore) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[key]; !ok {
		return "", ErrObjectNotFound
	}
	return "https://stub.local/" + key, nil
}

// Delete removes an object
func (s *StubStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(s.objects, key)
	return nil
}

// Get returns the stored bytes, for test assertions
func (s *StubStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

var _ ObjectStore = (*StubStore)(nil)
