package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fieldops/backend/internal/domain/portal"
	"github.com/fieldops/backend/internal/domain/shared"
)

// InMemorySessionStore implements portal.SessionStore in process memory.
// Suitable for single-instance deployments and testing; sessions do not
// survive restarts and are not shared across instances.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*portal.Session
	stop     chan struct{}
	stopOnce sync.Once
}

// NewInMemorySessionStore creates an in-memory session store with a
// background sweep that evicts expired sessions.
func NewInMemorySessionStore() *InMemorySessionStore {
	s := &InMemorySessionStore{
		sessions: make(map[string]*portal.Session),
		stop:     make(chan struct{}),
	}
	go s.sweep(time.Minute)
	return s
}

// Put stores the session
func (s *InMemorySessionStore) Put(ctx context.Context, session *portal.Session) error {
	if session.IsExpired(time.Now()) {
		return shared.ErrSessionExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

// Get retrieves a session by token. Returns ErrSessionExpired for
// unknown or expired tokens.
func (s *InMemorySessionStore) Get(ctx context.Context, token string) (*portal.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, shared.ErrSessionExpired
	}
	if session.IsExpired(time.Now()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, shared.ErrSessionExpired
	}
	return session, nil
}

// Delete removes a session
func (s *InMemorySessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Close stops the background sweep
func (s *InMemorySessionStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// Len returns the number of stored sessions, expired or not
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *InMemorySessionStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, session := range s.sessions {
				if session.IsExpired(now) {
					delete(s.sessions, token)
				}
			}
			s.mu.Unlock()
		}
	}
}

var _ portal.SessionStore = (*InMemorySessionStore)(nil)
