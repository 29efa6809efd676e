// Package store provides session storage backends for theraflow.
//
// It includes an in-memory store for tests and development, an
// SQLite-backed store for single-node deployments, and a PostgreSQL
// store for shared deployments. The core engine is stateless between
// turns and trusts the store for durability.
package store

import (
	"sync"

	"github.com/mindloom/theraflow/internal/models"
)

// Store defines the session-store abstraction injected into the API
// layer. Session lifecycle (creation, eviction, retention) is owned by
// the caller, never by module-level state.
type Store interface {
	// SaveSession persists a session state, replacing any prior version.
	SaveSession(state models.SessionState) error

	// GetSession retrieves a session by id. Returns (nil, nil) when the
	// session does not exist.
	GetSession(id string) (*models.SessionState, error)

	// DeleteSession removes a session. Deleting a missing session is a no-op.
	DeleteSession(id string) error

	// ListSessions returns the ids of all stored sessions.
	ListSessions() ([]string, error)

	// Close releases any underlying resources.
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string
}

// Option configures a store backend.
type Option func(*Opts)

// WithDSN sets the data source name for a store backend.
func WithDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// InMemoryStore is a simple map-backed store, used in tests and as the
// default backend when no DSN is configured.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.SessionState
}

// NewInMemoryStore creates an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]models.SessionState)}
}

// SaveSession stores or replaces a session.
func (s *InMemoryStore) SaveSession(state models.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.ID] = state
	return nil
}

// GetSession retrieves a session by id, or (nil, nil) when absent.
func (s *InMemoryStore) GetSession(id string) (*models.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

// DeleteSession removes a session.
func (s *InMemoryStore) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// ListSessions returns all stored session ids.
func (s *InMemoryStore) ListSessions() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
