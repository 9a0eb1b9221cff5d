package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/shared"
	csvimport "github.com/shopadmin/backend/internal/infrastructure/import"
)

// InMemorySessionStore implements SessionStore with a process-local map.
// Suitable for single-instance deployments and tests; sessions do not
// survive a restart. Entries hold the encoded session, so every Get
// returns its own copy the same way the Redis store does.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]inMemorySession
}

type inMemorySession struct {
	payload   []byte
	expiresAt time.Time
}

// NewInMemorySessionStore creates an empty in-memory store
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[uuid.UUID]inMemorySession),
	}
}

// Save stores a session with the given TTL
func (s *InMemorySessionStore) Save(ctx context.Context, session *csvimport.ImportSession, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode import session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	s.sessions[session.ID] = inMemorySession{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Get retrieves a session by id
func (s *InMemorySessionStore) Get(ctx context.Context, id uuid.UUID) (*csvimport.ImportSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, shared.ErrNotFound
	}

	var session csvimport.ImportSession
	if err := json.Unmarshal(entry.payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode import session: %w", err)
	}
	return &session, nil
}

// Delete removes a session
func (s *InMemorySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Close is a no-op for the in-memory store
func (s *InMemorySessionStore) Close() error {
	return nil
}

// evictExpired drops expired entries; called with the lock held
func (s *InMemorySessionStore) evictExpired() {
	now := time.Now()
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

var _ SessionStore = (*InMemorySessionStore)(nil)
