package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore keeps revoked token ids in a map, pruning expired entries on write
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewInMemoryStore creates a new in-memory revocation store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *InMemoryStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.entries {
		if !exp.After(now) {
			delete(s.entries, id)
		}
	}
	if expiresAt.After(now) {
		s.entries[tokenID] = expiresAt
	}
	return nil
}

func (s *InMemoryStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exp, ok := s.entries[tokenID]
	return ok && exp.After(s.now()), nil
}

// Len returns the number of tracked entries, expired ones included until the next write
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
