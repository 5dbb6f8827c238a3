package store

import (
	"context"
	"sync"
	"time"
)

// memoryRevocationStore keeps revoked token ids in process memory. Entries
// are dropped lazily once their expiry has passed.
type memoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationStore creates an empty in-process [RevocationStore].
func NewMemoryRevocationStore() RevocationStore {
	return &memoryRevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *memoryRevocationStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.now().Before(expiresAt) {
		return nil
	}
	m.revoked[tokenID] = expiresAt
	return nil
}

func (m *memoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt, ok := m.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !m.now().Before(expiresAt) {
		delete(m.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
