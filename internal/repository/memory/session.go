// Package memory is the in-process SessionRepository used by default and in tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// SessionRepository keeps encoded session records in a map, so values never
// alias between callers and decoding behaves like the persistent backends.
type SessionRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewSessionRepository creates an empty in-memory repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{records: make(map[string][]byte)}
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

// Load returns the stored state for userID.
func (r *SessionRepository) Load(ctx context.Context, userID string) (*domain.SessionState, error) {
	r.mu.RLock()
	raw, ok := r.records[userID]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}

	var state domain.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCorruptState, err)
	}
	return &state, nil
}

// Save replaces the stored state for userID.
func (r *SessionRepository) Save(ctx context.Context, userID string, state *domain.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	r.mu.Lock()
	r.records[userID] = raw
	r.mu.Unlock()
	return nil
}

// PutRaw stores an undecoded record. Used to simulate damaged storage.
func (r *SessionRepository) PutRaw(userID string, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[userID] = append([]byte(nil), raw...)
}
