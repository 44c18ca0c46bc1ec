package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"campusride/internal/assistant"
	"campusride/internal/domain"
	"campusride/internal/repository"
)

// CacheStore keeps session records, fare quotes and idempotent responses in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Key prefixes
const (
	sessionPrefix     = "campusride:session:"
	quotePrefix       = "campusride:"
	idempotencyPrefix = "idempotency:"
	lockPrefix        = "lock:"
)

// Load retrieves the session record for userID. Session keys have no TTL.
func (s *CacheStore) Load(ctx context.Context, userID string) (*domain.SessionState, error) {
	data, err := s.client.Get(ctx, sessionPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var state domain.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCorruptState, err)
	}
	return &state, nil
}

// Save stores the session record for userID.
func (s *CacheStore) Save(ctx context.Context, userID string, state *domain.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+userID, data, 0).Err()
}

// GetQuote retrieves a cached fare quote. Returns nil on a cache miss.
func (s *CacheStore) GetQuote(ctx context.Context, key string) (*assistant.Estimate, error) {
	data, err := s.client.Get(ctx, quotePrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var est assistant.Estimate
	if err := json.Unmarshal(data, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// SetQuote stores a fare quote with ttl.
func (s *CacheStore) SetQuote(ctx context.Context, key string, est assistant.Estimate, ttl time.Duration) error {
	data, err := json.Marshal(est)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, quotePrefix+key, data, ttl).Err()
}

// GetResponse retrieves a stored idempotent response. Returns nil on a miss.
func (s *CacheStore) GetResponse(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// SetResponse stores an idempotent response with ttl.
func (s *CacheStore) SetResponse(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.client.Set(ctx, idempotencyPrefix+key, data, ttl).Err()
}

// AcquireLock attempts to take a short-lived lock on name.
// Returns true if the lock was acquired, false if already held.
func (s *CacheStore) AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, lockPrefix+name, "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ReleaseLock releases the lock on name.
func (s *CacheStore) ReleaseLock(ctx context.Context, name string) error {
	return s.client.Del(ctx, lockPrefix+name).Err()
}
