package app

import (
	"context"
	"fmt"
	"log"

	"github.com/newrelic/go-agent/v3/newrelic"

	"campusride/internal/config"
	internalRedis "campusride/internal/redis"
	"campusride/internal/repository"
	"campusride/internal/repository/memory"
	"campusride/internal/repository/postgres"
)

// Stores holds the persistence selected by STORE_BACKEND.
type Stores struct {
	Sessions repository.SessionRepository
	// Cache is set only for the redis backend; it also serves fare quotes
	// and idempotent replay.
	Cache   *internalRedis.CacheStore
	closers []func() error
}

// NewStores connects the configured backend.
func NewStores(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application) (*Stores, error) {
	switch cfg.Store.Backend {
	case "", config.StoreMemory:
		log.Println("Using in-memory session store")
		return &Stores{Sessions: memory.NewSessionRepository()}, nil

	case config.StoreRedis:
		client, err := NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			return nil, err
		}
		log.Println("Connected to Redis")
		cache := internalRedis.NewCacheStore(client)
		return &Stores{Sessions: cache, Cache: cache, closers: []func() error{client.Close}}, nil

	case config.StorePostgres:
		db, err := NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return nil, err
		}
		log.Println("Connected to PostgreSQL")
		repo := postgres.NewSessionRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &Stores{Sessions: repo, closers: []func() error{db.Close}}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
}

// Close releases the backend connections.
func (s *Stores) Close() {
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			log.Printf("failed to close store: %v", err)
		}
	}
}
