package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultQuoteTTL is how long a cached fare quote stays valid.
const DefaultQuoteTTL = 10 * time.Minute

// QuoteCache stores fare quotes keyed by route.
type QuoteCache interface {
	GetQuote(ctx context.Context, key string) (*Estimate, error)
	SetQuote(ctx context.Context, key string, est Estimate, ttl time.Duration) error
}

// Cached serves fare estimates from a QuoteCache and delegates everything
// else to the wrapped assistant.
type Cached struct {
	Assistant
	cache  QuoteCache
	ttl    time.Duration
	logger *slog.Logger
}

// WithQuoteCache wraps next so that fare estimates are cached per route.
// A nil cache returns next unchanged.
func WithQuoteCache(next Assistant, cache QuoteCache, ttl time.Duration, logger *slog.Logger) Assistant {
	if cache == nil {
		return next
	}
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{Assistant: next, cache: cache, ttl: ttl, logger: logger}
}

// QuoteKey builds the cache key for a route.
func QuoteKey(from, to string) string {
	return fmt.Sprintf("quote:%s:%s", normalize(from), normalize(to))
}

// FareEstimate returns a cached quote when present; otherwise it asks the
// wrapped assistant and caches a successful answer. Cache errors are logged
// and never fail the call.
func (c *Cached) FareEstimate(ctx context.Context, from, to string) (Estimate, error) {
	key := QuoteKey(from, to)

	cached, err := c.cache.GetQuote(ctx, key)
	if err != nil {
		c.logger.Warn("quote cache read failed", slog.String("key", key), slog.Any("error", err))
	} else if cached != nil {
		return *cached, nil
	}

	est, err := c.Assistant.FareEstimate(ctx, from, to)
	if err != nil {
		return Estimate{}, err
	}
	if err := c.cache.SetQuote(ctx, key, est, c.ttl); err != nil {
		c.logger.Warn("quote cache write failed", slog.String("key", key), slog.Any("error", err))
	}
	return est, nil
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
