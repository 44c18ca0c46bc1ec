package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"campusride/internal/domain"
	"campusride/internal/observability"
)

// DefaultTimeout bounds a single assistant call.
const DefaultTimeout = 5 * time.Second

// Guarded wraps an Assistant so that every call finishes within a timeout and
// never fails: errors, timeouts and empty answers become fallback values.
type Guarded struct {
	next    Assistant
	timeout time.Duration
	logger  *slog.Logger
}

// NewGuarded wraps next. A zero timeout uses DefaultTimeout.
func NewGuarded(next Assistant, timeout time.Duration, logger *slog.Logger) *Guarded {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{next: next, timeout: timeout, logger: logger}
}

// TravelAdvice returns the wrapped advice or FallbackAdvice.
func (g *Guarded) TravelAdvice(ctx context.Context, from, to, trafficContext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.next.TravelAdvice(ctx, from, to, trafficContext)
	if err != nil || strings.TrimSpace(text) == "" {
		g.fallback("advice", err)
		return FallbackAdvice, nil
	}
	return text, nil
}

// ChatReply returns the wrapped reply or FallbackReply.
func (g *Guarded) ChatReply(ctx context.Context, msg string, role domain.Role, counterpart string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.next.ChatReply(ctx, msg, role, counterpart)
	if err != nil || strings.TrimSpace(text) == "" {
		g.fallback("chat", err)
		return FallbackReply, nil
	}
	return text, nil
}

// FareEstimate returns the wrapped quote or FallbackEstimate.
func (g *Guarded) FareEstimate(ctx context.Context, from, to string) (Estimate, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	est, err := g.next.FareEstimate(ctx, from, to)
	if err != nil || est.Fare <= 0 {
		g.fallback("estimate", err)
		return FallbackEstimate, nil
	}
	return est, nil
}

func (g *Guarded) fallback(call string, err error) {
	observability.AssistantFallbacksTotal.WithLabelValues(call).Inc()
	g.logger.Warn("assistant fallback", slog.String("call", call), slog.Any("error", err))
}
