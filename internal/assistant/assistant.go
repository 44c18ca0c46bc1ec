// Package assistant provides the text-generation capability used for travel
// advice, chat replies and fare estimates, plus wrappers that bound it with
// timeouts, fixed fallbacks and a quote cache.
package assistant

import (
	"context"

	"campusride/internal/domain"
)

// Fallback values returned when the underlying assistant fails.
const (
	FallbackAdvice = "Stay safe and wear a helmet! Enjoy your ride."
	FallbackReply  = "Bhai, bas 2 min mein pohanch raha hoon."
)

// FallbackEstimate is the quote used when no estimate can be produced.
var FallbackEstimate = Estimate{DistanceKm: 1.5, Fare: 15}

// DefaultAdviceContext is the traffic context passed with advice requests.
const DefaultAdviceContext = "Normal campus traffic"

// Estimate is a distance and fare quote for a route.
type Estimate struct {
	DistanceKm float64 `json:"distance"`
	Fare       float64 `json:"estimated_fare"`
}

// Assistant generates short texts and quotes for the ride flow.
type Assistant interface {
	// TravelAdvice suggests a meeting point and a tip for the route.
	TravelAdvice(ctx context.Context, from, to, trafficContext string) (string, error)
	// ChatReply answers msg as the counterpart of role.
	ChatReply(ctx context.Context, msg string, role domain.Role, counterpart string) (string, error)
	// FareEstimate quotes a route between two named campus points.
	FareEstimate(ctx context.Context, from, to string) (Estimate, error)
}
