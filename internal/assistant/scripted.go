package assistant

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"campusride/internal/campus"
	"campusride/internal/domain"
)

// KmPerUnit converts map units into kilometres. The map is 100 units across,
// which on a large campus is roughly four kilometres.
const KmPerUnit = 0.04

// TrafficConfig holds the fare multiplier per pickup traffic level.
type TrafficConfig struct {
	Low      float64
	Medium   float64
	High     float64
	MaxSurge float64
}

// DefaultTrafficConfig returns the default traffic tiers.
func DefaultTrafficConfig() TrafficConfig {
	return TrafficConfig{
		Low:      1.0,
		Medium:   1.25,
		High:     1.5,
		MaxSurge: 2.0,
	}
}

// Multiplier returns the fare multiplier for level, capped at MaxSurge.
func (c TrafficConfig) Multiplier(level domain.TrafficLevel) float64 {
	var m float64
	switch level {
	case domain.TrafficHigh:
		m = c.High
	case domain.TrafficMedium:
		m = c.Medium
	default:
		m = c.Low
	}
	if m < 1.0 {
		m = 1.0
	}
	if c.MaxSurge > 0 && m > c.MaxSurge {
		return c.MaxSurge
	}
	return m
}

// Scripted is a deterministic assistant. It prices routes from campus
// coordinates and answers from fixed phrase lists.
type Scripted struct {
	traffic TrafficConfig
}

// NewScripted creates a Scripted assistant with the default traffic tiers.
func NewScripted() *Scripted {
	return &Scripted{traffic: DefaultTrafficConfig()}
}

// NewScriptedWithTraffic creates a Scripted assistant with custom tiers.
func NewScriptedWithTraffic(cfg TrafficConfig) *Scripted {
	return &Scripted{traffic: cfg}
}

var meetingTips = []string{
	"Meet at the main entrance steps, the side lane gets blocked by cycles.",
	"Wait near the notice board, it is easy for the rider to spot you.",
	"Stand by the parking bay so the rider does not need to take a U-turn.",
}

var routeTips = []string{
	"Take the inner ring road, the speed breakers near the admin block are brutal.",
	"Avoid the canteen stretch around lunch, it is packed with students.",
	"The back road past the labs is quicker and has less traffic.",
}

var replies = []string{
	"Haan bhai, rasta clear hai, 2 mins!",
	"Bas pohanch gaya, gate ke paas hoon.",
	"Okay bhai, thoda traffic hai, aa raha hoon.",
	"Done, main wahi wait karta hoon.",
}

// TravelAdvice returns a meeting point and a route tip picked from the route names.
func (s *Scripted) TravelAdvice(ctx context.Context, from, to, trafficContext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return "", fmt.Errorf("advice needs both endpoints")
	}
	meet := pick(meetingTips, from)
	tip := pick(routeTips, from+"|"+to)
	return fmt.Sprintf("Pickup at %s: %s %s", from, meet, tip), nil
}

// ChatReply returns a short reply chosen from the incoming message.
func (s *Scripted) ChatReply(ctx context.Context, msg string, role domain.Role, counterpart string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(msg) == "" {
		return "", fmt.Errorf("empty message")
	}
	return pick(replies, msg+"|"+string(role)+"|"+counterpart), nil
}

// FareEstimate prices the straight-line route between two campus points,
// scaled by the pickup traffic level.
func (s *Scripted) FareEstimate(ctx context.Context, from, to string) (Estimate, error) {
	if err := ctx.Err(); err != nil {
		return Estimate{}, err
	}
	src, ok := campus.FindLocationByName(from)
	if !ok {
		return Estimate{}, fmt.Errorf("unknown pickup %q", from)
	}
	dst, ok := campus.FindLocationByName(to)
	if !ok {
		return Estimate{}, fmt.Errorf("unknown drop-off %q", to)
	}

	units := src.Coords.DistanceTo(dst.Coords)
	base := campus.BasePrice + campus.PricePerDistance*units
	fare := math.Round(base * s.traffic.Multiplier(src.TrafficLevel))
	return Estimate{
		DistanceKm: math.Round(units*KmPerUnit*10) / 10,
		Fare:       fare,
	}, nil
}

func pick(options []string, seed string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return options[int(h.Sum32()%uint32(len(options)))]
}
