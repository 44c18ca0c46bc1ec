package domain

import "math"

// TrafficLevel describes how congested a campus point usually is.
type TrafficLevel string

const (
	TrafficLow    TrafficLevel = "low"
	TrafficMedium TrafficLevel = "medium"
	TrafficHigh   TrafficLevel = "high"
)

// Point is a coordinate on the campus map in percentage space (0-100 per axis).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the straight-line distance to another point.
func (p Point) DistanceTo(o Point) float64 {
	dx := o.X - p.X
	dy := o.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Location is a named campus point.
type Location struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Coords       Point        `json:"coords"`
	IsPopular    bool         `json:"is_popular,omitempty"`
	TrafficLevel TrafficLevel `json:"traffic_level,omitempty"`
}
