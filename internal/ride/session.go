// Package ride holds the ride-session aggregate and its transition function.
// It does no I/O: timers, wallet postings and assistant calls are returned as
// effects for the caller to carry out.
package ride

import "campusride/internal/domain"

// Session is the single current ride of the local user.
type Session struct {
	ID         string              `json:"id,omitempty"`
	Role       domain.Role         `json:"role,omitempty"`
	Status     domain.RideStatus   `json:"status"`
	Online     bool                `json:"online"`
	From       *domain.Location    `json:"from,omitempty"`
	To         *domain.Location    `json:"to,omitempty"`
	Fare       float64             `json:"fare"`
	DistanceKm float64             `json:"distance_km,omitempty"`
	Position   *domain.Point       `json:"position,omitempty"`
	Request    *domain.RideRequest `json:"request,omitempty"`
	Rider      *domain.RiderInfo   `json:"rider,omitempty"`
	Advice     string              `json:"advice,omitempty"`
	Settled    bool                `json:"settled"`
}

// NewSession returns an idle session for role.
func NewSession(role domain.Role) Session {
	return Session{Role: role, Status: domain.RideStatusIdle}
}

// Active reports whether a ride is between booking and dismissal.
func (s Session) Active() bool {
	return s.Status != domain.RideStatusIdle
}

// Moving reports whether the position animation should be running.
func (s Session) Moving() bool {
	return s.Status == domain.RideStatusAccepted || s.Status == domain.RideStatusInProgress
}

// Target returns the point the rider is currently heading to.
func (s Session) Target() (domain.Point, bool) {
	switch s.Status {
	case domain.RideStatusAccepted:
		if s.From != nil {
			return s.From.Coords, true
		}
	case domain.RideStatusInProgress:
		if s.To != nil {
			return s.To.Coords, true
		}
	}
	return domain.Point{}, false
}

// Counterpart returns the name of the other party of the ride.
func (s Session) Counterpart() string {
	if s.Role == domain.RolePassenger {
		if s.Rider != nil {
			return s.Rider.Name
		}
		return ""
	}
	if s.Request != nil {
		return s.Request.PassengerName
	}
	return "Student"
}

// reset returns the idle session kept across rides: role and online flag survive.
func (s Session) reset() Session {
	next := NewSession(s.Role)
	next.Online = s.Online
	return next
}
