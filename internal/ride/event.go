package ride

import "campusride/internal/domain"

// Event is an input to Apply.
type Event interface{ isEvent() }

// RoleSelected switches the session to a role (empty means signed out).
type RoleSelected struct {
	Role domain.Role
}

// RouteSelected sets the passenger's pickup and drop-off.
type RouteSelected struct {
	From domain.Location
	To   domain.Location
}

// FareQuoted stores the estimate for the selected route.
type FareQuoted struct {
	From       string // location IDs the quote was made for
	To         string
	Fare       float64
	DistanceKm float64
}

// BookRequested asks for a rider. Balance is the wallet balance at request time.
type BookRequested struct {
	RideID  string
	Balance float64
}

// MatchFound fires when the matching delay elapses.
type MatchFound struct {
	Rider domain.RiderInfo
	Start domain.Point
}

// RequestAccepted is the rider taking a pending request.
type RequestAccepted struct {
	RideID  string
	Request domain.RideRequest
	Start   domain.Point
}

// OnlineToggled flips rider availability.
type OnlineToggled struct {
	Online bool
	Spot   domain.Point
}

// Stepped is one position animation tick.
type Stepped struct{}

// Boarded is the passenger getting on the vehicle.
type Boarded struct{}

// Cancelled abandons a ride that has not started.
type Cancelled struct{}

// Dismissed closes a completed ride. An online rider waits at ParkAt afterwards.
type Dismissed struct {
	ParkAt domain.Point
}

// AdviceReady delivers travel advice for the ride it was requested for.
type AdviceReady struct {
	RideID string
	Advice string
}

func (RoleSelected) isEvent()    {}
func (RouteSelected) isEvent()   {}
func (FareQuoted) isEvent()      {}
func (BookRequested) isEvent()   {}
func (MatchFound) isEvent()      {}
func (RequestAccepted) isEvent() {}
func (OnlineToggled) isEvent()   {}
func (Stepped) isEvent()         {}
func (Boarded) isEvent()         {}
func (Cancelled) isEvent()       {}
func (Dismissed) isEvent()       {}
func (AdviceReady) isEvent()     {}
