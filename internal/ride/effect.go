package ride

import "campusride/internal/domain"

// Effect is work the caller must perform after a transition.
type Effect interface{ isEffect() }

// ArmMatchTimer (re)starts the matching delay, replacing any pending one.
type ArmMatchTimer struct{}

// DisarmMatchTimer stops the matching delay.
type DisarmMatchTimer struct{}

// StartMotion schedules the next animation tick, replacing any pending one.
type StartMotion struct{}

// StopMotion stops the animation.
type StopMotion struct{}

// FetchAdvice asks the assistant for travel advice.
type FetchAdvice struct {
	RideID string
	From   string
	To     string
}

// Greet posts the counterpart's (or our own) opening chat message.
type Greet struct {
	Text     string
	Sender   domain.Role
	Own      bool // sent by the local user
	Deferred bool // delivered after the greeting delay
}

// ClearChat drops all chat state of the ride.
type ClearChat struct{}

// Settle posts the ride's single wallet transaction.
type Settle struct {
	RideID      string
	Role        domain.Role
	Fare        float64
	Description string
}

// StatusChanged reports a lifecycle transition for notifications and metrics.
type StatusChanged struct {
	From domain.RideStatus
	To   domain.RideStatus
}

func (ArmMatchTimer) isEffect()    {}
func (DisarmMatchTimer) isEffect() {}
func (StartMotion) isEffect()      {}
func (StopMotion) isEffect()       {}
func (FetchAdvice) isEffect()      {}
func (Greet) isEffect()            {}
func (ClearChat) isEffect()        {}
func (Settle) isEffect()           {}
func (StatusChanged) isEffect()    {}
