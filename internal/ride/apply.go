package ride

import (
	"fmt"
	"strings"

	"campusride/internal/domain"
)

// Apply computes the session that results from ev. On error the returned
// session is s unchanged and no effects are produced.
func Apply(s Session, ev Event) (Session, []Effect, error) {
	switch e := ev.(type) {
	case RoleSelected:
		return applyRoleSelected(s, e)
	case RouteSelected:
		return applyRouteSelected(s, e)
	case FareQuoted:
		return applyFareQuoted(s, e)
	case BookRequested:
		return applyBook(s, e)
	case MatchFound:
		return applyMatch(s, e)
	case RequestAccepted:
		return applyAccept(s, e)
	case OnlineToggled:
		return applyOnline(s, e)
	case Stepped:
		return applyStep(s)
	case Boarded:
		return applyBoard(s)
	case Cancelled:
		return applyCancel(s)
	case Dismissed:
		return applyDismiss(s, e)
	case AdviceReady:
		return applyAdvice(s, e)
	default:
		return s, nil, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
	}
}

func applyRoleSelected(s Session, e RoleSelected) (Session, []Effect, error) {
	if s.Active() {
		return s, nil, ErrRideActive
	}
	next := NewSession(e.Role)
	return next, []Effect{DisarmMatchTimer{}, StopMotion{}, ClearChat{}}, nil
}

func applyRouteSelected(s Session, e RouteSelected) (Session, []Effect, error) {
	if s.Role != domain.RolePassenger {
		return s, nil, ErrWrongRole
	}
	if s.Active() {
		return s, nil, ErrRideActive
	}
	if e.From.ID == e.To.ID {
		return s, nil, ErrSameEndpoints
	}
	from, to := e.From, e.To
	s.From = &from
	s.To = &to
	s.Fare = 0
	s.DistanceKm = 0
	return s, nil, nil
}

func applyFareQuoted(s Session, e FareQuoted) (Session, []Effect, error) {
	if s.Status != domain.RideStatusIdle {
		return s, nil, ErrRideActive
	}
	if s.From == nil || s.To == nil || s.From.ID != e.From || s.To.ID != e.To {
		// The route changed while the estimate was in flight.
		return s, nil, fmt.Errorf("%w: quote is for a different route", ErrInvalidTransition)
	}
	s.Fare = e.Fare
	s.DistanceKm = e.DistanceKm
	return s, nil, nil
}

func applyBook(s Session, e BookRequested) (Session, []Effect, error) {
	if s.Role != domain.RolePassenger {
		return s, nil, ErrWrongRole
	}
	if s.Status != domain.RideStatusIdle && s.Status != domain.RideStatusSearching {
		return s, nil, ErrRideActive
	}
	if s.From == nil || s.To == nil {
		return s, nil, ErrRouteIncomplete
	}
	if s.Fare <= 0 {
		return s, nil, ErrFareUnavailable
	}
	if e.Balance < s.Fare {
		return s, nil, ErrInsufficientBalance
	}

	if s.Status == domain.RideStatusSearching {
		// Re-booking while searching restarts the matching delay.
		return s, []Effect{ArmMatchTimer{}}, nil
	}

	s.ID = e.RideID
	s.Status = domain.RideStatusSearching
	s.Settled = false
	s.Advice = ""
	return s, []Effect{
		ArmMatchTimer{},
		StatusChanged{From: domain.RideStatusIdle, To: domain.RideStatusSearching},
	}, nil
}

func applyMatch(s Session, e MatchFound) (Session, []Effect, error) {
	if s.Status != domain.RideStatusSearching {
		return s, nil, ErrInvalidTransition
	}
	rider := e.Rider
	start := e.Start
	s.Status = domain.RideStatusAccepted
	s.Rider = &rider
	s.Position = &start
	return s, []Effect{
		StartMotion{},
		FetchAdvice{RideID: s.ID, From: s.From.Name, To: s.To.Name},
		Greet{
			Text:     fmt.Sprintf("Bhai, main location ke paas hoon. %s hai.", describeBike(rider.Bike)),
			Sender:   domain.RoleRider,
			Deferred: true,
		},
		StatusChanged{From: domain.RideStatusSearching, To: domain.RideStatusAccepted},
	}, nil
}

func applyAccept(s Session, e RequestAccepted) (Session, []Effect, error) {
	if s.Role != domain.RoleRider {
		return s, nil, ErrWrongRole
	}
	if s.Active() {
		return s, nil, ErrRideActive
	}
	if !s.Online {
		return s, nil, ErrRiderOffline
	}
	req := e.Request
	from, to := req.From, req.To
	start := e.Start

	s.ID = e.RideID
	s.Status = domain.RideStatusAccepted
	s.Request = &req
	s.From = &from
	s.To = &to
	s.Fare = req.Fare
	s.Position = &start
	s.Settled = false
	s.Advice = fmt.Sprintf("Picking up %s at %s.", req.PassengerName, req.From.Name)
	return s, []Effect{
		StartMotion{},
		Greet{
			Text:   fmt.Sprintf("Hey %s, correct location pe aa jao please.", firstName(req.PassengerName)),
			Sender: domain.RoleRider,
			Own:    true,
		},
		StatusChanged{From: domain.RideStatusIdle, To: domain.RideStatusAccepted},
	}, nil
}

func applyOnline(s Session, e OnlineToggled) (Session, []Effect, error) {
	if s.Role != domain.RoleRider {
		return s, nil, ErrWrongRole
	}
	s.Online = e.Online
	if s.Status != domain.RideStatusIdle {
		return s, nil, nil
	}
	if e.Online {
		spot := e.Spot
		s.Position = &spot
	} else {
		s.From = nil
		s.To = nil
		s.Position = nil
	}
	return s, nil, nil
}

func applyStep(s Session) (Session, []Effect, error) {
	target, ok := s.Target()
	if !ok || s.Position == nil {
		return s, nil, ErrInvalidTransition
	}

	next, arrived := Step(*s.Position, target)
	s.Position = &next
	if !arrived {
		return s, []Effect{StartMotion{}}, nil
	}

	if s.Status == domain.RideStatusAccepted {
		s.Status = domain.RideStatusArrived
		return s, []Effect{
			StopMotion{},
			StatusChanged{From: domain.RideStatusAccepted, To: domain.RideStatusArrived},
		}, nil
	}

	s.Status = domain.RideStatusCompleted
	effects := []Effect{StopMotion{}}
	if !s.Settled {
		s.Settled = true
		effects = append(effects, SettlementFor(s))
	}
	effects = append(effects, StatusChanged{From: domain.RideStatusInProgress, To: domain.RideStatusCompleted})
	return s, effects, nil
}

func applyBoard(s Session) (Session, []Effect, error) {
	if s.Status != domain.RideStatusArrived {
		return s, nil, ErrInvalidTransition
	}
	s.Status = domain.RideStatusInProgress
	return s, []Effect{
		StartMotion{},
		StatusChanged{From: domain.RideStatusArrived, To: domain.RideStatusInProgress},
	}, nil
}

func applyCancel(s Session) (Session, []Effect, error) {
	if s.Status != domain.RideStatusSearching && s.Status != domain.RideStatusAccepted {
		return s, nil, ErrCannotCancel
	}
	from := s.Status
	return s.reset(), []Effect{
		DisarmMatchTimer{},
		StopMotion{},
		ClearChat{},
		StatusChanged{From: from, To: domain.RideStatusIdle},
	}, nil
}

func applyDismiss(s Session, e Dismissed) (Session, []Effect, error) {
	if s.Status != domain.RideStatusCompleted {
		return s, nil, ErrInvalidTransition
	}
	next := s.reset()
	if next.Role == domain.RoleRider && next.Online {
		park := e.ParkAt
		next.Position = &park
	}
	return next, []Effect{
		StopMotion{},
		ClearChat{},
		StatusChanged{From: domain.RideStatusCompleted, To: domain.RideStatusIdle},
	}, nil
}

func applyAdvice(s Session, e AdviceReady) (Session, []Effect, error) {
	if !s.Active() || s.ID != e.RideID {
		return s, nil, fmt.Errorf("%w: advice for a ride that is gone", ErrInvalidTransition)
	}
	s.Advice = e.Advice
	return s, nil, nil
}

// SettlementFor returns the wallet posting owed for a completed session.
func SettlementFor(s Session) Settle {
	if s.Role == domain.RoleRider {
		name := "passenger"
		if s.Request != nil {
			name = s.Request.PassengerName
		}
		return Settle{
			RideID:      s.ID,
			Role:        domain.RoleRider,
			Fare:        s.Fare,
			Description: fmt.Sprintf("Ride earnings from %s", name),
		}
	}
	return Settle{
		RideID:      s.ID,
		Role:        domain.RolePassenger,
		Fare:        s.Fare,
		Description: fmt.Sprintf("Ride to %s", s.To.Name),
	}
}

func firstName(full string) string {
	if fields := strings.Fields(full); len(fields) > 0 {
		return fields[0]
	}
	return full
}

func describeBike(bike string) string {
	if bike == "" {
		return "Bike"
	}
	return "Black " + strings.Fields(bike)[0]
}
