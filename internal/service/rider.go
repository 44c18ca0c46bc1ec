package service

import (
	"context"

	"github.com/google/uuid"

	"campusride/internal/campus"
	"campusride/internal/domain"
	"campusride/internal/ride"
)

// RiderStats is the rider desk summary.
type RiderStats struct {
	Online    bool    `json:"online"`
	Earnings  float64 `json:"earnings"`
	TripCount int     `json:"trip_count"`
	Rating    float64 `json:"rating"`
}

// SetOnline toggles rider availability. Going online parks an idle rider at
// the online spot; going offline clears the map.
func (s *RideService) SetOnline(ctx context.Context, online bool) (ride.Session, error) {
	return s.dispatch(ride.OnlineToggled{Online: online, Spot: campus.OnlineSpot})
}

// AcceptRequest takes a pending passenger request and starts driving to the
// pickup point.
func (s *RideService) AcceptRequest(ctx context.Context, requestID string) (ride.Session, error) {
	req, ok := campus.FindRequest(requestID)
	if !ok {
		return s.Current(), ErrUnknownRequest
	}
	return s.dispatch(ride.RequestAccepted{
		RideID:  uuid.New().String(),
		Request: req,
		Start:   campus.AcceptStart,
	})
}

// PendingRequests lists the requests shown on the rider desk. Nothing is
// listed while offline; the request being served is left out.
func (s *RideService) PendingRequests() []domain.RideRequest {
	sess := s.Current()
	if sess.Role != domain.RoleRider || !sess.Online {
		return []domain.RideRequest{}
	}
	all := campus.PendingRequests()
	out := make([]domain.RideRequest, 0, len(all))
	for _, r := range all {
		if sess.Request != nil && sess.Request.ID == r.ID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RiderStats returns earnings and trip count for the rider desk.
func (s *RideService) RiderStats() RiderStats {
	st := s.profile.State()
	return RiderStats{
		Online:    s.Current().Online,
		Earnings:  st.RiderEarnings,
		TripCount: st.RiderTripCount,
		Rating:    LocalRating,
	}
}
