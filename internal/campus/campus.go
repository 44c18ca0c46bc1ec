// Package campus holds the static campus data: map points, the rider desk
// request queue, the rider assigned to passengers and stock avatars.
package campus

import (
	"strings"

	"campusride/internal/domain"
)

// Pricing used by the scripted fare estimator.
const (
	BasePrice        = 10.0
	PricePerDistance = 0.5
)

// Fixed map positions used by the ride simulation.
var (
	// MatchStart is where the assigned rider appears for a passenger ride.
	MatchStart = domain.Point{X: 10, Y: 10}
	// AcceptStart is where the local rider starts after accepting a request.
	AcceptStart = domain.Point{X: 50, Y: 50}
	// OnlineSpot is where an idle rider is parked after going online.
	OnlineSpot = domain.Point{X: 25, Y: 25}
)

var locations = []domain.Location{
	{ID: "1", Name: "Main Library", Coords: domain.Point{X: 20, Y: 30}, IsPopular: true, TrafficLevel: domain.TrafficHigh},
	{ID: "2", Name: "Boys Hostel A", Coords: domain.Point{X: 80, Y: 15}, IsPopular: true, TrafficLevel: domain.TrafficMedium},
	{ID: "3", Name: "Girls Hostel B", Coords: domain.Point{X: 75, Y: 70}, IsPopular: true, TrafficLevel: domain.TrafficMedium},
	{ID: "4", Name: "Academic Block 1", Coords: domain.Point{X: 40, Y: 50}, TrafficLevel: domain.TrafficHigh},
	{ID: "5", Name: "Canteen / Food Court", Coords: domain.Point{X: 55, Y: 40}, IsPopular: true, TrafficLevel: domain.TrafficHigh},
	{ID: "6", Name: "Sports Complex", Coords: domain.Point{X: 15, Y: 80}, TrafficLevel: domain.TrafficLow},
	{ID: "7", Name: "Auditorium", Coords: domain.Point{X: 45, Y: 20}, TrafficLevel: domain.TrafficMedium},
	{ID: "8", Name: "Main Gate", Coords: domain.Point{X: 10, Y: 10}, TrafficLevel: domain.TrafficMedium},
}

var requests = []domain.RideRequest{
	{ID: "req1", PassengerName: "Priya S.", From: locations[2], To: locations[3], Fare: 35, Rating: 5.0},
	{ID: "req2", PassengerName: "Vikram K.", From: locations[5], To: locations[4], Fare: 28, Rating: 4.7},
	{ID: "req3", PassengerName: "Sneha L.", From: locations[7], To: locations[1], Fare: 42, Rating: 4.9},
}

// AssignedRider is the rider matched to every passenger booking.
var AssignedRider = domain.RiderInfo{
	Name:   "Arjun Sharma",
	Bike:   "Activa 6G",
	Plate:  "DL 3S AB 1234",
	Rating: 4.8,
}

// Avatar is a selectable stock profile picture.
type Avatar struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

var avatars = []Avatar{
	{ID: "av1", URL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Felix"},
	{ID: "av2", URL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Aneka"},
	{ID: "av3", URL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Tigger"},
	{ID: "av4", URL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Scooter"},
	{ID: "av5", URL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Buster"},
	{ID: "av6", URL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Jack"},
}

// Locations returns a copy of the campus points.
func Locations() []domain.Location {
	return append([]domain.Location(nil), locations...)
}

// FindLocation looks a point up by ID.
func FindLocation(id string) (domain.Location, bool) {
	for _, l := range locations {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Location{}, false
}

// FindLocationByName looks a point up by display name, ignoring case.
func FindLocationByName(name string) (domain.Location, bool) {
	for _, l := range locations {
		if strings.EqualFold(l.Name, strings.TrimSpace(name)) {
			return l, true
		}
	}
	return domain.Location{}, false
}

// PendingRequests returns the requests waiting on the rider desk.
func PendingRequests() []domain.RideRequest {
	return append([]domain.RideRequest(nil), requests...)
}

// FindRequest looks a pending request up by ID.
func FindRequest(id string) (domain.RideRequest, bool) {
	for _, r := range requests {
		if r.ID == id {
			return r, true
		}
	}
	return domain.RideRequest{}, false
}

// Avatars returns the stock avatar list.
func Avatars() []Avatar {
	return append([]Avatar(nil), avatars...)
}

// FindAvatar looks a stock avatar up by ID.
func FindAvatar(id string) (Avatar, bool) {
	for _, a := range avatars {
		if a.ID == id {
			return a, true
		}
	}
	return Avatar{}, false
}

// DefaultAvatarURL is the generated avatar shown when none was chosen.
func DefaultAvatarURL(userID string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + userID
}
