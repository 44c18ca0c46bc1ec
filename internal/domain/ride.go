package domain

// RideStatus represents the current status of the active ride.
type RideStatus string

const (
	RideStatusIdle       RideStatus = "IDLE"
	RideStatusSearching  RideStatus = "SEARCHING"
	RideStatusAccepted   RideStatus = "ACCEPTED"
	RideStatusArrived    RideStatus = "ARRIVED"
	RideStatusInProgress RideStatus = "IN_PROGRESS"
	RideStatusCompleted  RideStatus = "COMPLETED"
)

// Role is the side of the marketplace the user is acting on.
type Role string

const (
	RolePassenger Role = "PASSENGER"
	RoleRider     Role = "RIDER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePassenger || r == RoleRider
}

// Counterpart returns the opposite role.
func (r Role) Counterpart() Role {
	if r == RoleRider {
		return RolePassenger
	}
	return RoleRider
}

// RideRequest is a pending passenger request shown on the rider desk.
type RideRequest struct {
	ID            string   `json:"id"`
	PassengerName string   `json:"passenger_name"`
	From          Location `json:"from"`
	To            Location `json:"to"`
	Fare          float64  `json:"fare"`
	Rating        float64  `json:"rating"`
}

// RiderInfo describes the rider assigned to a passenger's ride.
type RiderInfo struct {
	Name   string  `json:"name"`
	Bike   string  `json:"bike"`
	Plate  string  `json:"plate"`
	Rating float64 `json:"rating"`
}
