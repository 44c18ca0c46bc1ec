package ride

import "errors"

var (
	// ErrInsufficientBalance is returned when the wallet cannot cover the fare.
	ErrInsufficientBalance = errors.New("insufficient balance, please top up your wallet")

	// ErrRouteIncomplete is returned when booking without both endpoints.
	ErrRouteIncomplete = errors.New("pickup and drop-off must both be selected")

	// ErrSameEndpoints is returned when pickup and drop-off are the same point.
	ErrSameEndpoints = errors.New("pickup and drop-off must differ")

	// ErrFareUnavailable is returned when booking before a fare was quoted.
	ErrFareUnavailable = errors.New("fare estimate not available yet")

	// ErrWrongRole is returned when an action belongs to the other role.
	ErrWrongRole = errors.New("action not available for current role")

	// ErrRideActive is returned when an action needs an idle session.
	ErrRideActive = errors.New("a ride is already active")

	// ErrCannotCancel is returned when cancelling outside searching/accepted.
	ErrCannotCancel = errors.New("ride cannot be cancelled in current state")

	// ErrInvalidTransition is returned when an event does not apply to the current status.
	ErrInvalidTransition = errors.New("invalid ride state transition")

	// ErrRiderOffline is returned when accepting a request while offline.
	ErrRiderOffline = errors.New("rider is offline")
)
