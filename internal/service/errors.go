package service

import "errors"

var (
	// ErrOnboardingRequired is returned when switching to rider before onboarding.
	ErrOnboardingRequired = errors.New("complete rider onboarding first")

	// ErrInvalidRole is returned when the requested role is unknown.
	ErrInvalidRole = errors.New("invalid role")

	// ErrUnknownLocation is returned when a location ID is not on the campus map.
	ErrUnknownLocation = errors.New("unknown campus location")

	// ErrUnknownRequest is returned when a pending request ID does not exist.
	ErrUnknownRequest = errors.New("unknown ride request")

	// ErrRatingRequired is returned when a rider finishes without rating the passenger.
	ErrRatingRequired = errors.New("rate the passenger before finishing")

	// ErrInvalidRating is returned when a rating is outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrNoActiveRide is returned when chatting without a ride in progress.
	ErrNoActiveRide = errors.New("no active ride")

	// ErrEmptyMessage is returned when sending a blank chat message.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrInvalidTransactionAmount is returned for a zero wallet posting.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrReceiptNotFound is returned when no receipt exists for a ride.
	ErrReceiptNotFound = errors.New("receipt not found")

	// ErrOnboardingNotStarted is returned when driving the wizard before starting it.
	ErrOnboardingNotStarted = errors.New("onboarding has not been started")

	// ErrAlreadyOnboarded is returned when starting onboarding a second time.
	ErrAlreadyOnboarded = errors.New("rider onboarding already completed")
)
