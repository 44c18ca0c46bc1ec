package domain

import "time"

// RideHistoryEntry is a snapshot captured when a finished ride is dismissed.
type RideHistoryEntry struct {
	ID            string    `json:"id"`
	Role          Role      `json:"role"`
	PassengerName string    `json:"passenger_name,omitempty"`
	RiderName     string    `json:"rider_name,omitempty"`
	FromName      string    `json:"from_name"`
	ToName        string    `json:"to_name"`
	Fare          float64   `json:"fare"`
	Rating        int       `json:"rating,omitempty"`
	Feedback      string    `json:"feedback,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Receipt represents a ride receipt.
type Receipt struct {
	ID            string    `json:"id"`
	RideID        string    `json:"ride_id"`
	Role          Role      `json:"role"`
	FromName      string    `json:"from_name"`
	ToName        string    `json:"to_name"`
	Distance      float64   `json:"distance_km"`
	Fare          float64   `json:"fare"`
	TransactionID string    `json:"transaction_id,omitempty"`
	BookedAt      time.Time `json:"booked_at"`
	CompletedAt   time.Time `json:"completed_at"`
	CreatedAt     time.Time `json:"created_at"`
}
