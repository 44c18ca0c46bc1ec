package domain

// DefaultBalance is the wallet seed used when nothing has been persisted yet.
const DefaultBalance = 250.0

// SessionState is the persisted record for the local user.
// A missing field decodes to its zero value; Balance is seeded by DefaultSessionState.
type SessionState struct {
	Role           Role               `json:"role,omitempty"`
	Balance        float64            `json:"balance"`
	Transactions   []Transaction      `json:"transactions"`
	RiderEarnings  float64            `json:"rider_earnings"`
	RiderTripCount int                `json:"rider_trip_count"`
	Onboarded      bool               `json:"onboarded"`
	RideHistory    []RideHistoryEntry `json:"ride_history"`
	AvatarURL      string             `json:"avatar_url,omitempty"`
	BikeModel      string             `json:"bike_model,omitempty"`
	PlateNumber    string             `json:"plate_number,omitempty"`
}

// DefaultSessionState returns the state of a user who never used the app.
func DefaultSessionState() *SessionState {
	return &SessionState{
		Balance:      DefaultBalance,
		Transactions: []Transaction{},
		RideHistory:  []RideHistoryEntry{},
	}
}

// Clone returns a deep copy so callers never share slices with the owner.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	c := *s
	c.Transactions = make([]Transaction, len(s.Transactions))
	copy(c.Transactions, s.Transactions)
	c.RideHistory = make([]RideHistoryEntry, len(s.RideHistory))
	copy(c.RideHistory, s.RideHistory)
	return &c
}
