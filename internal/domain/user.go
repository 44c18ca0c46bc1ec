package domain

// UserProfile is the view of the single local user.
type UserProfile struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	College                string  `json:"college"`
	Role                   Role    `json:"role,omitempty"`
	Balance                float64 `json:"balance"`
	Rating                 float64 `json:"rating"`
	HasCompletedOnboarding bool    `json:"has_completed_onboarding"`
	AvatarURL              string  `json:"avatar_url,omitempty"`
	BikeModel              string  `json:"bike_model,omitempty"`
	PlateNumber            string  `json:"plate_number,omitempty"`
}
