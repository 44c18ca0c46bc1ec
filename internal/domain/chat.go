package domain

import "time"

// ChatMessage is a message exchanged during the active ride.
type ChatMessage struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	SenderID   string    `json:"sender_id"`
	SenderRole Role      `json:"sender_role"`
	CreatedAt  time.Time `json:"created_at"`
}
