package repository

import (
	"context"

	"campusride/internal/domain"
)

// SessionRepository persists the session-state record of a user.
type SessionRepository interface {
	// Load returns the stored state for userID.
	// Returns ErrNotFound if nothing was saved yet and ErrCorruptState if the
	// stored record cannot be decoded.
	Load(ctx context.Context, userID string) (*domain.SessionState, error)

	// Save replaces the stored state for userID.
	Save(ctx context.Context, userID string, state *domain.SessionState) error
}
