package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"campusride/internal/domain"
	"campusride/internal/repository"
)

// SessionRepository is a PostgreSQL implementation of repository.SessionRepository.
// Each user has one row holding the session record as JSONB.
type SessionRepository struct {
	q Querier
}

// NewSessionRepository creates a new PostgreSQL session repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{q: db}
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

// EnsureSchema creates the session table if it does not exist.
func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	return Migrate(ctx, r.q)
}

// Load retrieves the session record for userID.
func (r *SessionRepository) Load(ctx context.Context, userID string) (*domain.SessionState, error) {
	query := `SELECT state FROM session_states WHERE user_id = $1`

	var raw []byte
	err := r.q.QueryRowContext(ctx, query, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var state domain.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrCorruptState, err)
	}
	return &state, nil
}

// Save upserts the session record for userID.
func (r *SessionRepository) Save(ctx context.Context, userID string, state *domain.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}

	query := `
		INSERT INTO session_states (user_id, state, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()
	`
	_, err = r.q.ExecContext(ctx, query, userID, raw)
	return err
}
