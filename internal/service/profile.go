package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"campusride/internal/campus"
	"campusride/internal/domain"
	"campusride/internal/observability"
	"campusride/internal/repository"
)

// Identity of the single local user.
const (
	LocalUserID  = "u123"
	LocalName    = "Rahul Kapoor"
	LocalCollege = "IIT Delhi"
	LocalRating  = 4.9
)

// ProfileService owns the persisted session-state record. Every mutation goes
// through Update, which is the single load/save boundary.
type ProfileService struct {
	repo   repository.SessionRepository
	userID string
	logger *slog.Logger

	// saveMu is held from commit through Save so records reach the store
	// in commit order. Reads only take mu.
	saveMu sync.Mutex
	mu     sync.Mutex
	state  *domain.SessionState
}

// NewProfileService loads the stored state for userID. A missing or corrupt
// record starts from defaults; neither is fatal.
func NewProfileService(ctx context.Context, repo repository.SessionRepository, userID string, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ProfileService{repo: repo, userID: userID, logger: logger}

	state, err := repo.Load(ctx, userID)
	switch {
	case err == nil:
		normalize(state)
		s.state = state
	case errors.Is(err, repository.ErrNotFound):
		s.state = domain.DefaultSessionState()
	case errors.Is(err, repository.ErrCorruptState):
		logger.Warn("stored session state is corrupt, starting from defaults", slog.String("user_id", userID), slog.Any("error", err))
		s.state = domain.DefaultSessionState()
	default:
		logger.Error("failed to load session state, starting from defaults", slog.String("user_id", userID), slog.Any("error", err))
		s.state = domain.DefaultSessionState()
	}
	observability.WalletBalance.Set(s.state.Balance)
	return s
}

// normalize fills slices that an older or partial record left out.
func normalize(state *domain.SessionState) {
	if state.Transactions == nil {
		state.Transactions = []domain.Transaction{}
	}
	if state.RideHistory == nil {
		state.RideHistory = []domain.RideHistoryEntry{}
	}
	if state.Role != "" && !state.Role.Valid() {
		state.Role = ""
	}
}

// UserID returns the ID of the local user.
func (s *ProfileService) UserID() string {
	return s.userID
}

// State returns a copy of the current session state.
func (s *ProfileService) State() *domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Update applies fn to a copy of the state and commits it if fn succeeds.
// The committed state is saved once; a failed save is logged and counted but
// the in-memory state stays authoritative. fn must not call Update.
func (s *ProfileService) Update(ctx context.Context, fn func(state *domain.SessionState) error) (*domain.SessionState, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	next := s.state.Clone()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.state = next
	snapshot := next.Clone()
	s.mu.Unlock()

	observability.WalletBalance.Set(snapshot.Balance)
	if err := s.repo.Save(ctx, s.userID, snapshot); err != nil {
		observability.PersistErrorsTotal.Inc()
		s.logger.Error("failed to persist session state", slog.String("user_id", s.userID), slog.Any("error", err))
	}
	return snapshot.Clone(), nil
}

// Profile renders the user profile view.
func (s *ProfileService) Profile() domain.UserProfile {
	st := s.State()
	avatar := st.AvatarURL
	if avatar == "" {
		avatar = campus.DefaultAvatarURL(s.userID)
	}
	return domain.UserProfile{
		ID:                     s.userID,
		Name:                   LocalName,
		College:                LocalCollege,
		Role:                   st.Role,
		Balance:                st.Balance,
		Rating:                 LocalRating,
		HasCompletedOnboarding: st.Onboarded,
		AvatarURL:              avatar,
		BikeModel:              st.BikeModel,
		PlateNumber:            st.PlateNumber,
	}
}

// SetRole persists the selected role. An empty role signs the user out.
func (s *ProfileService) SetRole(ctx context.Context, role domain.Role) error {
	_, err := s.Update(ctx, func(st *domain.SessionState) error {
		st.Role = role
		return nil
	})
	return err
}
