package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"campusride/internal/clock"
	"campusride/internal/domain"
	"campusride/internal/onboarding"
	"campusride/internal/ride"
)

// OnboardingTimings holds the simulated delays of the onboarding wizard.
type OnboardingTimings struct {
	PhotoUpload  time.Duration
	DocumentScan time.Duration
	ScanConfirm  time.Duration
}

// DefaultOnboardingTimings returns the default wizard delays.
func DefaultOnboardingTimings() OnboardingTimings {
	return OnboardingTimings{
		PhotoUpload:  800 * time.Millisecond,
		DocumentScan: 2500 * time.Millisecond,
		ScanConfirm:  1200 * time.Millisecond,
	}
}

// OnboardingService runs the rider onboarding wizard for the local user.
type OnboardingService struct {
	profile  *ProfileService
	rides    *RideService
	notifier *NotificationService
	clock    clock.Clock
	logger   *slog.Logger
	timings  OnboardingTimings

	mu     sync.Mutex
	wizard *onboarding.Wizard
	gen    uint64
}

// NewOnboardingService creates a new onboarding service.
func NewOnboardingService(
	profile *ProfileService,
	rides *RideService,
	notifier *NotificationService,
	clk clock.Clock,
	timings OnboardingTimings,
	logger *slog.Logger,
) *OnboardingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnboardingService{
		profile:  profile,
		rides:    rides,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
		timings:  timings,
	}
}

// Start opens a fresh wizard on step 1.
func (s *OnboardingService) Start() (*onboarding.Wizard, error) {
	if s.profile.State().Onboarded {
		return nil, ErrAlreadyOnboarded
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.wizard = onboarding.New()
	return s.wizard.Clone(), nil
}

// Get returns the running wizard.
func (s *OnboardingService) Get() (*onboarding.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wizard == nil {
		return nil, ErrOnboardingNotStarted
	}
	return s.wizard.Clone(), nil
}

// SetVehicle records bike model and plate number on step 1.
func (s *OnboardingService) SetVehicle(bikeModel, plateNumber string) (*onboarding.Wizard, error) {
	return s.mutate(func(w *onboarding.Wizard) error {
		return w.SetVehicle(bikeModel, plateNumber)
	})
}

// PickAvatar selects a stock avatar on step 2.
func (s *OnboardingService) PickAvatar(avatarID string) (*onboarding.Wizard, error) {
	return s.mutate(func(w *onboarding.Wizard) error {
		return w.PickAvatar(avatarID)
	})
}

// UploadPhoto stores a captured photo reference after the upload delay.
func (s *OnboardingService) UploadPhoto(ref string) (*onboarding.Wizard, error) {
	if ref == "" {
		return nil, onboarding.ErrEmptyPhoto
	}
	w, err := s.mutate(func(w *onboarding.Wizard) error {
		return w.BeginUpload()
	})
	if err != nil {
		return nil, err
	}
	s.schedule(s.generation(), s.timings.PhotoUpload, func(w *onboarding.Wizard) {
		if err := w.FinishUpload(ref); err != nil {
			s.logger.Warn("photo upload dropped", slog.Any("error", err))
		}
	})
	return w, nil
}

// VerifyDocument starts the licence scan. Once the scan finishes the wizard
// waits for the confirmation delay and then advances to the rules step. An
// already verified licence advances immediately.
func (s *OnboardingService) VerifyDocument() (*onboarding.Wizard, error) {
	var verified bool
	w, err := s.mutate(func(w *onboarding.Wizard) error {
		var err error
		verified, err = w.BeginScan()
		return err
	})
	if err != nil || verified {
		return w, err
	}

	gen := s.generation()
	s.schedule(gen, s.timings.DocumentScan, func(w *onboarding.Wizard) {
		if err := w.FinishScan(); err != nil {
			return
		}
		s.schedule(gen, s.timings.ScanConfirm, func(w *onboarding.Wizard) {
			if w.Step == onboarding.StepDocument {
				_ = w.Next()
			}
		})
	})
	return w, nil
}

// Next advances one step.
func (s *OnboardingService) Next() (*onboarding.Wizard, error) {
	return s.mutate(func(w *onboarding.Wizard) error {
		return w.Next()
	})
}

// Back returns to the previous step.
func (s *OnboardingService) Back() (*onboarding.Wizard, error) {
	return s.mutate(func(w *onboarding.Wizard) error {
		return w.Back()
	})
}

// Cancel discards the wizard and any pending upload or scan.
func (s *OnboardingService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.wizard = nil
}

// Complete commits the wizard on the final step and switches to the rider role.
func (s *OnboardingService) Complete(ctx context.Context) (domain.UserProfile, error) {
	if s.rides.Current().Active() {
		return domain.UserProfile{}, ride.ErrRideActive
	}

	s.mu.Lock()
	if s.wizard == nil {
		s.mu.Unlock()
		return domain.UserProfile{}, ErrOnboardingNotStarted
	}
	details, err := s.wizard.Finish()
	if err != nil {
		s.mu.Unlock()
		return domain.UserProfile{}, err
	}
	s.gen++
	s.wizard = nil
	s.mu.Unlock()

	if _, err := s.profile.Update(ctx, func(st *domain.SessionState) error {
		st.BikeModel = details.BikeModel
		st.PlateNumber = details.PlateNumber
		if details.AvatarURL != "" {
			st.AvatarURL = details.AvatarURL
		}
		st.Onboarded = true
		return nil
	}); err != nil {
		return domain.UserProfile{}, err
	}

	if _, err := s.rides.SelectRole(ctx, domain.RoleRider); err != nil {
		return domain.UserProfile{}, err
	}

	s.logger.Info("rider onboarding completed",
		slog.String("user_id", s.profile.UserID()),
		slog.String("bike_model", details.BikeModel),
	)
	if s.notifier != nil {
		_ = s.notifier.NotifyRiderOnboarded(ctx, details.BikeModel, details.PlateNumber)
	}
	return s.profile.Profile(), nil
}

func (s *OnboardingService) mutate(fn func(w *onboarding.Wizard) error) (*onboarding.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wizard == nil {
		return nil, ErrOnboardingNotStarted
	}
	if err := fn(s.wizard); err != nil {
		return s.wizard.Clone(), err
	}
	return s.wizard.Clone(), nil
}

func (s *OnboardingService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// schedule runs fn against the wizard after d, unless the wizard was
// replaced, cancelled or completed since gen. fn runs with the lock held.
func (s *OnboardingService) schedule(gen uint64, d time.Duration, fn func(w *onboarding.Wizard)) {
	s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen || s.wizard == nil {
			return
		}
		fn(s.wizard)
	})
}
