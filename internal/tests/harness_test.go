package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"campusride/internal/clock"
	"campusride/internal/domain"
	"campusride/internal/logging"
	"campusride/internal/service"
)

// harness wires the services against a fake clock. Background work runs
// synchronously so each call returns with its side effects applied.
type harness struct {
	t          *testing.T
	ctx        context.Context
	clock      *clock.Fake
	repo       *MockSessionRepository
	assistant  *MockAssistant
	publisher  *MockPublisher
	profile    *service.ProfileService
	wallet     *service.WalletService
	chat       *service.ChatService
	receipts   *service.ReceiptService
	history    *service.HistoryService
	rides      *service.RideService
	onboarding *service.OnboardingService
	jobs       *jobQueue
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	state     *domain.SessionState
	fare      float64
	deferJobs bool
}

func withState(st *domain.SessionState) harnessOption {
	return func(c *harnessConfig) { c.state = st }
}

func withFare(fare float64) harnessOption {
	return func(c *harnessConfig) { c.fare = fare }
}

// withDeferredJobs queues the ride engine's background work until
// h.jobs.drain is called.
func withDeferredJobs() harnessOption {
	return func(c *harnessConfig) { c.deferJobs = true }
}

func syncSpawn(f func()) { f() }

// jobQueue holds spawned work so a test can run it later.
type jobQueue struct {
	mu   sync.Mutex
	jobs []func()
}

func (q *jobQueue) spawn(f func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, f)
}

func (q *jobQueue) drain() {
	for {
		q.mu.Lock()
		jobs := q.jobs
		q.jobs = nil
		q.mu.Unlock()
		if len(jobs) == 0 {
			return
		}
		for _, job := range jobs {
			job()
		}
	}
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	cfg := harnessConfig{fare: 35}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := context.Background()
	clk := clock.NewFake(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	logger := logging.Discard()

	repo := NewMockSessionRepository()
	if cfg.state != nil {
		repo.AddState(service.LocalUserID, cfg.state)
	}
	asst := NewMockAssistant(cfg.fare, 1.5)
	pub := NewMockPublisher()

	notifier := service.NewNotificationService(service.LocalUserID, pub, clk, logger)
	profile := service.NewProfileService(ctx, repo, service.LocalUserID, logger)
	wallet := service.NewWalletService(profile, notifier, clk, logger)
	chat := service.NewChatService(asst, clk, syncSpawn, service.LocalUserID, service.ChatConfig{}, logger)
	receipts := service.NewReceiptService(notifier, clk)
	spawn := syncSpawn
	var jobs *jobQueue
	if cfg.deferJobs {
		jobs = &jobQueue{}
		spawn = jobs.spawn
	}
	rides := service.NewRideService(service.RideServiceDeps{
		Profile:   profile,
		Wallet:    wallet,
		Chat:      chat,
		Receipts:  receipts,
		Notifier:  notifier,
		Assistant: asst,
		Clock:     clk,
		Spawn:     spawn,
		Logger:    logger,
		Timings:   service.DefaultRideTimings(),
	})
	t.Cleanup(rides.Close)

	return &harness{
		t:          t,
		ctx:        ctx,
		clock:      clk,
		repo:       repo,
		assistant:  asst,
		publisher:  pub,
		profile:    profile,
		wallet:     wallet,
		chat:       chat,
		receipts:   receipts,
		history:    service.NewHistoryService(profile),
		rides:      rides,
		onboarding: service.NewOnboardingService(profile, rides, notifier, clk, service.DefaultOnboardingTimings(), logger),
		jobs:       jobs,
	}
}

func onboardedRider() *domain.SessionState {
	st := domain.DefaultSessionState()
	st.Role = domain.RoleRider
	st.Onboarded = true
	st.BikeModel = "Splendor Plus"
	st.PlateNumber = "DL 8S 4321"
	return st
}

func (h *harness) mustSelectRole(role domain.Role) {
	h.t.Helper()
	if _, err := h.rides.SelectRole(h.ctx, role); err != nil {
		h.t.Fatalf("select role %s: %v", role, err)
	}
}

func (h *harness) mustRoute(fromID, toID string) {
	h.t.Helper()
	if _, err := h.rides.SelectRoute(h.ctx, fromID, toID); err != nil {
		h.t.Fatalf("select route %s→%s: %v", fromID, toID, err)
	}
}

func (h *harness) mustBook() {
	h.t.Helper()
	if _, err := h.rides.Book(h.ctx); err != nil {
		h.t.Fatalf("book: %v", err)
	}
}

// advanceUntil moves the clock tick by tick until the ride reaches status.
func (h *harness) advanceUntil(status domain.RideStatus) {
	h.t.Helper()
	for i := 0; i < 500; i++ {
		if h.rides.Current().Status == status {
			return
		}
		h.clock.Advance(250 * time.Millisecond)
	}
	h.t.Fatalf("ride never reached %s, stuck in %s", status, h.rides.Current().Status)
}

func (h *harness) status() domain.RideStatus {
	return h.rides.Current().Status
}
