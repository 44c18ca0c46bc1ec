package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusride/internal/assistant"
	"campusride/internal/campus"
	"campusride/internal/clock"
	"campusride/internal/domain"
	"campusride/internal/observability"
	"campusride/internal/ride"
)

// RideTimings holds the simulated delays of the ride lifecycle.
type RideTimings struct {
	MatchDelay   time.Duration
	TickInterval time.Duration
}

// DefaultRideTimings returns the default matching delay and animation tick.
func DefaultRideTimings() RideTimings {
	return RideTimings{
		MatchDelay:   4 * time.Second,
		TickInterval: 500 * time.Millisecond,
	}
}

// timerSlot holds the single live timer of one kind. Each arm bumps seq so a
// callback that was already running when it got replaced does nothing.
type timerSlot struct {
	seq   uint64
	timer clock.Timer
}

// RideServiceDeps contains the collaborators of the ride engine.
type RideServiceDeps struct {
	Profile   *ProfileService
	Wallet    *WalletService
	Chat      *ChatService
	Receipts  *ReceiptService
	Notifier  *NotificationService
	Assistant assistant.Assistant
	Clock     clock.Clock
	Spawn     func(func()) // runs work outside the engine lock; nil means `go f()`
	Logger    *slog.Logger
	Timings   RideTimings
}

// RideService drives the ride session of the local user. All state changes go
// through ride.Apply under one mutex; timer callbacks take the same mutex.
// Assistant calls, settlement, persistence and notifications run after the
// mutex is released.
type RideService struct {
	profile   *ProfileService
	wallet    *WalletService
	chat      *ChatService
	receipts  *ReceiptService
	notifier  *NotificationService
	assistant assistant.Assistant
	clock     clock.Clock
	spawn     func(func())
	logger    *slog.Logger
	timings   RideTimings

	mu       sync.Mutex
	session  ride.Session
	match    timerSlot
	motion   timerSlot
	bookedAt time.Time
}

// NewRideService creates the engine with an idle session for the persisted role.
func NewRideService(deps RideServiceDeps) *RideService {
	if deps.Spawn == nil {
		deps.Spawn = func(f func()) { go f() }
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Timings.MatchDelay <= 0 || deps.Timings.TickInterval <= 0 {
		deps.Timings = DefaultRideTimings()
	}
	return &RideService{
		profile:   deps.Profile,
		wallet:    deps.Wallet,
		chat:      deps.Chat,
		receipts:  deps.Receipts,
		notifier:  deps.Notifier,
		assistant: deps.Assistant,
		clock:     deps.Clock,
		spawn:     deps.Spawn,
		logger:    deps.Logger,
		timings:   deps.Timings,
		session:   ride.NewSession(deps.Profile.State().Role),
	}
}

// Current returns the current ride session.
func (s *RideService) Current() ride.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// SelectRole switches role. Only allowed while idle; rider needs onboarding.
// An empty role signs the user out.
func (s *RideService) SelectRole(ctx context.Context, role domain.Role) (ride.Session, error) {
	if role != "" && !role.Valid() {
		return ride.Session{}, ErrInvalidRole
	}
	if role == domain.RoleRider && !s.profile.State().Onboarded {
		return ride.Session{}, ErrOnboardingRequired
	}

	sess, err := s.dispatch(ride.RoleSelected{Role: role})
	if err != nil {
		return sess, err
	}
	if err := s.profile.SetRole(ctx, role); err != nil {
		return sess, err
	}
	return sess, nil
}

// SignOut clears the role.
func (s *RideService) SignOut(ctx context.Context) error {
	_, err := s.SelectRole(ctx, "")
	return err
}

// SelectRoute sets pickup and drop-off by location ID and quotes the fare.
// The estimator is called outside the engine lock; if the route changed in
// the meantime the stale quote is discarded.
func (s *RideService) SelectRoute(ctx context.Context, fromID, toID string) (ride.Session, error) {
	from, ok := campus.FindLocation(fromID)
	if !ok {
		return ride.Session{}, ErrUnknownLocation
	}
	to, ok := campus.FindLocation(toID)
	if !ok {
		return ride.Session{}, ErrUnknownLocation
	}

	if _, err := s.dispatch(ride.RouteSelected{From: from, To: to}); err != nil {
		return s.Current(), err
	}

	est, err := s.assistant.FareEstimate(ctx, from.Name, to.Name)
	if err != nil || est.Fare <= 0 {
		est = assistant.FallbackEstimate
	}

	sess, err := s.dispatch(ride.FareQuoted{From: from.ID, To: to.ID, Fare: est.Fare, DistanceKm: est.DistanceKm})
	if err != nil {
		s.logger.Debug("discarding stale fare quote", slog.String("from", from.ID), slog.String("to", to.ID))
		return s.Current(), nil
	}
	return sess, nil
}

// Book requests a ride for the selected route. Booking again while searching
// restarts the matching delay.
func (s *RideService) Book(ctx context.Context) (ride.Session, error) {
	balance := s.profile.State().Balance
	sess, err := s.dispatch(ride.BookRequested{RideID: uuid.New().String(), Balance: balance})
	if err != nil {
		observability.BookingsRejected.WithLabelValues(rejectReason(err)).Inc()
		return sess, err
	}
	return sess, nil
}

// Cancel abandons a searching or accepted ride.
func (s *RideService) Cancel(ctx context.Context) (ride.Session, error) {
	return s.dispatch(ride.Cancelled{})
}

// Board starts the trip once the rider has arrived.
func (s *RideService) Board(ctx context.Context) (ride.Session, error) {
	return s.dispatch(ride.Boarded{})
}

// FinishRequest contains the rating given when closing a completed ride.
type FinishRequest struct {
	Rating   int
	Feedback string
}

// Finish closes a completed ride and appends it to the ride history. Riders
// must rate the passenger; for passengers the rating is optional. The ride's
// settlement is posted before the session goes idle, so a booking made right
// after Finish sees the settled balance.
func (s *RideService) Finish(ctx context.Context, req FinishRequest) (ride.Session, error) {
	sess := s.Current()
	if sess.Status != domain.RideStatusCompleted {
		return sess, ride.ErrInvalidTransition
	}
	if req.Rating == 0 && sess.Role == domain.RoleRider {
		return sess, ErrRatingRequired
	}
	if req.Rating != 0 && (req.Rating < 1 || req.Rating > 5) {
		return sess, ErrInvalidRating
	}

	if sess.Settled {
		settle := ride.SettlementFor(sess)
		if _, err := s.wallet.SettleRide(ctx, SettleRideRequest{
			RideID:      settle.RideID,
			Role:        settle.Role,
			Fare:        settle.Fare,
			Description: settle.Description,
		}); err != nil {
			return sess, err
		}
	}

	s.mu.Lock()
	if s.session.Status != domain.RideStatusCompleted || s.session.ID != sess.ID {
		after := s.session
		s.mu.Unlock()
		return after, ride.ErrInvalidTransition
	}
	entry := s.historyEntry(s.session, req)
	jobs, err := s.applyLocked(ride.Dismissed{ParkAt: campus.AcceptStart})
	after := s.session
	s.mu.Unlock()
	if err != nil {
		return after, err
	}
	s.run(jobs)

	if _, err := s.profile.Update(ctx, func(st *domain.SessionState) error {
		st.RideHistory = append([]domain.RideHistoryEntry{entry}, st.RideHistory...)
		return nil
	}); err != nil {
		return after, err
	}
	return after, nil
}

func (s *RideService) historyEntry(sess ride.Session, req FinishRequest) domain.RideHistoryEntry {
	entry := domain.RideHistoryEntry{
		ID:        uuid.New().String(),
		Role:      sess.Role,
		FromName:  "Unknown",
		ToName:    "Unknown",
		Fare:      sess.Fare,
		Rating:    req.Rating,
		Feedback:  strings.TrimSpace(req.Feedback),
		CreatedAt: s.clock.Now(),
	}
	if sess.From != nil {
		entry.FromName = sess.From.Name
	}
	if sess.To != nil {
		entry.ToName = sess.To.Name
	}
	if sess.Request != nil {
		entry.PassengerName = sess.Request.PassengerName
	}
	if sess.Rider != nil {
		entry.RiderName = sess.Rider.Name
	}
	return entry
}

// SendChat posts a chat message on the current ride.
func (s *RideService) SendChat(ctx context.Context, text string) (*domain.ChatMessage, error) {
	sess := s.Current()
	if !sess.Active() || sess.Status == domain.RideStatusSearching {
		return nil, ErrNoActiveRide
	}
	return s.chat.Send(ctx, sess.ID, text, sess.Role, sess.Counterpart())
}

// Close stops all live timers.
func (s *RideService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarm(&s.match)
	s.disarm(&s.motion)
}

// dispatch applies ev under the lock and runs the resulting jobs after it.
func (s *RideService) dispatch(ev ride.Event) (ride.Session, error) {
	s.mu.Lock()
	jobs, err := s.applyLocked(ev)
	sess := s.session
	s.mu.Unlock()
	if err != nil {
		return sess, err
	}
	s.run(jobs)
	return sess, nil
}

// applyLocked runs ev through the aggregate and carries out the effects that
// only touch in-memory state. Work that must not hold the lock is returned.
func (s *RideService) applyLocked(ev ride.Event) ([]func(), error) {
	prev := s.session
	next, effects, err := ride.Apply(prev, ev)
	if err != nil {
		return nil, err
	}
	s.session = next

	if next.ID != "" && next.ID != prev.ID {
		s.bookedAt = s.clock.Now()
		s.chat.Begin(next.ID)
	}

	var jobs []func()
	for _, eff := range effects {
		switch e := eff.(type) {
		case ride.ArmMatchTimer:
			s.arm(&s.match, s.timings.MatchDelay, s.onMatch)
		case ride.DisarmMatchTimer:
			s.disarm(&s.match)
		case ride.StartMotion:
			s.arm(&s.motion, s.timings.TickInterval, s.onTick)
		case ride.StopMotion:
			s.disarm(&s.motion)
		case ride.Greet:
			s.chat.Greet(e.Text, e.Sender, e.Own, e.Deferred)
		case ride.ClearChat:
			s.chat.Clear()
		case ride.FetchAdvice:
			jobs = append(jobs, s.adviceJob(e))
		case ride.Settle:
			jobs = append(jobs, s.settleJob(e, next, s.bookedAt))
		case ride.StatusChanged:
			snapshot := next
			if next.ID == "" {
				snapshot = prev
			}
			jobs = append(jobs, s.statusJob(e, snapshot))
		}
	}
	return jobs, nil
}

func (s *RideService) run(jobs []func()) {
	for _, job := range jobs {
		s.spawn(job)
	}
}

// arm replaces the timer in slot with one that runs fire under the lock.
func (s *RideService) arm(slot *timerSlot, d time.Duration, fire func() []func()) {
	if slot.timer != nil {
		slot.timer.Stop()
	}
	slot.seq++
	seq := slot.seq
	slot.timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		if slot.seq != seq {
			s.mu.Unlock()
			return
		}
		slot.timer = nil
		jobs := fire()
		s.mu.Unlock()
		s.run(jobs)
	})
}

func (s *RideService) disarm(slot *timerSlot) {
	if slot.timer != nil {
		slot.timer.Stop()
		slot.timer = nil
	}
	slot.seq++
}

func (s *RideService) onMatch() []func() {
	jobs, err := s.applyLocked(ride.MatchFound{Rider: campus.AssignedRider, Start: campus.MatchStart})
	if err != nil {
		s.logger.Debug("match timer fired outside search", slog.Any("error", err))
		return nil
	}
	observability.MatchLatency.Observe(s.clock.Now().Sub(s.bookedAt).Seconds())
	return jobs
}

func (s *RideService) onTick() []func() {
	jobs, err := s.applyLocked(ride.Stepped{})
	if err != nil {
		s.logger.Debug("animation tick without a target", slog.Any("error", err))
		return nil
	}
	return jobs
}

func (s *RideService) adviceJob(e ride.FetchAdvice) func() {
	return func() {
		advice, err := s.assistant.TravelAdvice(context.Background(), e.From, e.To, assistant.DefaultAdviceContext)
		if err != nil || strings.TrimSpace(advice) == "" {
			advice = assistant.FallbackAdvice
		}

		s.mu.Lock()
		_, err = s.applyLocked(ride.AdviceReady{RideID: e.RideID, Advice: advice})
		s.mu.Unlock()
		if err != nil {
			s.logger.Debug("dropping advice for a finished ride", slog.String("ride_id", e.RideID))
		}
	}
}

func (s *RideService) settleJob(e ride.Settle, sess ride.Session, bookedAt time.Time) func() {
	return func() {
		ctx := context.Background()
		tx, err := s.wallet.SettleRide(ctx, SettleRideRequest{
			RideID:      e.RideID,
			Role:        e.Role,
			Fare:        e.Fare,
			Description: e.Description,
		})
		if err != nil {
			s.logger.Error("ride settlement failed", slog.String("ride_id", e.RideID), slog.Any("error", err))
			return
		}
		if s.receipts == nil || sess.From == nil || sess.To == nil {
			return
		}
		if _, err := s.receipts.GenerateReceipt(ctx, GenerateReceiptRequest{
			RideID:      e.RideID,
			Role:        e.Role,
			From:        *sess.From,
			To:          *sess.To,
			Fare:        e.Fare,
			DistanceKm:  sess.DistanceKm,
			Transaction: tx,
			BookedAt:    bookedAt,
		}); err != nil {
			s.logger.Error("receipt generation failed", slog.String("ride_id", e.RideID), slog.Any("error", err))
		}
	}
}

func (s *RideService) statusJob(e ride.StatusChanged, sess ride.Session) func() {
	role := string(sess.Role)
	switch e.To {
	case domain.RideStatusSearching:
		observability.RidesBookedTotal.Inc()
	case domain.RideStatusAccepted:
		observability.RidesAcceptedTotal.WithLabelValues(role).Inc()
	case domain.RideStatusCompleted:
		observability.RidesCompletedTotal.WithLabelValues(role).Inc()
	case domain.RideStatusIdle:
		if e.From != domain.RideStatusCompleted {
			observability.RidesCancelledTotal.Inc()
		}
	}

	s.logger.Info("ride status changed",
		slog.String("ride_id", sess.ID),
		slog.String("role", role),
		slog.String("from", string(e.From)),
		slog.String("to", string(e.To)),
	)

	ev := RideEvent{
		RideID:      sess.ID,
		Role:        sess.Role,
		From:        e.From,
		To:          e.To,
		Fare:        sess.Fare,
		Counterpart: sess.Counterpart(),
	}
	if sess.From != nil {
		ev.FromName = sess.From.Name
	}
	if sess.To != nil {
		ev.ToName = sess.To.Name
	}
	return func() {
		if s.notifier != nil {
			_ = s.notifier.NotifyStatusChange(context.Background(), ev)
		}
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ride.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ride.ErrRouteIncomplete):
		return "route_incomplete"
	case errors.Is(err, ride.ErrFareUnavailable):
		return "fare_unavailable"
	case errors.Is(err, ride.ErrWrongRole):
		return "wrong_role"
	case errors.Is(err, ride.ErrRideActive):
		return "ride_active"
	default:
		return "other"
	}
}
