package tests

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"campusride/internal/assistant"
	"campusride/internal/domain"
	"campusride/internal/repository"
	"campusride/internal/service"
)

// ──────────────────────────────────────────────
// MOCK SESSION REPOSITORY
// ──────────────────────────────────────────────

// MockSessionRepository is a mock implementation of SessionRepository.
type MockSessionRepository struct {
	mu     sync.RWMutex
	states map[string][]byte

	// Counters for verification
	LoadCallCount int32
	SaveCallCount int32

	// Error injection
	LoadError error
	SaveError error

	// Save gating, see HoldFirstSave
	saveEntered chan struct{}
	saveRelease chan struct{}
}

// NewMockSessionRepository creates a new mock session repository.
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		states: make(map[string][]byte),
	}
}

// AddState stores a state for userID.
func (m *MockSessionRepository) AddState(userID string, state *domain.SessionState) {
	data, _ := json.Marshal(state)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = data
}

// AddRaw stores raw bytes for userID, e.g. a corrupt record.
func (m *MockSessionRepository) AddRaw(userID string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = raw
}

func (m *MockSessionRepository) Load(ctx context.Context, userID string) (*domain.SessionState, error) {
	atomic.AddInt32(&m.LoadCallCount, 1)
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.states[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	var state domain.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, repository.ErrCorruptState
	}
	return &state, nil
}

// HoldFirstSave makes the next Save block after encoding its state. entered is
// closed once that Save is blocked; release lets it finish.
func (m *MockSessionRepository) HoldFirstSave() (entered <-chan struct{}, release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveEntered = make(chan struct{})
	m.saveRelease = make(chan struct{})
	rel := m.saveRelease
	return m.saveEntered, func() { close(rel) }
}

func (m *MockSessionRepository) Save(ctx context.Context, userID string, state *domain.SessionState) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	entered, release := m.saveEntered, m.saveRelease
	m.saveEntered, m.saveRelease = nil, nil
	m.mu.Unlock()
	if entered != nil {
		close(entered)
		<-release
	}

	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = data
	return nil
}

// GetState returns the last saved state for userID, or nil.
func (m *MockSessionRepository) GetState(userID string) *domain.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.states[userID]
	if !ok {
		return nil
	}
	var state domain.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil
	}
	return &state
}

// ──────────────────────────────────────────────
// MOCK ASSISTANT
// ──────────────────────────────────────────────

// MockAssistant is a scripted assistant with fixed answers.
type MockAssistant struct {
	mu       sync.Mutex
	estimate assistant.Estimate
	advice   string
	reply    string

	// Counters for verification
	AdviceCallCount   int32
	ReplyCallCount    int32
	EstimateCallCount int32

	// Error injection
	AdviceError   error
	ReplyError    error
	EstimateError error
}

// NewMockAssistant creates an assistant that quotes fare for every route.
func NewMockAssistant(fare, distanceKm float64) *MockAssistant {
	return &MockAssistant{
		estimate: assistant.Estimate{DistanceKm: distanceKm, Fare: fare},
		advice:   "Take the inner ring road.",
		reply:    "On my way!",
	}
}

// SetFare changes the quoted fare.
func (m *MockAssistant) SetFare(fare float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.estimate.Fare = fare
}

func (m *MockAssistant) TravelAdvice(ctx context.Context, from, to, trafficContext string) (string, error) {
	atomic.AddInt32(&m.AdviceCallCount, 1)
	if m.AdviceError != nil {
		return "", m.AdviceError
	}
	return m.advice, nil
}

func (m *MockAssistant) ChatReply(ctx context.Context, msg string, role domain.Role, counterpart string) (string, error) {
	atomic.AddInt32(&m.ReplyCallCount, 1)
	if m.ReplyError != nil {
		return "", m.ReplyError
	}
	return m.reply, nil
}

func (m *MockAssistant) FareEstimate(ctx context.Context, from, to string) (assistant.Estimate, error) {
	atomic.AddInt32(&m.EstimateCallCount, 1)
	if m.EstimateError != nil {
		return assistant.Estimate{}, m.EstimateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.estimate, nil
}

// ──────────────────────────────────────────────
// MOCK PUBLISHER
// ──────────────────────────────────────────────

// MockPublisher records published notifications.
type MockPublisher struct {
	mu            sync.Mutex
	notifications []service.Notification

	PublishCallCount int32
	PublishError     error
}

// NewMockPublisher creates a new mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, key string, payload any) error {
	atomic.AddInt32(&m.PublishCallCount, 1)
	if m.PublishError != nil {
		return m.PublishError
	}
	if n, ok := payload.(service.Notification); ok {
		m.mu.Lock()
		m.notifications = append(m.notifications, n)
		m.mu.Unlock()
	}
	return nil
}

// Types returns the published notification types in order.
func (m *MockPublisher) Types() []service.NotificationType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]service.NotificationType, 0, len(m.notifications))
	for _, n := range m.notifications {
		out = append(out, n.Type)
	}
	return out
}

// Count returns how many notifications of type t were published.
func (m *MockPublisher) Count(t service.NotificationType) int {
	n := 0
	for _, got := range m.Types() {
		if got == t {
			n++
		}
	}
	return n
}
