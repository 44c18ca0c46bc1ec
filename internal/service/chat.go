package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusride/internal/assistant"
	"campusride/internal/clock"
	"campusride/internal/domain"
	"campusride/internal/observability"
)

// Chat timings.
const (
	DefaultTypingDelay   = 1500 * time.Millisecond
	DefaultGreetingDelay = 3 * time.Second
)

// counterpartSenderID is the sender ID of messages from the other party.
const counterpartSenderID = "other"

// ChatView is the rendered chat of the current ride.
type ChatView struct {
	RideID   string               `json:"ride_id,omitempty"`
	Messages []domain.ChatMessage `json:"messages"`
	Typing   bool                 `json:"typing"`
	Unread   int                  `json:"unread"`
	Open     bool                 `json:"open"`
}

// ChatService keeps the per-ride message list. Pending replies and greetings
// belong to a generation; clearing the chat starts a new one so late
// callbacks of a finished ride are dropped.
type ChatService struct {
	assistant     assistant.Assistant
	clock         clock.Clock
	spawn         func(func())
	userID        string
	typingDelay   time.Duration
	greetingDelay time.Duration
	logger        *slog.Logger

	mu       sync.Mutex
	gen      uint64
	rideID   string
	messages []domain.ChatMessage
	pending  int
	unread   int
	open     bool
	timers   []clock.Timer
}

// ChatConfig holds the chat delays.
type ChatConfig struct {
	TypingDelay   time.Duration
	GreetingDelay time.Duration
}

// NewChatService creates a new ChatService. spawn runs assistant calls off the
// caller's goroutine; nil means `go f()`.
func NewChatService(a assistant.Assistant, clk clock.Clock, spawn func(func()), userID string, cfg ChatConfig, logger *slog.Logger) *ChatService {
	if spawn == nil {
		spawn = func(f func()) { go f() }
	}
	if cfg.TypingDelay <= 0 {
		cfg.TypingDelay = DefaultTypingDelay
	}
	if cfg.GreetingDelay <= 0 {
		cfg.GreetingDelay = DefaultGreetingDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		assistant:     a,
		clock:         clk,
		spawn:         spawn,
		userID:        userID,
		typingDelay:   cfg.TypingDelay,
		greetingDelay: cfg.GreetingDelay,
		logger:        logger,
		messages:      []domain.ChatMessage{},
	}
}

// Begin clears the chat and binds it to rideID.
func (c *ChatService) Begin(rideID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.rideID = rideID
}

// Clear drops messages, typing state, unread count and pending deliveries.
func (c *ChatService) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.rideID = ""
}

func (c *ChatService) resetLocked() {
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = nil
	c.gen++
	c.messages = []domain.ChatMessage{}
	c.pending = 0
	c.unread = 0
}

// Greet posts an opening message. Own messages come from the local user;
// deferred ones arrive after the greeting delay.
func (c *ChatService) Greet(text string, sender domain.Role, own, deferred bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	senderID := counterpartSenderID
	if own {
		senderID = c.userID
	}
	deliver := func() {
		c.appendLocked(domain.ChatMessage{
			ID:         uuid.New().String(),
			Text:       text,
			SenderID:   senderID,
			SenderRole: sender,
			CreatedAt:  c.clock.Now(),
		}, !own)
	}

	if !deferred {
		deliver()
		return
	}
	gen := c.gen
	c.timers = append(c.timers, c.clock.AfterFunc(c.greetingDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return
		}
		deliver()
	}))
}

// Send appends the user's message and schedules the counterpart's reply
// after the typing delay. rideID must be the chat's current ride.
func (c *ChatService) Send(ctx context.Context, rideID, text string, role domain.Role, counterpart string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.rideID == "" || c.rideID != rideID {
		c.mu.Unlock()
		return nil, ErrNoActiveRide
	}
	msg := domain.ChatMessage{
		ID:         uuid.New().String(),
		Text:       text,
		SenderID:   c.userID,
		SenderRole: role,
		CreatedAt:  c.clock.Now(),
	}
	c.appendLocked(msg, false)
	c.pending++
	gen := c.gen
	c.mu.Unlock()

	replyCtx := context.WithoutCancel(ctx)
	c.spawn(func() {
		reply, err := c.assistant.ChatReply(replyCtx, text, role, counterpart)
		if err != nil || reply == "" {
			reply = assistant.FallbackReply
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return
		}
		c.timers = append(c.timers, c.clock.AfterFunc(c.typingDelay, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.gen != gen {
				return
			}
			c.pending--
			c.appendLocked(domain.ChatMessage{
				ID:         uuid.New().String(),
				Text:       reply,
				SenderID:   counterpartSenderID,
				SenderRole: role.Counterpart(),
				CreatedAt:  c.clock.Now(),
			}, true)
		}))
	})

	return &msg, nil
}

func (c *ChatService) appendLocked(msg domain.ChatMessage, incoming bool) {
	c.messages = append(c.messages, msg)
	if incoming && !c.open {
		c.unread++
	}
	observability.ChatMessagesTotal.WithLabelValues(string(msg.SenderRole)).Inc()
}

// Open marks the chat as visible and zeroes the unread counter.
func (c *ChatService) Open() ChatView {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	c.unread = 0
	return c.viewLocked()
}

// Close marks the chat as hidden.
func (c *ChatService) Close() ChatView {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return c.viewLocked()
}

// View returns the current chat.
func (c *ChatService) View() ChatView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *ChatService) viewLocked() ChatView {
	msgs := make([]domain.ChatMessage, len(c.messages))
	copy(msgs, c.messages)
	return ChatView{
		RideID:   c.rideID,
		Messages: msgs,
		Typing:   c.pending > 0,
		Unread:   c.unread,
		Open:     c.open,
	}
}
