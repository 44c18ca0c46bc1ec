package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"campusride/internal/clock"
	"campusride/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationRideRequested NotificationType = "RIDE_REQUESTED"
	NotificationRiderAssigned NotificationType = "RIDER_ASSIGNED"
	NotificationRiderArrived  NotificationType = "RIDER_ARRIVED"
	NotificationRideStarted   NotificationType = "RIDE_STARTED"
	NotificationRideCompleted NotificationType = "RIDE_COMPLETED"
	NotificationRideCancelled NotificationType = "RIDE_CANCELLED"
	NotificationRideClosed    NotificationType = "RIDE_CLOSED"
	NotificationWalletDebit   NotificationType = "WALLET_DEBIT"
	NotificationWalletCredit  NotificationType = "WALLET_CREDIT"
	NotificationReceiptReady  NotificationType = "RECEIPT_READY"
	NotificationRiderOnboard  NotificationType = "RIDER_ONBOARDED"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID          string                 `json:"id"`
	Type        NotificationType       `json:"type"`
	RecipientID string                 `json:"recipient_id"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Data        map[string]interface{} `json:"data,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// Publisher ships notifications to an external event sink.
type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

// NotificationService logs lifecycle notifications and forwards them to an
// optional Publisher.
type NotificationService struct {
	userID    string
	publisher Publisher
	clock     clock.Clock
	logger    *slog.Logger
}

// NewNotificationService creates a new NotificationService. publisher may be nil.
func NewNotificationService(userID string, publisher Publisher, clk clock.Clock, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		userID:    userID,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
	}
}

// RideEvent describes a ride at the moment of a status change.
type RideEvent struct {
	RideID      string
	Role        domain.Role
	From        domain.RideStatus
	To          domain.RideStatus
	FromName    string
	ToName      string
	Fare        float64
	Counterpart string
}

// NotifyStatusChange sends the notification matching a lifecycle transition.
// Transitions without a notification are ignored.
func (s *NotificationService) NotifyStatusChange(ctx context.Context, ev RideEvent) error {
	n := Notification{
		RecipientID: s.userID,
		Data: map[string]interface{}{
			"ride_id":     ev.RideID,
			"role":        ev.Role,
			"from_status": ev.From,
			"to_status":   ev.To,
			"fare":        ev.Fare,
		},
	}

	switch ev.To {
	case domain.RideStatusSearching:
		n.Type = NotificationRideRequested
		n.Title = "Finding your rider"
		n.Message = fmt.Sprintf("Looking for a rider from %s to %s", ev.FromName, ev.ToName)
	case domain.RideStatusAccepted:
		n.Type = NotificationRiderAssigned
		if ev.Role == domain.RoleRider {
			n.Title = "Request accepted"
			n.Message = fmt.Sprintf("Head to %s to pick up %s", ev.FromName, ev.Counterpart)
		} else {
			n.Title = "Rider assigned"
			n.Message = fmt.Sprintf("%s is on the way to %s", ev.Counterpart, ev.FromName)
		}
	case domain.RideStatusArrived:
		n.Type = NotificationRiderArrived
		n.Title = "Rider arrived"
		n.Message = fmt.Sprintf("Pickup point reached at %s", ev.FromName)
	case domain.RideStatusInProgress:
		n.Type = NotificationRideStarted
		n.Title = "Ride started"
		n.Message = fmt.Sprintf("On the way to %s", ev.ToName)
	case domain.RideStatusCompleted:
		n.Type = NotificationRideCompleted
		n.Title = "Ride completed"
		n.Message = fmt.Sprintf("Reached %s. Fare: ₹%.2f", ev.ToName, ev.Fare)
	case domain.RideStatusIdle:
		if ev.From == domain.RideStatusCompleted {
			n.Type = NotificationRideClosed
			n.Title = "Ride closed"
			n.Message = "Thanks for riding with CampusRide"
		} else {
			n.Type = NotificationRideCancelled
			n.Title = "Ride cancelled"
			n.Message = "Your campus ride was cancelled"
		}
	default:
		return nil
	}
	return s.send(ctx, ev.RideID, n)
}

// NotifyTransaction reports a wallet posting.
func (s *NotificationService) NotifyTransaction(ctx context.Context, tx *domain.Transaction) error {
	n := Notification{
		Type:        NotificationWalletCredit,
		RecipientID: s.userID,
		Title:       "Wallet credited",
		Message:     fmt.Sprintf("₹%.2f added: %s", tx.Amount, tx.Description),
		Data: map[string]interface{}{
			"transaction_id": tx.ID,
			"amount":         tx.Amount,
			"reference":      tx.Reference,
		},
	}
	if tx.Type == domain.TransactionDebit {
		n.Type = NotificationWalletDebit
		n.Title = "Wallet debited"
		n.Message = fmt.Sprintf("₹%.2f paid: %s", -tx.Amount, tx.Description)
	}
	return s.send(ctx, tx.ID, n)
}

// NotifyReceiptReady notifies the user that the receipt is ready.
func (s *NotificationService) NotifyReceiptReady(ctx context.Context, receipt *domain.Receipt) error {
	n := Notification{
		Type:        NotificationReceiptReady,
		RecipientID: s.userID,
		Title:       "Receipt Ready",
		Message:     fmt.Sprintf("Your receipt for ₹%.2f is ready", receipt.Fare),
		Data: map[string]interface{}{
			"receipt_id": receipt.ID,
			"ride_id":    receipt.RideID,
			"fare":       receipt.Fare,
		},
	}
	return s.send(ctx, receipt.RideID, n)
}

// NotifyRiderOnboarded reports a completed onboarding.
func (s *NotificationService) NotifyRiderOnboarded(ctx context.Context, bikeModel, plateNumber string) error {
	n := Notification{
		Type:        NotificationRiderOnboard,
		RecipientID: s.userID,
		Title:       "Welcome onboard",
		Message:     fmt.Sprintf("You can now ride with your %s (%s)", bikeModel, plateNumber),
	}
	return s.send(ctx, s.userID, n)
}

// send logs the notification and publishes it when a sink is configured.
// Publish failures are logged, not returned: notifications are best effort.
func (s *NotificationService) send(ctx context.Context, key string, n Notification) error {
	n.ID = uuid.New().String()
	n.CreatedAt = s.clock.Now()

	s.logger.Info("notification",
		slog.String("type", string(n.Type)),
		slog.String("recipient", n.RecipientID),
		slog.String("title", n.Title),
		slog.String("message", n.Message),
	)

	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Publish(ctx, key, n); err != nil {
		s.logger.Warn("failed to publish notification", slog.String("type", string(n.Type)), slog.Any("error", err))
	}
	return nil
}
