package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusride/internal/assistant"
	"campusride/internal/clock"
	"campusride/internal/domain"
)

// ReceiptService generates and keeps receipts of completed rides.
type ReceiptService struct {
	notificationService *NotificationService
	clock               clock.Clock

	mu       sync.RWMutex
	receipts map[string]*domain.Receipt
	latest   string
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(notificationService *NotificationService, clk clock.Clock) *ReceiptService {
	return &ReceiptService{
		notificationService: notificationService,
		clock:               clk,
		receipts:            make(map[string]*domain.Receipt),
	}
}

// GenerateReceiptRequest contains the parameters for generating a receipt.
type GenerateReceiptRequest struct {
	RideID      string
	Role        domain.Role
	From        domain.Location
	To          domain.Location
	Fare        float64
	DistanceKm  float64 // quoted distance; estimated from the map when zero
	Transaction *domain.Transaction
	BookedAt    time.Time
}

// GenerateReceipt generates a receipt for a completed ride. Generating twice
// for the same ride returns the first receipt.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, req GenerateReceiptRequest) (*domain.Receipt, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}

	s.mu.Lock()
	if existing, ok := s.receipts[req.RideID]; ok {
		s.mu.Unlock()
		c := *existing
		return &c, nil
	}

	distance := req.DistanceKm
	if distance <= 0 {
		distance = s.estimateDistance(req.From.Coords, req.To.Coords)
	}

	now := s.clock.Now()
	receipt := &domain.Receipt{
		ID:          uuid.New().String(),
		RideID:      req.RideID,
		Role:        req.Role,
		FromName:    req.From.Name,
		ToName:      req.To.Name,
		Distance:    distance,
		Fare:        req.Fare,
		BookedAt:    req.BookedAt,
		CompletedAt: now,
		CreatedAt:   now,
	}
	if req.Transaction != nil {
		receipt.TransactionID = req.Transaction.ID
	}
	s.receipts[req.RideID] = receipt
	s.latest = req.RideID
	c := *receipt
	s.mu.Unlock()

	if s.notificationService != nil {
		_ = s.notificationService.NotifyReceiptReady(ctx, &c)
	}
	return &c, nil
}

// GetReceipt returns the receipt of a ride. An empty rideID returns the most
// recent receipt.
func (s *ReceiptService) GetReceipt(rideID string) (*domain.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rideID == "" {
		rideID = s.latest
	}
	r, ok := s.receipts[rideID]
	if !ok {
		return nil, ErrReceiptNotFound
	}
	c := *r
	return &c, nil
}

// estimateDistance converts the straight-line map distance into kilometres.
func (s *ReceiptService) estimateDistance(from, to domain.Point) float64 {
	return math.Round(from.DistanceTo(to)*assistant.KmPerUnit*10) / 10
}

// FormatReceipt formats the receipt as plain text.
func (s *ReceiptService) FormatReceipt(receipt *domain.Receipt) string {
	txn := receipt.TransactionID
	if txn == "" {
		txn = "-"
	}
	label := "PAID"
	if receipt.Role == domain.RoleRider {
		label = "EARNED"
	}
	return `
=====================================
        CAMPUSRIDE RECEIPT
=====================================
Receipt ID: ` + receipt.ID + `
Ride ID: ` + receipt.RideID + `
Date: ` + receipt.CreatedAt.Format("Jan 02, 2006 3:04 PM") + `

RIDE DETAILS
-------------------------------------
Pickup:      ` + receipt.FromName + `
Drop-off:    ` + receipt.ToName + `
Duration:    ` + formatDuration(receipt.CompletedAt.Sub(receipt.BookedAt)) + `
Distance:    ` + formatFloat(receipt.Distance) + ` km

FARE
-------------------------------------
` + label + `:            ₹` + formatFloat(receipt.Fare) + `
Transaction: ` + txn + `

=====================================
  Thank you for riding with CampusRide!
=====================================
`
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d.Minutes())
	return fmt.Sprintf("%d min", minutes)
}
