package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"campusride/internal/clock"
	"campusride/internal/domain"
	"campusride/internal/observability"
)

// Wallet constants.
const (
	TopUpAmount      = 100.0
	TopUpDescription = "Wallet Recharge (Demo)"
)

// WalletService posts ledger transactions against the session state.
type WalletService struct {
	profile  *ProfileService
	notifier *NotificationService
	clock    clock.Clock
	logger   *slog.Logger
}

// NewWalletService creates a new WalletService.
func NewWalletService(profile *ProfileService, notifier *NotificationService, clk clock.Clock, logger *slog.Logger) *WalletService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletService{
		profile:  profile,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

// ApplyTransactionRequest contains the parameters for a ledger posting.
type ApplyTransactionRequest struct {
	Amount      float64 // signed: negative debits, positive credits
	Description string
	Reference   string // optional idempotency reference
}

// ApplyTransaction appends a transaction (newest first) and adjusts the
// balance in the same state update. A reference that was already posted
// returns the existing transaction without changing anything.
func (s *WalletService) ApplyTransaction(ctx context.Context, req ApplyTransactionRequest) (*domain.Transaction, error) {
	return s.post(ctx, req, nil)
}

// TopUp credits the fixed demo recharge.
func (s *WalletService) TopUp(ctx context.Context) (*domain.Transaction, error) {
	return s.ApplyTransaction(ctx, ApplyTransactionRequest{
		Amount:      TopUpAmount,
		Description: TopUpDescription,
	})
}

// SettleRideRequest contains the parameters for settling a completed ride.
type SettleRideRequest struct {
	RideID      string
	Role        domain.Role
	Fare        float64
	Description string
}

// SettlementReference is the idempotency reference of a ride's settlement.
func SettlementReference(rideID string) string {
	return fmt.Sprintf("ride:%s", rideID)
}

// SettleRide posts the single transaction of a completed ride: a debit for a
// passenger, a credit plus earnings and trip count for a rider. Settling the
// same ride again returns the original transaction.
func (s *WalletService) SettleRide(ctx context.Context, req SettleRideRequest) (*domain.Transaction, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.Fare <= 0 {
		return nil, ErrInvalidTransactionAmount
	}

	amount := -req.Fare
	var extra func(st *domain.SessionState)
	if req.Role == domain.RoleRider {
		amount = req.Fare
		extra = func(st *domain.SessionState) {
			st.RiderEarnings += req.Fare
			st.RiderTripCount++
		}
	}

	return s.post(ctx, ApplyTransactionRequest{
		Amount:      amount,
		Description: req.Description,
		Reference:   SettlementReference(req.RideID),
	}, extra)
}

// Balance returns the current balance.
func (s *WalletService) Balance() float64 {
	return s.profile.State().Balance
}

// Transactions returns the ledger, newest first.
func (s *WalletService) Transactions() []domain.Transaction {
	return s.profile.State().Transactions
}

func (s *WalletService) post(ctx context.Context, req ApplyTransactionRequest, extra func(st *domain.SessionState)) (*domain.Transaction, error) {
	if req.Amount == 0 {
		return nil, ErrInvalidTransactionAmount
	}

	var (
		result   domain.Transaction
		replayed bool
	)
	_, err := s.profile.Update(ctx, func(st *domain.SessionState) error {
		if req.Reference != "" {
			for _, existing := range st.Transactions {
				if existing.Reference == req.Reference {
					result = existing
					replayed = true
					return nil
				}
			}
		}

		result = domain.Transaction{
			ID:          uuid.New().String(),
			Amount:      req.Amount,
			Type:        domain.TypeForAmount(req.Amount),
			Description: req.Description,
			Reference:   req.Reference,
			CreatedAt:   s.clock.Now(),
		}
		st.Transactions = append([]domain.Transaction{result}, st.Transactions...)
		st.Balance += req.Amount
		if extra != nil {
			extra(st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replayed {
		s.logger.Info("settlement already posted", slog.String("reference", req.Reference), slog.String("transaction_id", result.ID))
		return &result, nil
	}

	observability.WalletTransactionsTotal.WithLabelValues(string(result.Type)).Inc()
	if s.notifier != nil {
		_ = s.notifier.NotifyTransaction(ctx, &result)
	}
	return &result, nil
}
