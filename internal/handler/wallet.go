package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusride/internal/domain"
	"campusride/internal/service"
)

// WalletHandler handles HTTP requests for the wallet.
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// WalletResponse is the HTTP response for the wallet.
type WalletResponse struct {
	Balance      float64              `json:"balance"`
	Transactions []domain.Transaction `json:"transactions"`
}

// TopUpResponse is the HTTP response for a top-up.
type TopUpResponse struct {
	Transaction *domain.Transaction `json:"transaction"`
	Balance     float64             `json:"balance"`
}

// GetWallet handles GET /v1/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	respondJSON(c, http.StatusOK, WalletResponse{
		Balance:      h.walletService.Balance(),
		Transactions: h.walletService.Transactions(),
	})
}

// TopUp handles POST /v1/wallet/topup
func (h *WalletHandler) TopUp(c *gin.Context) {
	tx, err := h.walletService.TopUp(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, TopUpResponse{
		Transaction: tx,
		Balance:     h.walletService.Balance(),
	})
}
