package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusride/internal/campus"
	"campusride/internal/domain"
	"campusride/internal/ride"
	"campusride/internal/service"
)

// RideHandler handles HTTP requests for the passenger ride flow, history and
// receipts.
type RideHandler struct {
	rideService    *service.RideService
	walletService  *service.WalletService
	chatService    *service.ChatService
	historyService *service.HistoryService
	receiptService *service.ReceiptService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(
	rideService *service.RideService,
	walletService *service.WalletService,
	chatService *service.ChatService,
	historyService *service.HistoryService,
	receiptService *service.ReceiptService,
) *RideHandler {
	return &RideHandler{
		rideService:    rideService,
		walletService:  walletService,
		chatService:    chatService,
		historyService: historyService,
		receiptService: receiptService,
	}
}

// SelectRouteRequest is the HTTP request body for choosing pickup and drop-off.
type SelectRouteRequest struct {
	FromID string `json:"from_id" binding:"required"`
	ToID   string `json:"to_id" binding:"required"`
}

// FinishRideRequest is the HTTP request body for closing a completed ride.
type FinishRideRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback,omitempty"`
}

// RideResponse is the rendered ride screen.
type RideResponse struct {
	Ride    ride.Session     `json:"ride"`
	Balance float64          `json:"balance"`
	Chat    service.ChatView `json:"chat"`
}

// LocationsResponse lists the campus map.
type LocationsResponse struct {
	Locations []domain.Location `json:"locations"`
}

// HistoryResponse lists past rides.
type HistoryResponse struct {
	Rides []domain.RideHistoryEntry `json:"rides"`
}

func (h *RideHandler) render(c *gin.Context, code int, sess ride.Session) {
	respondJSON(c, code, RideResponse{
		Ride:    sess,
		Balance: h.walletService.Balance(),
		Chat:    h.chatService.View(),
	})
}

// GetLocations handles GET /v1/locations
func (h *RideHandler) GetLocations(c *gin.Context) {
	respondJSON(c, http.StatusOK, LocationsResponse{Locations: campus.Locations()})
}

// GetCurrent handles GET /v1/rides/current
func (h *RideHandler) GetCurrent(c *gin.Context) {
	h.render(c, http.StatusOK, h.rideService.Current())
}

// SelectRoute handles PUT /v1/rides/route
func (h *RideHandler) SelectRoute(c *gin.Context) {
	var req SelectRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	sess, err := h.rideService.SelectRoute(c.Request.Context(), req.FromID, req.ToID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, sess)
}

// Book handles POST /v1/rides/book
func (h *RideHandler) Book(c *gin.Context) {
	sess, err := h.rideService.Book(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusAccepted, sess)
}

// Cancel handles POST /v1/rides/cancel
func (h *RideHandler) Cancel(c *gin.Context) {
	sess, err := h.rideService.Cancel(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, sess)
}

// Board handles POST /v1/rides/board
func (h *RideHandler) Board(c *gin.Context) {
	sess, err := h.rideService.Board(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, sess)
}

// Finish handles POST /v1/rides/finish
func (h *RideHandler) Finish(c *gin.Context) {
	// An empty body closes the ride without a rating.
	var req FinishRideRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c)
		return
	}

	sess, err := h.rideService.Finish(c.Request.Context(), service.FinishRequest{
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, http.StatusOK, sess)
}

// GetHistory handles GET /v1/rides/history?q=
func (h *RideHandler) GetHistory(c *gin.Context) {
	respondJSON(c, http.StatusOK, HistoryResponse{Rides: h.historyService.Search(c.Query("q"))})
}

// GetReceipt handles GET /v1/rides/receipt?ride_id=&format=text
func (h *RideHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.receiptService.GetReceipt(c.Query("ride_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("format") == "text" {
		c.String(http.StatusOK, h.receiptService.FormatReceipt(receipt))
		return
	}
	respondJSON(c, http.StatusOK, receipt)
}
