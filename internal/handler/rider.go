package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusride/internal/domain"
	"campusride/internal/service"
)

// RiderHandler handles HTTP requests for the rider desk.
type RiderHandler struct {
	rideService *service.RideService
	rides       *RideHandler
}

// NewRiderHandler creates a new RiderHandler. Ride screens are rendered
// through rides.
func NewRiderHandler(rideService *service.RideService, rides *RideHandler) *RiderHandler {
	return &RiderHandler{rideService: rideService, rides: rides}
}

// SetOnlineRequest is the HTTP request body for the availability toggle.
type SetOnlineRequest struct {
	Online bool `json:"online"`
}

// RiderDeskResponse is the rendered rider desk.
type RiderDeskResponse struct {
	Stats    service.RiderStats   `json:"stats"`
	Requests []domain.RideRequest `json:"requests"`
}

// GetDesk handles GET /v1/rider
func (h *RiderHandler) GetDesk(c *gin.Context) {
	respondJSON(c, http.StatusOK, RiderDeskResponse{
		Stats:    h.rideService.RiderStats(),
		Requests: h.rideService.PendingRequests(),
	})
}

// SetOnline handles PUT /v1/rider/online
func (h *RiderHandler) SetOnline(c *gin.Context) {
	var req SetOnlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	sess, err := h.rideService.SetOnline(c.Request.Context(), req.Online)
	if err != nil {
		respondError(c, err)
		return
	}
	h.rides.render(c, http.StatusOK, sess)
}

// AcceptRequest handles POST /v1/rider/requests/:id/accept
func (h *RiderHandler) AcceptRequest(c *gin.Context) {
	sess, err := h.rideService.AcceptRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.rides.render(c, http.StatusOK, sess)
}
