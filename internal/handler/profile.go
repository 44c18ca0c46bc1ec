package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusride/internal/domain"
	"campusride/internal/service"
)

// ProfileHandler handles HTTP requests for the local user's profile and role.
type ProfileHandler struct {
	profileService *service.ProfileService
	rideService    *service.RideService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *service.ProfileService, rideService *service.RideService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		rideService:    rideService,
	}
}

// SelectRoleRequest is the HTTP request body for choosing a role.
type SelectRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// GetProfile handles GET /v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.profileService.Profile())
}

// SelectRole handles PUT /v1/profile/role
func (h *ProfileHandler) SelectRole(c *gin.Context) {
	var req SelectRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if _, err := h.rideService.SelectRole(c.Request.Context(), domain.Role(req.Role)); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, h.profileService.Profile())
}

// SignOut handles POST /v1/profile/signout
func (h *ProfileHandler) SignOut(c *gin.Context) {
	if err := h.rideService.SignOut(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, h.profileService.Profile())
}
