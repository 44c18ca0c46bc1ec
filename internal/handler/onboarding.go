package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusride/internal/campus"
	"campusride/internal/onboarding"
	"campusride/internal/service"
)

// OnboardingHandler handles HTTP requests for the rider onboarding wizard.
type OnboardingHandler struct {
	onboardingService *service.OnboardingService
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(onboardingService *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

// VehicleRequest is the HTTP request body for step 1.
type VehicleRequest struct {
	BikeModel   string `json:"bike_model"`
	PlateNumber string `json:"plate_number"`
}

// AvatarRequest is the HTTP request body for picking a stock avatar.
type AvatarRequest struct {
	AvatarID string `json:"avatar_id" binding:"required"`
}

// PhotoRequest is the HTTP request body for uploading a captured photo.
type PhotoRequest struct {
	Ref string `json:"ref" binding:"required"`
}

// WizardResponse wraps the wizard together with the selectable avatars.
type WizardResponse struct {
	Wizard  *onboarding.Wizard `json:"wizard"`
	Avatars []campus.Avatar    `json:"avatars"`
}

func respondWizard(c *gin.Context, code int, w *onboarding.Wizard, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, code, WizardResponse{Wizard: w, Avatars: campus.Avatars()})
}

// Start handles POST /v1/onboarding
func (h *OnboardingHandler) Start(c *gin.Context) {
	w, err := h.onboardingService.Start()
	respondWizard(c, http.StatusCreated, w, err)
}

// Get handles GET /v1/onboarding
func (h *OnboardingHandler) Get(c *gin.Context) {
	w, err := h.onboardingService.Get()
	respondWizard(c, http.StatusOK, w, err)
}

// SetVehicle handles PUT /v1/onboarding/vehicle
func (h *OnboardingHandler) SetVehicle(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	w, err := h.onboardingService.SetVehicle(req.BikeModel, req.PlateNumber)
	respondWizard(c, http.StatusOK, w, err)
}

// PickAvatar handles PUT /v1/onboarding/avatar
func (h *OnboardingHandler) PickAvatar(c *gin.Context) {
	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	w, err := h.onboardingService.PickAvatar(req.AvatarID)
	respondWizard(c, http.StatusOK, w, err)
}

// UploadPhoto handles POST /v1/onboarding/photo
func (h *OnboardingHandler) UploadPhoto(c *gin.Context) {
	var req PhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	w, err := h.onboardingService.UploadPhoto(req.Ref)
	respondWizard(c, http.StatusAccepted, w, err)
}

// VerifyDocument handles POST /v1/onboarding/verify
func (h *OnboardingHandler) VerifyDocument(c *gin.Context) {
	w, err := h.onboardingService.VerifyDocument()
	respondWizard(c, http.StatusAccepted, w, err)
}

// Next handles POST /v1/onboarding/next
func (h *OnboardingHandler) Next(c *gin.Context) {
	w, err := h.onboardingService.Next()
	respondWizard(c, http.StatusOK, w, err)
}

// Back handles POST /v1/onboarding/back
func (h *OnboardingHandler) Back(c *gin.Context) {
	w, err := h.onboardingService.Back()
	respondWizard(c, http.StatusOK, w, err)
}

// Complete handles POST /v1/onboarding/complete
func (h *OnboardingHandler) Complete(c *gin.Context) {
	profile, err := h.onboardingService.Complete(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, profile)
}

// Cancel handles DELETE /v1/onboarding
func (h *OnboardingHandler) Cancel(c *gin.Context) {
	h.onboardingService.Cancel()
	c.Status(http.StatusNoContent)
}
