package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusride/internal/onboarding"
	"campusride/internal/repository"
	"campusride/internal/ride"
	"campusride/internal/service"
)

// ErrorResponse represents an error response. Action hints at what the client
// should offer the user next.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
}

// actionTopUp asks the client to show the wallet top-up.
const actionTopUp = "top_up"

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	resp := ErrorResponse{Error: err.Error()}
	if errors.Is(err, ride.ErrInsufficientBalance) {
		resp.Action = actionTopUp
	}
	c.JSON(code, resp)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// badRequest sends a 400 for an unreadable body.
func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
}

// mapErrorToHTTPStatus maps service, ride and repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrReceiptNotFound),
		errors.Is(err, service.ErrUnknownRequest),
		errors.Is(err, service.ErrOnboardingNotStarted):
		return http.StatusNotFound

	// Payment required
	case errors.Is(err, ride.ErrInsufficientBalance):
		return http.StatusPaymentRequired

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrUnknownLocation),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrRatingRequired),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidTransactionAmount),
		errors.Is(err, ride.ErrSameEndpoints),
		errors.Is(err, ride.ErrRouteIncomplete),
		errors.Is(err, onboarding.ErrVehicleRequired),
		errors.Is(err, onboarding.ErrUnknownAvatar),
		errors.Is(err, onboarding.ErrEmptyPhoto):
		return http.StatusBadRequest

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrOnboardingRequired),
		errors.Is(err, ride.ErrWrongRole),
		errors.Is(err, ride.ErrRiderOffline):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, ride.ErrRideActive),
		errors.Is(err, ride.ErrCannotCancel),
		errors.Is(err, ride.ErrInvalidTransition),
		errors.Is(err, ride.ErrFareUnavailable),
		errors.Is(err, service.ErrNoActiveRide),
		errors.Is(err, service.ErrAlreadyOnboarded),
		errors.Is(err, onboarding.ErrDocumentNotVerified),
		errors.Is(err, onboarding.ErrScanInProgress),
		errors.Is(err, onboarding.ErrWrongStep),
		errors.Is(err, onboarding.ErrAtFirstStep),
		errors.Is(err, onboarding.ErrAtLastStep):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
