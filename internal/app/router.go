package app

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campusride/internal/handler"
	"campusride/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	ProfileHandler    *handler.ProfileHandler
	WalletHandler     *handler.WalletHandler
	RideHandler       *handler.RideHandler
	RiderHandler      *handler.RiderHandler
	ChatHandler       *handler.ChatHandler
	OnboardingHandler *handler.OnboardingHandler
	ResponseStore     middleware.ResponseStore // nil disables idempotent replay
	NewRelicApp       *newrelic.Application
	Logger            *slog.Logger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware(deps.Logger))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.ResponseStore))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		v1.GET("/locations", deps.RideHandler.GetLocations)

		// Profile routes.
		profile := v1.Group("/profile")
		{
			profile.GET("", deps.ProfileHandler.GetProfile)
			profile.PUT("/role", deps.ProfileHandler.SelectRole)
			profile.POST("/signout", deps.ProfileHandler.SignOut)
		}

		// Wallet routes.
		wallet := v1.Group("/wallet")
		{
			wallet.GET("", deps.WalletHandler.GetWallet)
			wallet.POST("/topup", deps.WalletHandler.TopUp)
		}

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.GET("/current", deps.RideHandler.GetCurrent)
			rides.PUT("/route", deps.RideHandler.SelectRoute)
			rides.POST("/book", deps.RideHandler.Book)
			rides.POST("/cancel", deps.RideHandler.Cancel)
			rides.POST("/board", deps.RideHandler.Board)
			rides.POST("/finish", deps.RideHandler.Finish)
			rides.GET("/history", deps.RideHandler.GetHistory)
			rides.GET("/receipt", deps.RideHandler.GetReceipt)
		}

		// Rider desk routes.
		rider := v1.Group("/rider")
		{
			rider.GET("", deps.RiderHandler.GetDesk)
			rider.PUT("/online", deps.RiderHandler.SetOnline)
			rider.POST("/requests/:id/accept", deps.RiderHandler.AcceptRequest)
		}

		// Chat routes.
		chat := v1.Group("/chat")
		{
			chat.GET("", deps.ChatHandler.GetChat)
			chat.POST("/open", deps.ChatHandler.Open)
			chat.POST("/close", deps.ChatHandler.Close)
			chat.POST("/messages", deps.ChatHandler.Send)
		}

		// Onboarding routes.
		onboard := v1.Group("/onboarding")
		{
			onboard.POST("", deps.OnboardingHandler.Start)
			onboard.GET("", deps.OnboardingHandler.Get)
			onboard.DELETE("", deps.OnboardingHandler.Cancel)
			onboard.PUT("/vehicle", deps.OnboardingHandler.SetVehicle)
			onboard.PUT("/avatar", deps.OnboardingHandler.PickAvatar)
			onboard.POST("/photo", deps.OnboardingHandler.UploadPhoto)
			onboard.POST("/verify", deps.OnboardingHandler.VerifyDocument)
			onboard.POST("/next", deps.OnboardingHandler.Next)
			onboard.POST("/back", deps.OnboardingHandler.Back)
			onboard.POST("/complete", deps.OnboardingHandler.Complete)
		}
	}

	return router
}
