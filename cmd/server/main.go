package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"campusride/internal/app"
	"campusride/internal/assistant"
	"campusride/internal/clock"
	"campusride/internal/config"
	"campusride/internal/handler"
	"campusride/internal/kafka"
	"campusride/internal/logging"
	"campusride/internal/middleware"
	"campusride/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	logger := logging.NewLogger(cfg.Log.Level)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before the stores so we can instrument them).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	stores, err := app.NewStores(ctx, cfg, nrApp)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer stores.Close()

	var publisher service.Publisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(kafka.Config{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		})
		defer producer.Close()
		publisher = producer
		log.Printf("Publishing notifications to Kafka topic %s", producer.Topic())
	}

	// Wire dependencies.
	server, rides := wireServer(stores, publisher, nrApp, cfg, logger)
	defer rides.Close()

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server and the ride
// engine, whose timers must be stopped on exit.
func wireServer(stores *app.Stores, publisher service.Publisher, nrApp *newrelic.Application, cfg *config.Config, logger *slog.Logger) (*http.Server, *service.RideService) {
	clk := clock.NewReal()

	// Assistant: scripted estimates, cached in Redis when available, with a
	// timeout and fallbacks in front.
	var estimator assistant.Assistant = assistant.NewScriptedWithTraffic(assistant.TrafficConfig{
		Low:      cfg.Assistant.LowTraffic,
		Medium:   cfg.Assistant.MediumTraffic,
		High:     cfg.Assistant.HighTraffic,
		MaxSurge: cfg.Assistant.MaxTrafficFactor,
	})
	var responses middleware.ResponseStore
	if stores.Cache != nil {
		estimator = assistant.WithQuoteCache(estimator, stores.Cache, cfg.Assistant.QuoteTTL, logger)
		responses = stores.Cache
	}
	guarded := assistant.NewGuarded(estimator, cfg.Assistant.Timeout, logger)

	// Initialize services.
	notificationService := service.NewNotificationService(service.LocalUserID, publisher, clk, logger)
	profileService := service.NewProfileService(context.Background(), stores.Sessions, service.LocalUserID, logger)
	walletService := service.NewWalletService(profileService, notificationService, clk, logger)
	receiptService := service.NewReceiptService(notificationService, clk)
	historyService := service.NewHistoryService(profileService)
	chatService := service.NewChatService(guarded, clk, nil, service.LocalUserID, service.ChatConfig{
		TypingDelay:   cfg.Ride.TypingDelay,
		GreetingDelay: cfg.Ride.GreetingDelay,
	}, logger)
	rideService := service.NewRideService(service.RideServiceDeps{
		Profile:   profileService,
		Wallet:    walletService,
		Chat:      chatService,
		Receipts:  receiptService,
		Notifier:  notificationService,
		Assistant: guarded,
		Clock:     clk,
		Logger:    logger,
		Timings: service.RideTimings{
			MatchDelay:   cfg.Ride.MatchDelay,
			TickInterval: cfg.Ride.TickInterval,
		},
	})
	onboardingService := service.NewOnboardingService(profileService, rideService, notificationService, clk, service.OnboardingTimings{
		PhotoUpload:  cfg.Ride.PhotoUpload,
		DocumentScan: cfg.Ride.DocumentScan,
		ScanConfirm:  cfg.Ride.ScanConfirm,
	}, logger)

	// Initialize handlers.
	rideHandler := handler.NewRideHandler(rideService, walletService, chatService, historyService, receiptService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		ProfileHandler:    handler.NewProfileHandler(profileService, rideService),
		WalletHandler:     handler.NewWalletHandler(walletService),
		RideHandler:       rideHandler,
		RiderHandler:      handler.NewRiderHandler(rideService, rideHandler),
		ChatHandler:       handler.NewChatHandler(rideService, chatService),
		OnboardingHandler: handler.NewOnboardingHandler(onboardingService),
		ResponseStore:     responses,
		NewRelicApp:       nrApp,
		Logger:            logger,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, rideService
}
