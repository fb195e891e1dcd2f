package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"counselbook/config"
	"counselbook/cron"
	"counselbook/database"
	bookingRepoPkg "counselbook/database/repository/booking"
	providerRepoPkg "counselbook/database/repository/provider"
	rosterRepoPkg "counselbook/database/repository/roster"
	userRepoPkg "counselbook/database/repository/user"
	"counselbook/handlers"
	"counselbook/middleware"
	"counselbook/routes"
	"counselbook/services/booking"
	"counselbook/services/notification"
	"counselbook/services/payment"
	"counselbook/services/roster"
	"counselbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// Repositories.
	reservationRepo := bookingRepoPkg.NewMongoReservationRepo()
	provRepo := providerRepoPkg.NewMongoProviderRepo()
	rosterRepo := rosterRepoPkg.NewMongoRosterRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// Collaborators.
	dispatcher := &notification.FCMDispatcher{
		Users:     userRepo,
		Providers: provRepo,
		Logger:    logger,
	}
	rosterUpdater := &roster.DefaultRosterUpdater{Repo: rosterRepo}
	gateway := payment.NewStripeGateway(
		config.AppConfig.StripePublishableKey,
		config.AppConfig.StripeSigningSecret,
		logger,
	)
	reminderScheduler := cron.NewReminderScheduler(logger)
	defer reminderScheduler.Close()

	// The engine.
	engine := &booking.DefaultSchedulingEngine{
		Repo:            reservationRepo,
		ProviderRepo:    provRepo,
		Roster:          rosterUpdater,
		Notifier:        dispatcher,
		Gateway:         gateway,
		Reminders:       reminderScheduler,
		Logger:          logger,
		GranularityMins: config.AppConfig.SlotGranularityMins,
		FallbackStart:   config.AppConfig.FallbackWindowStart,
		FallbackEnd:     config.AppConfig.FallbackWindowEnd,
	}

	// Handlers and routes.
	bookingHandler := handlers.NewBookingHandler(engine, logger)
	appointmentHandler := handlers.NewAppointmentHandler(engine, logger)
	paymentHandler := handlers.NewPaymentHandler(gateway, engine, logger)
	authHandler := handlers.NewAuthHandler(logger)
	routes.RegisterRoutes(router, bookingHandler, appointmentHandler, paymentHandler, authHandler)

	// Background reminder worker.
	reminderWorker := cron.InitReminderWorker(reservationRepo, dispatcher)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	reminderWorker.Shutdown()

	logger.Sugar().Info("main: server stopped gracefully")
}
