// File: anchorsite/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anchorsite/config"
	"anchorsite/handlers"
	"anchorsite/middleware"
	"anchorsite/routes"
	"anchorsite/services/anchor"
	"anchorsite/services/reviews"
	"anchorsite/services/wizard"
	"anchorsite/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionCache()
	utils.InitDataCache()

	loc, err := time.LoadLocation(config.AppConfig.VenueTimezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid venue timezone %q: %v", config.AppConfig.VenueTimezone, err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	anchorClient := anchor.New(config.AppConfig.AnchorAPIBaseURL, config.AppConfig.AnchorAPIKey)

	wizardService := &wizard.DefaultWizardService{
		Store:      wizard.NewRedisSessionStore(utils.GetSessionCacheClient()),
		Anchor:     anchorClient,
		Clock:      wizard.SystemClock(),
		Loc:        loc,
		VenuePhone: config.AppConfig.VenuePhone,
		Logger:     logger,
	}

	reviewService := reviews.NewGooglePlacesService(
		config.AppConfig.GooglePlacesAPIKey,
		config.AppConfig.GooglePlaceID,
		utils.GetDataCacheClient(),
		logger,
	)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Wizard:       handlers.NewWizardHandler(wizardService, logger),
		Availability: handlers.NewAvailabilityHandler(anchorClient, loc, logger),
		Menu:         handlers.NewMenuHandler(anchorClient, utils.GetDataCacheClient(), logger),
		Reviews:      handlers.NewReviewsHandler(reviewService, logger),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetSessionCacheClient(), utils.GetDataCacheClient()},
		anchorClient.Ping,
	)

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

	logger.Sugar().Info("main: server stopped gracefully")
}
