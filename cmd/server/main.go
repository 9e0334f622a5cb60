package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/courtside/courtside/internal/api"
	"github.com/courtside/courtside/internal/api/handlers"
	"github.com/courtside/courtside/internal/api/middleware"
	"github.com/courtside/courtside/internal/engine"
	"github.com/courtside/courtside/internal/providers"
	"github.com/courtside/courtside/internal/services"
	"github.com/courtside/courtside/pkg/config"
	"github.com/courtside/courtside/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Core plumbing
	cacheService := services.NewCacheService(redisClient)
	webSocketHub := services.NewWebSocketHub()
	go webSocketHub.Run()

	// Alerts and SMS
	smsService := createSMSService(cfg)
	alertService := services.NewAlertService(db, smsService, webSocketHub, logger)

	// Domain services
	ratings := engine.NewStaticRatingProvider(engine.DefaultRatings())
	predictionService := services.NewPredictionService(
		db, cacheService, webSocketHub, ratings, logger,
		cfg.PredictionHistorySize, time.Duration(cfg.PredictionCacheTTL)*time.Second,
	)
	profileService := services.NewRiskProfileService(db, cacheService, alertService, logger)
	recommendationService := services.NewRecommendationService(
		db, cacheService, webSocketHub, predictionService, profileService, logger,
	)

	// Live data pipeline
	nbaClient := providers.NewNBAStatsClient(
		cfg.NBAStatsBaseURL, cfg.ExternalAPITimeout,
		cfg.NBAStatsRateLimit, cfg.CircuitBreakerThreshold, logger,
	)
	poller := services.NewScoreboardPoller(db, nbaClient, predictionService, logger, cfg.PollInterval)
	if cfg.EnableBackgroundJobs {
		if err := poller.Start(); err != nil {
			logrus.Errorf("Failed to start scoreboard poller: %v", err)
		}
		defer poller.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(db, cacheService, webSocketHub, poller)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, cfg, api.Services{
		Predictions:     predictionService,
		Profiles:        profileService,
		Recommendations: recommendationService,
		Poller:          poller,
	})

	// WebSocket endpoint at root level, optional auth for user channels
	wsHandler := handlers.NewWebSocketHandler(webSocketHub)
	router.GET("/ws", middleware.OptionalAuth(cfg.JWTSecret), wsHandler.HandleWebSocket)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// createSMSService picks the SMS backend from configuration, falling back to
// the console mock when Twilio isn't fully configured.
func createSMSService(cfg *config.Config) services.SMSService {
	if !cfg.EnableLossLimitSMS {
		return nil
	}

	switch cfg.SMSProvider {
	case "twilio":
		if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
			rateLimiter := services.NewSMSRateLimiter(3, time.Hour)
			return services.NewTwilioSMSService(
				cfg.TwilioAccountSID,
				cfg.TwilioAuthToken,
				cfg.TwilioFromNumber,
				rateLimiter,
			)
		}
		logrus.Warn("Twilio credentials missing, falling back to mock SMS service")
		return services.NewMockSMSService()
	case "mock":
		return services.NewMockSMSService()
	default:
		logrus.Warnf("Unknown SMS provider %q, using mock SMS service", cfg.SMSProvider)
		return services.NewMockSMSService()
	}
}
