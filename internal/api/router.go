package api

import (
	"github.com/gin-gonic/gin"

	"github.com/courtside/courtside/internal/api/handlers"
	"github.com/courtside/courtside/internal/api/middleware"
	"github.com/courtside/courtside/internal/services"
	"github.com/courtside/courtside/pkg/config"
)

// Services bundles everything the routes depend on.
type Services struct {
	Predictions     *services.PredictionService
	Profiles        *services.RiskProfileService
	Recommendations *services.RecommendationService
	Poller          *services.ScoreboardPoller
}

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, cfg *config.Config, svcs Services) {
	gamesHandler := handlers.NewGamesHandler(svcs.Predictions)
	profilesHandler := handlers.NewProfilesHandler(svcs.Profiles)
	recommendationsHandler := handlers.NewRecommendationsHandler(svcs.Recommendations)
	adminHandler := handlers.NewAdminHandler(svcs.Poller)

	// Game state and predictions
	group.GET("/games/active", gamesHandler.ListActiveGames)
	group.GET("/games/:gameId", gamesHandler.GetGame)
	group.GET("/games/:gameId/predictions", gamesHandler.GetPredictions)

	// Risk assessment
	group.GET("/risk-assessment/questionnaire", profilesHandler.GetQuestionnaire)

	// User profiles and recommendations
	group.GET("/users/:userId/profile", profilesHandler.GetProfile)
	group.POST("/users/:userId/profile", profilesHandler.SubmitQuestionnaire)
	group.PUT("/users/:userId/profile", profilesHandler.UpdateProfile)
	group.POST("/users/:userId/profile/recalibrate", profilesHandler.Recalibrate)
	group.GET("/users/:userId/bet-sizes", profilesHandler.GetBetSizes)
	group.POST("/users/:userId/bets", profilesHandler.RecordBet)
	group.GET("/users/:userId/recommendations", recommendationsHandler.GetRecommendations)
	group.GET("/users/:userId/recommendations/games/:gameId", recommendationsHandler.GetGameRecommendations)

	// Admin routes
	admin := group.Group("/admin")
	admin.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		admin.POST("/polling/start", adminHandler.StartPolling)
		admin.POST("/polling/stop", adminHandler.StopPolling)
		admin.GET("/polling/status", adminHandler.PollingStatus)
		admin.POST("/polling/run", adminHandler.PollNow)
		admin.PUT("/games/:gameId/odds", gamesHandler.UpdateOdds)
	}
}
