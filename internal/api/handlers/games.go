package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/courtside/courtside/internal/models"
	"github.com/courtside/courtside/internal/services"
	"github.com/courtside/courtside/pkg/utils"
)

type GamesHandler struct {
	predictions *services.PredictionService
}

func NewGamesHandler(predictions *services.PredictionService) *GamesHandler {
	return &GamesHandler{predictions: predictions}
}

// ListActiveGames returns all in-progress games with current predictions
// GET /api/v1/games/active
func (h *GamesHandler) ListActiveGames(c *gin.Context) {
	games, err := h.predictions.GetActiveGames(c.Request.Context())
	if err != nil {
		utils.SendInternalError(c, "Failed to load active games")
		return
	}
	utils.SendSuccess(c, games)
}

// GetGame returns one game by feed ID
// GET /api/v1/games/:gameId
func (h *GamesHandler) GetGame(c *gin.Context) {
	game, err := h.predictions.GetGame(c.Request.Context(), c.Param("gameId"))
	if err != nil {
		utils.SendInternalError(c, "Failed to load game")
		return
	}
	if game == nil {
		utils.SendNotFound(c, "Game not found")
		return
	}
	utils.SendSuccess(c, game)
}

// GetPredictions returns the game's current predictions plus the recorded
// history of model output over the course of the game
// GET /api/v1/games/:gameId/predictions
func (h *GamesHandler) GetPredictions(c *gin.Context) {
	game, err := h.predictions.GetGame(c.Request.Context(), c.Param("gameId"))
	if err != nil {
		utils.SendInternalError(c, "Failed to load game")
		return
	}
	if game == nil {
		utils.SendNotFound(c, "Game not found")
		return
	}

	history := []models.PredictionSample{}
	if len(game.PredictionHistory) > 0 {
		if err := json.Unmarshal(game.PredictionHistory, &history); err != nil {
			utils.SendInternalError(c, "Failed to decode prediction history")
			return
		}
	}

	utils.SendSuccess(c, gin.H{
		"game_id":     game.GameID,
		"status":      game.Status,
		"predictions": game.Predictions,
		"history":     history,
	})
}

// UpdateOdds stores a fresh odds snapshot for the game
// PUT /api/v1/games/:gameId/odds
func (h *GamesHandler) UpdateOdds(c *gin.Context) {
	var odds models.GameOdds
	if err := c.ShouldBindJSON(&odds); err != nil {
		utils.SendValidationError(c, "Invalid odds payload", err.Error())
		return
	}

	game, err := h.predictions.UpdateOdds(c.Request.Context(), c.Param("gameId"), odds)
	if err != nil {
		if errors.Is(err, services.ErrGameNotFound) {
			utils.SendNotFound(c, "Game not found")
			return
		}
		utils.SendInternalError(c, "Failed to update odds")
		return
	}
	utils.SendSuccess(c, game)
}
