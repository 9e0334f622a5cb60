package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/courtside/courtside/internal/services"
	"github.com/courtside/courtside/pkg/utils"
)

type RecommendationsHandler struct {
	recommendations *services.RecommendationService
}

func NewRecommendationsHandler(recommendations *services.RecommendationService) *RecommendationsHandler {
	return &RecommendationsHandler{recommendations: recommendations}
}

// GetRecommendations returns ranked bet suggestions for the user.
// Pass ?fresh=true to bypass the cache.
// GET /api/v1/users/:userId/recommendations
func (h *RecommendationsHandler) GetRecommendations(c *gin.Context) {
	fresh := c.Query("fresh") == "true"

	recs, err := h.recommendations.GetRecommendations(c.Request.Context(), c.Param("userId"), fresh)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			utils.SendNotFound(c, "Profile not found, complete the risk questionnaire first")
			return
		}
		utils.SendInternalError(c, "Failed to build recommendations")
		return
	}
	utils.SendSuccess(c, recs)
}

// GetGameRecommendations narrows the user's recommendations to one game
// GET /api/v1/users/:userId/recommendations/games/:gameId
func (h *RecommendationsHandler) GetGameRecommendations(c *gin.Context) {
	recs, err := h.recommendations.GameRecommendations(c.Request.Context(), c.Param("userId"), c.Param("gameId"))
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			utils.SendNotFound(c, "Profile not found, complete the risk questionnaire first")
			return
		}
		utils.SendInternalError(c, "Failed to build recommendations")
		return
	}
	utils.SendSuccess(c, recs)
}
