package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/courtside/courtside/internal/engine"
	"github.com/courtside/courtside/internal/models"
	"github.com/courtside/courtside/internal/services"
	"github.com/courtside/courtside/pkg/utils"
)

type ProfilesHandler struct {
	profiles *services.RiskProfileService
}

func NewProfilesHandler(profiles *services.RiskProfileService) *ProfilesHandler {
	return &ProfilesHandler{profiles: profiles}
}

// GetQuestionnaire returns the risk assessment form
// GET /api/v1/risk-assessment/questionnaire
func (h *ProfilesHandler) GetQuestionnaire(c *gin.Context) {
	utils.SendSuccess(c, h.profiles.GetQuestionnaire(c.Request.Context()))
}

// GetProfile returns the user's risk profile
// GET /api/v1/users/:userId/profile
func (h *ProfilesHandler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		utils.SendInternalError(c, "Failed to load profile")
		return
	}
	if profile == nil {
		utils.SendNotFound(c, "Profile not found")
		return
	}
	utils.SendSuccess(c, profile)
}

// SubmitQuestionnaire scores the answers and upserts the user's profile.
// Both the responses and the budget are required; a rejected payload leaves
// no profile behind.
// POST /api/v1/users/:userId/profile
func (h *ProfilesHandler) SubmitQuestionnaire(c *gin.Context) {
	var req struct {
		Responses  []engine.QuestionnaireResponse `json:"responses" binding:"required,min=1,dive"`
		BudgetInfo *models.BudgetInfo             `json:"budget_info" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid questionnaire payload", err.Error())
		return
	}

	profile, err := h.profiles.SubmitQuestionnaire(c.Request.Context(), c.Param("userId"), req.Responses, *req.BudgetInfo)
	if err != nil {
		if errors.Is(err, services.ErrInvalidBudget) {
			utils.SendValidationError(c, "Invalid budget info", err.Error())
			return
		}
		utils.SendInternalError(c, "Failed to save profile")
		return
	}
	utils.SendSuccess(c, profile)
}

// UpdateProfile applies direct edits to budget and preferences
// PUT /api/v1/users/:userId/profile
func (h *ProfilesHandler) UpdateProfile(c *gin.Context) {
	var update services.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.SendValidationError(c, "Invalid profile payload", err.Error())
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), c.Param("userId"), update)
	if err != nil {
		utils.SendValidationError(c, "Failed to update profile", err.Error())
		return
	}
	utils.SendSuccess(c, profile)
}

// Recalibrate nudges the profile toward observed betting behavior
// POST /api/v1/users/:userId/profile/recalibrate
func (h *ProfilesHandler) Recalibrate(c *gin.Context) {
	var req struct {
		History []engine.BetRecord `json:"history"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid history payload", err.Error())
		return
	}

	profile, err := h.profiles.Recalibrate(c.Request.Context(), c.Param("userId"), req.History)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			utils.SendNotFound(c, "Profile not found")
			return
		}
		utils.SendInternalError(c, "Failed to recalibrate profile")
		return
	}
	utils.SendSuccess(c, profile)
}

// GetBetSizes returns stake ranges for the user's appetite and budget
// GET /api/v1/users/:userId/bet-sizes
func (h *ProfilesHandler) GetBetSizes(c *gin.Context) {
	sizes, err := h.profiles.GetBetSizes(c.Request.Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			utils.SendNotFound(c, "Profile not found")
			return
		}
		utils.SendInternalError(c, "Failed to compute bet sizes")
		return
	}
	utils.SendSuccess(c, sizes)
}

// RecordBet settles one bet against the user's performance tracking
// POST /api/v1/users/:userId/bets
func (h *ProfilesHandler) RecordBet(c *gin.Context) {
	var req struct {
		Type    string  `json:"type" binding:"required"`
		Wagered float64 `json:"wagered" binding:"required,gt=0"`
		Returns float64 `json:"returns" binding:"gte=0"`
		Won     bool    `json:"won"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid bet payload", err.Error())
		return
	}

	profile, err := h.profiles.RecordBetOutcome(c.Request.Context(), c.Param("userId"), req.Type, req.Wagered, req.Returns, req.Won)
	if err != nil {
		utils.SendInternalError(c, "Failed to record bet")
		return
	}
	utils.SendSuccess(c, profile)
}
