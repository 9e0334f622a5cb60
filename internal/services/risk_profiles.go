package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtside/courtside/internal/engine"
	"github.com/courtside/courtside/internal/models"
	"github.com/courtside/courtside/pkg/database"
)

// ErrInvalidBudget marks bankroll settings the staking model can't work with.
var ErrInvalidBudget = errors.New("invalid budget info")

// RiskProfileService manages user risk profiles: questionnaire scoring,
// profile CRUD, behavior-based recalibration and bet size guidance.
type RiskProfileService struct {
	db     *database.DB
	cache  *CacheService
	alerts *AlertService
	logger *logrus.Logger
}

// NewRiskProfileService creates a new risk profile service.
func NewRiskProfileService(db *database.DB, cache *CacheService, alerts *AlertService, logger *logrus.Logger) *RiskProfileService {
	return &RiskProfileService{
		db:     db,
		cache:  cache,
		alerts: alerts,
		logger: logger,
	}
}

// GetQuestionnaire returns the risk assessment form. The form is static per
// release, so it caches aggressively.
func (s *RiskProfileService) GetQuestionnaire(ctx context.Context) []engine.Question {
	var questions []engine.Question
	if err := s.cache.Get(ctx, QuestionnaireCacheKey(), &questions); err == nil {
		return questions
	}

	questions = engine.Questionnaire()
	if err := s.cache.Set(ctx, QuestionnaireCacheKey(), questions, 24*time.Hour); err != nil {
		s.logger.Warnf("Failed to cache questionnaire: %v", err)
	}
	return questions
}

// SubmitQuestionnaire scores the responses and creates or updates the
// user's profile with the resulting assessment and the submitted bankroll.
// The budget is validated before anything is written, so a bad payload never
// leaves a partial profile behind. The budget's max bet percentage always
// comes from the assessment, not the payload.
func (s *RiskProfileService) SubmitQuestionnaire(ctx context.Context, userID string, responses []engine.QuestionnaireResponse, budget models.BudgetInfo) (*models.UserProfile, error) {
	if err := validateBudget(budget); err != nil {
		return nil, err
	}
	assessment := engine.ScoreQuestionnaire(responses)

	profile, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.ApplyAssessment(assessment)
	if budget.Currency == "" {
		budget.Currency = profile.Budget.Currency
	}
	budget.MaxBetPercentage = assessment.MaxBetPercentage
	profile.Budget = budget

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save profile for user %s: %w", userID, err)
	}

	s.invalidateRecommendations(ctx, userID)
	return profile, nil
}

// GetProfile returns the user's profile, nil when none exists yet.
func (s *RiskProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile for user %s: %w", userID, err)
	}
	return &profile, nil
}

// ProfileUpdate carries the fields users can change directly. Nil fields
// are left untouched.
type ProfileUpdate struct {
	Budget        *models.BudgetInfo `json:"budget,omitempty"`
	BetTypes      []string           `json:"bet_types,omitempty"`
	MinOdds       *int               `json:"min_odds,omitempty"`
	MaxOdds       *int               `json:"max_odds,omitempty"`
	MaxParlayLegs *int               `json:"max_parlay_legs,omitempty"`
	FavoriteTeams []string           `json:"favorite_teams,omitempty"`
	PhoneNumber   *string            `json:"phone_number,omitempty"`
}

// UpdateProfile applies direct edits to budget and preferences.
func (s *RiskProfileService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.UserProfile, error) {
	profile, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Budget != nil {
		if err := validateBudget(*update.Budget); err != nil {
			return nil, err
		}
		if update.Budget.Currency == "" {
			update.Budget.Currency = profile.Budget.Currency
		}
		profile.Budget = *update.Budget
	}
	if update.BetTypes != nil {
		profile.Preferences.BetTypes = update.BetTypes
	}
	if update.MinOdds != nil {
		profile.Preferences.MinOdds = *update.MinOdds
	}
	if update.MaxOdds != nil {
		profile.Preferences.MaxOdds = *update.MaxOdds
	}
	if update.MaxParlayLegs != nil {
		if *update.MaxParlayLegs < 2 || *update.MaxParlayLegs > 12 {
			return nil, fmt.Errorf("max parlay legs must be between 2 and 12")
		}
		profile.Preferences.MaxParlayLegs = *update.MaxParlayLegs
	}
	if update.FavoriteTeams != nil {
		profile.Preferences.FavoriteTeams = update.FavoriteTeams
	}
	if update.PhoneNumber != nil {
		profile.PhoneNumber = *update.PhoneNumber
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save profile for user %s: %w", userID, err)
	}

	s.invalidateRecommendations(ctx, userID)
	return profile, nil
}

// Recalibrate nudges the stored appetite toward what the user's actual
// betting history shows, one point at a time.
func (s *RiskProfileService) Recalibrate(ctx context.Context, userID string, history []engine.BetRecord) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}

	analysis := engine.AnalyzeBettingBehavior(history)
	previous := profile.RiskProfile.Appetite
	profile.RiskProfile.Appetite = engine.NudgeAppetite(previous, analysis.RiskScore)
	profile.RiskProfile.Category = engine.CategoryForScore(profile.RiskProfile.Appetite)
	profile.RiskProfile.LastUpdated = time.Now()

	if len(history) > 0 {
		profile.Preferences.BetTypes = analysis.PreferredBetTypes
		profile.Preferences.MinOdds = analysis.MinOdds
		profile.Preferences.MaxOdds = analysis.MaxOdds
		profile.Preferences.MaxParlayLegs = analysis.MaxParlayLegs
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save profile for user %s: %w", userID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"observed": analysis.RiskScore,
		"appetite": fmt.Sprintf("%d -> %d", previous, profile.RiskProfile.Appetite),
	}).Info("Risk profile recalibrated")

	s.invalidateRecommendations(ctx, userID)
	return profile, nil
}

// GetBetSizes returns the stake ranges for the user's current profile.
func (s *RiskProfileService) GetBetSizes(ctx context.Context, userID string) (*engine.BetSizes, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}

	sizes := engine.RecommendedBetSizes(profile.RiskProfile.Appetite, profile.Bettor().Budget)
	return &sizes, nil
}

// RecordBetOutcome updates performance counters with a settled bet and
// fires a loss-limit alert when cumulative losses cross the configured cap.
func (s *RiskProfileService) RecordBetOutcome(ctx context.Context, userID, betType string, wagered, returns float64, won bool) (*models.UserProfile, error) {
	profile, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.RecordBet(betType, wagered, returns, won)
	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save profile for user %s: %w", userID, err)
	}

	if limit := profile.Budget.LossLimit; limit > 0 {
		losses := profile.Performance.TotalWagered - profile.Performance.TotalReturns
		if losses >= limit && s.alerts != nil {
			s.alerts.NotifyLossLimit(ctx, userID, losses, limit)
		}
	}

	return profile, nil
}

func validateBudget(b models.BudgetInfo) error {
	if b.Amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidBudget)
	}
	switch b.Period {
	case engine.PeriodDaily, engine.PeriodWeekly, engine.PeriodMonthly:
	default:
		return fmt.Errorf("%w: unknown period %q", ErrInvalidBudget, b.Period)
	}
	if b.LossLimit < 0 {
		return fmt.Errorf("%w: loss limit cannot be negative", ErrInvalidBudget)
	}
	return nil
}

func (s *RiskProfileService) getOrCreate(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = models.NewUserProfile(userID)
		if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
			return nil, fmt.Errorf("failed to create profile for user %s: %w", userID, err)
		}
	}
	return profile, nil
}

func (s *RiskProfileService) invalidateRecommendations(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, RecommendationsCacheKey(userID)); err != nil {
		s.logger.Warnf("Failed to invalidate recommendations cache for user %s: %v", userID, err)
	}
}
