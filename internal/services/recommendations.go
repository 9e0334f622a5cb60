package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtside/courtside/internal/engine"
	"github.com/courtside/courtside/pkg/database"
)

// Event broadcast on user channels when fresh recommendations exist.
const EventRecommendations = "recommendations"

// RecommendationService matches live game forecasts against a user's risk
// profile and budget.
type RecommendationService struct {
	db          *database.DB
	cache       *CacheService
	hub         *WebSocketHub
	predictions *PredictionService
	profiles    *RiskProfileService
	logger      *logrus.Logger
	cacheTTL    time.Duration
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(
	db *database.DB,
	cache *CacheService,
	hub *WebSocketHub,
	predictions *PredictionService,
	profiles *RiskProfileService,
	logger *logrus.Logger,
) *RecommendationService {
	return &RecommendationService{
		db:          db,
		cache:       cache,
		hub:         hub,
		predictions: predictions,
		profiles:    profiles,
		logger:      logger,
		cacheTTL:    time.Minute,
	}
}

// GetRecommendations builds ranked, sized suggestions for the user from the
// currently active games. Results are cached for a minute; pass fresh=true
// to bypass.
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID string, fresh bool) (*engine.Recommendations, error) {
	if !fresh {
		var cached engine.Recommendations
		if err := s.cache.Get(ctx, RecommendationsCacheKey(userID), &cached); err == nil {
			return &cached, nil
		}
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}

	games, err := s.predictions.GetActiveGames(ctx)
	if err != nil {
		return nil, err
	}

	markets := make([]engine.GameMarket, 0, len(games))
	for i := range games {
		markets = append(markets, games[i].Market())
	}

	recs := engine.GenerateRecommendations(profile.Bettor(), markets)

	if err := s.cache.Set(ctx, RecommendationsCacheKey(userID), recs, s.cacheTTL); err != nil {
		s.logger.Warnf("Failed to cache recommendations for user %s: %v", userID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":      userID,
		"active_games": len(markets),
		"single_bets":  len(recs.SingleBets),
		"parlays":      len(recs.Parlays),
	}).Debug("Generated recommendations")

	return &recs, nil
}

// PushRecommendations recomputes and broadcasts recommendations to the
// user's websocket channel.
func (s *RecommendationService) PushRecommendations(ctx context.Context, userID string) error {
	recs, err := s.GetRecommendations(ctx, userID, true)
	if err != nil {
		return err
	}
	s.hub.BroadcastToUser(userID, EventRecommendations, recs)
	return nil
}

// GameRecommendations narrows a user's recommendations to one game.
func (s *RecommendationService) GameRecommendations(ctx context.Context, userID, gameID string) (*engine.Recommendations, error) {
	all, err := s.GetRecommendations(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	out := engine.Recommendations{
		SingleBets: []engine.BetRecommendation{},
		Parlays:    []engine.ParlayRecommendation{},
	}
	for _, bet := range all.SingleBets {
		if bet.GameID == gameID {
			out.SingleBets = append(out.SingleBets, bet)
		}
	}
	for _, parlay := range all.Parlays {
		for _, leg := range parlay.Legs {
			if leg.GameID == gameID {
				out.Parlays = append(out.Parlays, parlay)
				break
			}
		}
	}
	return &out, nil
}
