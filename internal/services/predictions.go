package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/courtside/courtside/internal/engine"
	"github.com/courtside/courtside/internal/models"
	"github.com/courtside/courtside/pkg/database"
)

// Events broadcast on game channels.
const (
	EventGameUpdate       = "game_update"
	EventPredictionUpdate = "prediction_update"
)

// Sentinel errors callers can match with errors.Is.
var (
	ErrGameNotFound    = errors.New("game not found")
	ErrProfileNotFound = errors.New("profile not found")
)

// PredictionService refreshes game state and model output as boxscore data
// arrives, persisting and fanning out every update.
type PredictionService struct {
	db          *database.DB
	cache       *CacheService
	hub         *WebSocketHub
	ratings     engine.RatingProvider
	logger      *logrus.Logger
	historySize int
	cacheTTL    time.Duration
}

// NewPredictionService creates a new prediction service.
func NewPredictionService(
	db *database.DB,
	cache *CacheService,
	hub *WebSocketHub,
	ratings engine.RatingProvider,
	logger *logrus.Logger,
	historySize int,
	cacheTTL time.Duration,
) *PredictionService {
	if historySize <= 0 {
		historySize = 120
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &PredictionService{
		db:          db,
		cache:       cache,
		hub:         hub,
		ratings:     ratings,
		logger:      logger,
		historySize: historySize,
		cacheTTL:    cacheTTL,
	}
}

// IngestBoxscore merges a freshly fetched boxscore into the stored game,
// recomputes predictions and broadcasts the result. Odds and existing
// predictions survive the merge; only live state is overwritten.
func (s *PredictionService) IngestBoxscore(ctx context.Context, fetched *models.Game) (*models.Game, error) {
	var game models.Game
	err := s.db.WithContext(ctx).Where("game_id = ?", fetched.GameID).First(&game).Error
	switch {
	case err == nil:
		s.clampScoreRegression(&game, fetched)
		s.applyMomentum(&game, fetched)
		game.Season = fetched.Season
		game.Date = fetched.Date
		game.Status = fetched.Status
		game.Period = fetched.Period
		game.TimeRemaining = fetched.TimeRemaining
		game.HomeTeam = fetched.HomeTeam
		game.AwayTeam = fetched.AwayTeam
		game.LastUpdated = time.Now()
	case isNotFound(err):
		game = *fetched
	default:
		return nil, fmt.Errorf("failed to load game %s: %w", fetched.GameID, err)
	}

	if game.IsActive() {
		if err := s.refreshPredictions(&game); err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Save(&game).Error; err != nil {
		return nil, fmt.Errorf("failed to save game %s: %w", game.GameID, err)
	}

	s.cacheAndBroadcast(ctx, &game)
	return &game, nil
}

// RecomputePredictions reruns the models for one stored game without new
// feed data, e.g. after an odds update.
func (s *PredictionService) RecomputePredictions(ctx context.Context, gameID string) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).First(&game).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
		}
		return nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}

	if err := s.refreshPredictions(&game); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&game).Error; err != nil {
		return nil, fmt.Errorf("failed to save game %s: %w", game.GameID, err)
	}

	s.cacheAndBroadcast(ctx, &game)
	return &game, nil
}

// GetActiveGames returns all in-progress games, cached briefly to keep the
// hot path off the database.
func (s *PredictionService) GetActiveGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := s.cache.Get(ctx, ActiveGamesCacheKey(), &games); err == nil {
		return games, nil
	}

	if err := s.db.WithContext(ctx).
		Where("status = ?", models.StatusInProgress).
		Order("date").
		Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to query active games: %w", err)
	}

	if err := s.cache.Set(ctx, ActiveGamesCacheKey(), games, s.cacheTTL); err != nil {
		s.logger.Warnf("Failed to cache active games: %v", err)
	}
	return games, nil
}

// GetGame returns one game by its feed ID.
func (s *PredictionService) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).First(&game).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}
	return &game, nil
}

// UpdateOdds stores a fresh odds snapshot and recomputes predictions so
// total recommendations see the new line.
func (s *PredictionService) UpdateOdds(ctx context.Context, gameID string, odds models.GameOdds) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).Where("game_id = ?", gameID).First(&game).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
		}
		return nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}

	if odds.Pregame != (models.OddsLine{}) {
		odds.Pregame.LastUpdated = time.Now()
		game.Odds.Pregame = odds.Pregame
	}
	if odds.Live != (models.OddsLine{}) {
		odds.Live.LastUpdated = time.Now()
		game.Odds.Live = odds.Live
	}

	if err := s.db.WithContext(ctx).Save(&game).Error; err != nil {
		return nil, fmt.Errorf("failed to save odds for game %s: %w", gameID, err)
	}

	s.cacheAndBroadcast(ctx, &game)
	return &game, nil
}

// refreshPredictions runs all three models against the game's current state.
func (s *PredictionService) refreshPredictions(game *models.Game) error {
	snapshot := game.Snapshot()
	now := time.Now()

	wp := engine.ProjectWinProbability(snapshot, s.ratings)
	spread := engine.ProjectSpread(snapshot, s.ratings)
	total := engine.ProjectTotal(snapshot, s.ratings)

	game.Predictions = models.Predictions{
		WinProbability: models.WinProbabilityPrediction{
			Home:        wp.Home,
			Away:        wp.Away,
			Confidence:  wp.Confidence,
			LastUpdated: now,
		},
		ProjectedSpread: models.ValuePrediction{
			Value:       spread.Spread,
			Confidence:  spread.Confidence,
			LastUpdated: now,
		},
		ProjectedTotal: models.ValuePrediction{
			Value:       total.Total,
			Confidence:  total.Confidence,
			LastUpdated: now,
		},
	}

	if err := game.AppendPredictionSample(now, s.historySize); err != nil {
		return fmt.Errorf("failed to append prediction sample for game %s: %w", game.GameID, err)
	}
	return nil
}

// clampScoreRegression holds a live score at its stored value when the feed
// reports a lower one. Scores never decrease while a game is in progress, so
// a lower number is stale data from a lagging edge node.
func (s *PredictionService) clampScoreRegression(stored *models.Game, fetched *models.Game) {
	if stored.Status != models.StatusInProgress || fetched.Status != models.StatusInProgress {
		return
	}
	if fetched.HomeTeam.Score < stored.HomeTeam.Score {
		s.logger.WithFields(logrus.Fields{
			"game_id": stored.GameID,
			"stored":  stored.HomeTeam.Score,
			"fetched": fetched.HomeTeam.Score,
		}).Warn("Ignoring home score regression")
		fetched.HomeTeam.Score = stored.HomeTeam.Score
	}
	if fetched.AwayTeam.Score < stored.AwayTeam.Score {
		s.logger.WithFields(logrus.Fields{
			"game_id": stored.GameID,
			"stored":  stored.AwayTeam.Score,
			"fetched": fetched.AwayTeam.Score,
		}).Warn("Ignoring away score regression")
		fetched.AwayTeam.Score = stored.AwayTeam.Score
	}
}

// applyMomentum updates scoring run tracking from the score delta between
// the stored game and the fresh boxscore.
func (s *PredictionService) applyMomentum(stored *models.Game, fetched *models.Game) {
	homeDelta := fetched.HomeTeam.Score - stored.HomeTeam.Score
	awayDelta := fetched.AwayTeam.Score - stored.AwayTeam.Score
	if homeDelta <= 0 && awayDelta <= 0 {
		return
	}

	m := &stored.Momentum
	now := time.Now()

	if homeDelta > 0 {
		if m.LastScored == "home" {
			m.HomeTeamRun += homeDelta
		} else {
			m.HomeTeamRun = homeDelta
		}
		m.AwayTeamRun = 0
		m.LastScored = "home"
		m.RecentScoring = append(m.RecentScoring, models.ScoringEvent{Team: "home", Points: homeDelta, Timestamp: now})
	}
	if awayDelta > 0 {
		if m.LastScored == "away" {
			m.AwayTeamRun += awayDelta
		} else {
			m.AwayTeamRun = awayDelta
		}
		m.HomeTeamRun = 0
		m.LastScored = "away"
		m.RecentScoring = append(m.RecentScoring, models.ScoringEvent{Team: "away", Points: awayDelta, Timestamp: now})
	}

	// Keep the momentum window bounded.
	if len(m.RecentScoring) > 20 {
		m.RecentScoring = m.RecentScoring[len(m.RecentScoring)-20:]
	}
	fetched.Momentum = *m
}

func (s *PredictionService) cacheAndBroadcast(ctx context.Context, game *models.Game) {
	if err := s.cache.Set(ctx, GamePredictionCacheKey(game.GameID), game.Predictions, s.cacheTTL); err != nil {
		s.logger.Warnf("Failed to cache predictions for game %s: %v", game.GameID, err)
	}
	// Active-game list may have changed shape; drop it rather than rebuild.
	if err := s.cache.Delete(ctx, ActiveGamesCacheKey()); err != nil {
		s.logger.Warnf("Failed to invalidate active games cache: %v", err)
	}

	s.hub.BroadcastGameUpdate(game.GameID, EventGameUpdate, game)
	s.hub.BroadcastGameUpdate(game.GameID, EventPredictionUpdate, game.Predictions)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
