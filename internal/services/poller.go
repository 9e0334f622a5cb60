package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/courtside/courtside/internal/models"
	"github.com/courtside/courtside/internal/providers"
	"github.com/courtside/courtside/pkg/database"
)

// ScoreboardPoller drives the live pipeline: on a fixed interval it pulls
// the day's scoreboard, fetches boxscores for games in play and hands them
// to the prediction service.
type ScoreboardPoller struct {
	db          *database.DB
	client      *providers.NBAStatsClient
	predictions *PredictionService
	logger      *logrus.Logger
	cron        *cron.Cron
	mu          sync.Mutex
	isRunning   bool
	interval    time.Duration
}

// NewScoreboardPoller creates a new scoreboard poller.
func NewScoreboardPoller(
	db *database.DB,
	client *providers.NBAStatsClient,
	predictions *PredictionService,
	logger *logrus.Logger,
	interval time.Duration,
) *ScoreboardPoller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ScoreboardPoller{
		db:          db,
		client:      client,
		predictions: predictions,
		logger:      logger,
		cron:        cron.New(),
		interval:    interval,
	}
}

// Start schedules the polling loop and a nightly sweep for games the feed
// never closed out.
func (s *ScoreboardPoller) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scoreboard poller is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval.String())
	if _, err := s.cron.AddFunc(schedule, s.poll); err != nil {
		return fmt.Errorf("failed to schedule scoreboard poll: %w", err)
	}

	if _, err := s.cron.AddFunc("0 4 * * *", s.closeStaleGames); err != nil { // 4 AM daily
		return fmt.Errorf("failed to schedule stale game sweep: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	// Run initial poll
	go s.poll()

	s.logger.Infof("Scoreboard poller started (interval %s)", s.interval)
	return nil
}

// Stop halts the polling loop, waiting for an in-flight poll to finish.
func (s *ScoreboardPoller) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Scoreboard poller stopped")
}

// IsRunning reports whether the polling loop is active.
func (s *ScoreboardPoller) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// PollOnce runs one scoreboard pass immediately, outside the schedule.
func (s *ScoreboardPoller) PollOnce(ctx context.Context) error {
	return s.pollScoreboard(ctx)
}

func (s *ScoreboardPoller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	if err := s.pollScoreboard(ctx); err != nil {
		s.logger.Errorf("Scoreboard poll failed: %v", err)
	}
}

func (s *ScoreboardPoller) pollScoreboard(ctx context.Context) error {
	entries, err := s.client.GetScoreboard(ctx, time.Now())
	if err != nil {
		return err
	}

	updated := 0
	for _, entry := range entries {
		if !s.needsBoxscore(ctx, entry) {
			continue
		}

		game, err := s.client.GetBoxscore(ctx, entry.GameID)
		if err != nil {
			s.logger.Errorf("Failed to fetch boxscore for game %s: %v", entry.GameID, err)
			continue
		}
		if _, err := s.predictions.IngestBoxscore(ctx, game); err != nil {
			s.logger.Errorf("Failed to ingest boxscore for game %s: %v", entry.GameID, err)
			continue
		}
		updated++
	}

	if updated > 0 {
		s.logger.WithFields(logrus.Fields{
			"games":   len(entries),
			"updated": updated,
		}).Info("Scoreboard poll complete")
	}
	return nil
}

// needsBoxscore decides whether an entry is worth a boxscore fetch: games in
// play always, finished games once more if we still have them live locally.
func (s *ScoreboardPoller) needsBoxscore(ctx context.Context, entry providers.ScoreboardEntry) bool {
	switch entry.Status {
	case models.StatusInProgress:
		return true
	case models.StatusFinal:
		stored, err := s.predictions.GetGame(ctx, entry.GameID)
		if err != nil {
			s.logger.Warnf("Failed to check stored game %s: %v", entry.GameID, err)
			return false
		}
		return stored != nil && stored.Status != models.StatusFinal
	default:
		return false
	}
}

// closeStaleGames finalizes games the feed left in progress, so they stop
// surfacing as live and polluting recommendations.
func (s *ScoreboardPoller) closeStaleGames() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-24 * time.Hour)
	result := s.db.WithContext(ctx).
		Model(&models.Game{}).
		Where("status = ? AND date < ?", models.StatusInProgress, cutoff).
		Update("status", models.StatusFinal)
	if result.Error != nil {
		s.logger.Errorf("Stale game sweep failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		s.logger.Infof("Closed %d stale games", result.RowsAffected)
	}
}
