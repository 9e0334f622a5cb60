package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtside/courtside/internal/models"
	"github.com/courtside/courtside/pkg/database"
)

// Event broadcast on a user's channel when their loss limit is hit.
const EventLossLimitAlert = "loss_limit_alert"

// How long to suppress repeat alerts for the same user.
const lossLimitCooldown = 24 * time.Hour

// AlertService notifies users of responsible-gambling events over SMS and
// websocket. SMS delivery is best effort; a failed send never blocks the
// caller.
type AlertService struct {
	db     *database.DB
	sms    SMSService
	hub    *WebSocketHub
	logger *logrus.Logger

	mu        sync.Mutex
	lastAlert map[string]time.Time
}

// NewAlertService creates a new alert service. sms may be nil when SMS
// delivery is disabled; websocket alerts still go out.
func NewAlertService(db *database.DB, sms SMSService, hub *WebSocketHub, logger *logrus.Logger) *AlertService {
	return &AlertService{
		db:        db,
		sms:       sms,
		hub:       hub,
		logger:    logger,
		lastAlert: make(map[string]time.Time),
	}
}

// LossLimitAlert is the websocket payload for a loss limit breach.
type LossLimitAlert struct {
	UserID    string    `json:"user_id"`
	Losses    float64   `json:"losses"`
	Limit     float64   `json:"limit"`
	Timestamp time.Time `json:"timestamp"`
}

// NotifyLossLimit tells the user their cumulative losses crossed the limit
// they configured. At most one alert per user per cooldown window.
func (s *AlertService) NotifyLossLimit(ctx context.Context, userID string, losses, limit float64) {
	if !s.shouldAlert(userID) {
		return
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"losses":  losses,
		"limit":   limit,
	}).Warn("Loss limit reached")

	if s.hub != nil {
		s.hub.BroadcastToUser(userID, EventLossLimitAlert, LossLimitAlert{
			UserID:    userID,
			Losses:    losses,
			Limit:     limit,
			Timestamp: time.Now(),
		})
	}

	if s.sms == nil {
		return
	}
	phone, err := s.phoneNumber(ctx, userID)
	if err != nil {
		s.logger.Warnf("Loss limit SMS skipped for user %s: %v", userID, err)
		return
	}
	if phone == "" {
		return
	}

	message := fmt.Sprintf(
		"Courtside alert: your losses this period ($%.2f) have reached your loss limit ($%.2f). Consider taking a break.",
		losses, limit,
	)
	if err := s.sms.SendMessage(phone, message); err != nil {
		s.logger.Warnf("Failed to send loss limit SMS to user %s: %v", userID, err)
	}
}

func (s *AlertService) phoneNumber(ctx context.Context, userID string) (string, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).
		Select("phone_number").
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return profile.PhoneNumber, nil
}

func (s *AlertService) shouldAlert(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.lastAlert[userID]; ok && time.Since(last) < lossLimitCooldown {
		return false
	}
	s.lastAlert[userID] = time.Now()
	return true
}
