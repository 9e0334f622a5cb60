package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/courtside/courtside/internal/engine"
)

type UserProfile struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      string `gorm:"uniqueIndex;not null" json:"user_id"`
	PhoneNumber string `json:"phone_number,omitempty"`

	RiskProfile RiskProfile `gorm:"type:jsonb" json:"risk_profile"`
	Budget      BudgetInfo  `gorm:"type:jsonb" json:"budget"`
	Preferences Preferences `gorm:"type:jsonb" json:"preferences"`
	Performance Performance `gorm:"type:jsonb" json:"performance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (UserProfile) TableName() string {
	return "user_profiles"
}

// RiskProfile is the user's assessed risk posture.
type RiskProfile struct {
	Appetite            int       `json:"appetite"` // 1-10
	Category            string    `json:"category"`
	VolatilityTolerance int       `json:"volatility_tolerance"`
	LastUpdated         time.Time `json:"last_updated,omitempty"`
}

// BudgetInfo is the user's bankroll configuration.
type BudgetInfo struct {
	Amount           float64 `json:"amount"`
	Period           string  `json:"period"` // Daily, Weekly or Monthly
	MaxBetPercentage float64 `json:"max_bet_percentage"`
	LossLimit        float64 `json:"loss_limit"`
	Currency         string  `json:"currency"`
}

// Preferences are the betting preferences derived from the questionnaire or
// set directly by the user.
type Preferences struct {
	BetTypes      []string `json:"bet_types"`
	MinOdds       int      `json:"min_odds"`
	MaxOdds       int      `json:"max_odds"`
	MaxParlayLegs int      `json:"max_parlay_legs"`
	FavoriteTeams []string `json:"favorite_teams,omitempty"`
}

// Performance tracks settled bet outcomes.
type Performance struct {
	TotalBets          int                           `json:"total_bets"`
	WonBets            int                           `json:"won_bets"`
	TotalWagered       float64                       `json:"total_wagered"`
	TotalReturns       float64                       `json:"total_returns"`
	CurrentStreak      int                           `json:"current_streak"` // negative while losing
	BestStreak         int                           `json:"best_streak"`
	BetTypePerformance map[string]BetTypePerformance `json:"bet_type_performance,omitempty"`
}

// BetTypePerformance is the per-type won/placed split.
type BetTypePerformance struct {
	Bets int `json:"bets"`
	Wins int `json:"wins"`
}

// WinRate returns the settled win percentage, 0 before any bet.
func (p Performance) WinRate() float64 {
	if p.TotalBets == 0 {
		return 0
	}
	return float64(p.WonBets) / float64(p.TotalBets) * 100
}

// ROI returns the return on total wagered as a percentage.
func (p Performance) ROI() float64 {
	if p.TotalWagered == 0 {
		return 0
	}
	return (p.TotalReturns - p.TotalWagered) / p.TotalWagered * 100
}

// NewUserProfile builds a profile with moderate defaults for a user who
// hasn't completed the questionnaire yet.
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID: userID,
		RiskProfile: RiskProfile{
			Appetite:            5,
			Category:            engine.CategoryModerate,
			VolatilityTolerance: 5,
			LastUpdated:         time.Now(),
		},
		Budget: BudgetInfo{
			Amount:           100,
			Period:           engine.PeriodWeekly,
			MaxBetPercentage: 10,
			Currency:         "USD",
		},
		Preferences: Preferences{
			BetTypes:      []string{engine.BetTypeMoneyline, engine.BetTypeSpread, engine.BetTypeTotal},
			MinOdds:       -200,
			MaxOdds:       1000,
			MaxParlayLegs: 4,
		},
	}
}

// ApplyAssessment overwrites the risk posture and preferences with a fresh
// questionnaire result.
func (u *UserProfile) ApplyAssessment(a engine.RiskAssessment) {
	u.RiskProfile.Appetite = a.Score
	u.RiskProfile.Category = a.Category
	u.RiskProfile.LastUpdated = time.Now()
	u.Budget.MaxBetPercentage = a.MaxBetPercentage
	u.Preferences.BetTypes = a.BetTypes
	u.Preferences.MinOdds = a.MinOdds
	u.Preferences.MaxOdds = a.MaxOdds
	u.Preferences.MaxParlayLegs = a.MaxParlayLegs
}

// Bettor converts the profile into the value the recommendation engine
// consumes.
func (u *UserProfile) Bettor() engine.BettorProfile {
	return engine.BettorProfile{
		Appetite:      u.RiskProfile.Appetite,
		BetTypes:      u.Preferences.BetTypes,
		MinOdds:       u.Preferences.MinOdds,
		MaxOdds:       u.Preferences.MaxOdds,
		MaxParlayLegs: u.Preferences.MaxParlayLegs,
		Budget: engine.Budget{
			Amount:           u.Budget.Amount,
			Period:           u.Budget.Period,
			MaxBetPercentage: u.Budget.MaxBetPercentage,
		},
	}
}

// RecordBet updates the performance counters with one settled bet.
func (u *UserProfile) RecordBet(betType string, wagered, returns float64, won bool) {
	perf := &u.Performance
	perf.TotalBets++
	perf.TotalWagered += wagered
	perf.TotalReturns += returns

	if won {
		perf.WonBets++
		if perf.CurrentStreak < 0 {
			perf.CurrentStreak = 0
		}
		perf.CurrentStreak++
		if perf.CurrentStreak > perf.BestStreak {
			perf.BestStreak = perf.CurrentStreak
		}
	} else {
		if perf.CurrentStreak > 0 {
			perf.CurrentStreak = 0
		}
		perf.CurrentStreak--
	}

	if perf.BetTypePerformance == nil {
		perf.BetTypePerformance = map[string]BetTypePerformance{}
	}
	tp := perf.BetTypePerformance[betType]
	tp.Bets++
	if won {
		tp.Wins++
	}
	perf.BetTypePerformance[betType] = tp
}

// Scan implements the sql.Scanner interface for JSONB
func (r *RiskProfile) Scan(value interface{}) error {
	return scanJSON(value, r)
}

// Value implements the driver.Valuer interface for JSONB
func (r RiskProfile) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements the sql.Scanner interface for JSONB
func (b *BudgetInfo) Scan(value interface{}) error {
	return scanJSON(value, b)
}

// Value implements the driver.Valuer interface for JSONB
func (b BudgetInfo) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements the sql.Scanner interface for JSONB
func (p *Preferences) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// Value implements the driver.Valuer interface for JSONB
func (p Preferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface for JSONB
func (p *Performance) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// Value implements the driver.Valuer interface for JSONB
func (p Performance) Value() (driver.Value, error) {
	return json.Marshal(p)
}
