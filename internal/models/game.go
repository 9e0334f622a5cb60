package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/courtside/courtside/internal/engine"
)

// Game statuses.
const (
	StatusScheduled  = "Scheduled"
	StatusInProgress = "In Progress"
	StatusFinal      = "Final"
	StatusPostponed  = "Postponed"
	StatusCanceled   = "Canceled"
)

type Game struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	GameID        string    `gorm:"uniqueIndex;not null" json:"game_id"` // NBA stats game ID
	Season        string    `gorm:"not null" json:"season"`              // e.g. "2024-25"
	Date          time.Time `gorm:"not null;index" json:"date"`
	Status        string    `gorm:"not null;default:Scheduled;index" json:"status"`
	Period        int       `gorm:"default:1" json:"period"`
	TimeRemaining float64   `json:"time_remaining"` // seconds left in the current period
	HomeTeam      TeamState `gorm:"type:jsonb" json:"home_team"`
	AwayTeam      TeamState `gorm:"type:jsonb" json:"away_team"`
	Momentum      Momentum  `gorm:"type:jsonb" json:"momentum"`
	Odds          GameOdds  `gorm:"type:jsonb" json:"odds"`

	// Predictions holds the latest model output; the rolling history is a
	// separate JSONB column so updates don't rewrite the whole document.
	Predictions       Predictions    `gorm:"type:jsonb" json:"predictions"`
	PredictionHistory datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"prediction_history"`

	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Game) TableName() string {
	return "games"
}

// IsActive reports whether the game is live and should be polled, predicted
// and broadcast.
func (g *Game) IsActive() bool {
	return g.Status == StatusInProgress
}

// Snapshot converts the stored row into the value the prediction models
// consume.
func (g *Game) Snapshot() engine.GameSnapshot {
	return engine.GameSnapshot{
		GameID:       g.GameID,
		HomeTeam:     g.HomeTeam.Name,
		AwayTeam:     g.AwayTeam.Name,
		HomeScore:    g.HomeTeam.Score,
		AwayScore:    g.AwayTeam.Score,
		Period:       g.Period,
		ClockSeconds: g.TimeRemaining,
	}
}

// Market bundles the game's forecasts and posted odds for the
// recommendation engine.
func (g *Game) Market() engine.GameMarket {
	return engine.GameMarket{
		GameID:   g.GameID,
		HomeTeam: g.HomeTeam.Name,
		AwayTeam: g.AwayTeam.Name,
		WinProbability: engine.WinProbability{
			Home:       g.Predictions.WinProbability.Home,
			Away:       g.Predictions.WinProbability.Away,
			Confidence: g.Predictions.WinProbability.Confidence,
		},
		Spread: engine.SpreadProjection{
			Spread:     g.Predictions.ProjectedSpread.Value,
			Confidence: g.Predictions.ProjectedSpread.Confidence,
		},
		Total: engine.TotalProjection{
			Total:      g.Predictions.ProjectedTotal.Value,
			Confidence: g.Predictions.ProjectedTotal.Confidence,
		},
		Pregame: engine.MarketOdds{
			HomeMoneyline: g.Odds.Pregame.HomeMoneyline,
			AwayMoneyline: g.Odds.Pregame.AwayMoneyline,
			Spread:        g.Odds.Pregame.Spread,
			Total:         g.Odds.Pregame.Total,
		},
		Live: engine.MarketOdds{
			HomeMoneyline: g.Odds.Live.HomeMoneyline,
			AwayMoneyline: g.Odds.Live.AwayMoneyline,
			Spread:        g.Odds.Live.Spread,
			Total:         g.Odds.Live.Total,
		},
	}
}

// AppendPredictionSample pushes one history entry, keeping the newest
// maxSamples. Call after Predictions has been refreshed.
func (g *Game) AppendPredictionSample(at time.Time, maxSamples int) error {
	var history []PredictionSample
	if len(g.PredictionHistory) > 0 {
		if err := json.Unmarshal(g.PredictionHistory, &history); err != nil {
			return fmt.Errorf("failed to decode prediction history: %w", err)
		}
	}

	history = append(history, PredictionSample{
		Timestamp:          at,
		HomeWinProbability: g.Predictions.WinProbability.Home,
		AwayWinProbability: g.Predictions.WinProbability.Away,
		ProjectedSpread:    g.Predictions.ProjectedSpread.Value,
		ProjectedTotal:     g.Predictions.ProjectedTotal.Value,
	})
	if maxSamples > 0 && len(history) > maxSamples {
		history = history[len(history)-maxSamples:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode prediction history: %w", err)
	}
	g.PredictionHistory = datatypes.JSON(data)
	return nil
}

// TeamState is one side's live state, embedded as JSONB.
type TeamState struct {
	TeamID        string    `json:"team_id"`
	Name          string    `json:"name"`
	Abbreviation  string    `json:"abbreviation"`
	Score         int       `json:"score"`
	QuarterScores []int     `json:"quarter_scores,omitempty"`
	Stats         TeamStats `json:"stats"`
}

// TeamStats is the box score for one side.
type TeamStats struct {
	FieldGoalsMade       int `json:"field_goals_made"`
	FieldGoalsAttempted  int `json:"field_goals_attempted"`
	ThreePointsMade      int `json:"three_points_made"`
	ThreePointsAttempted int `json:"three_points_attempted"`
	FreeThrowsMade       int `json:"free_throws_made"`
	FreeThrowsAttempted  int `json:"free_throws_attempted"`
	Rebounds             int `json:"rebounds"`
	Assists              int `json:"assists"`
	Steals               int `json:"steals"`
	Blocks               int `json:"blocks"`
	Turnovers            int `json:"turnovers"`
	Fouls                int `json:"fouls"`
}

// FieldGoalPercentage returns the shooting percentage, 0 before any attempt.
func (s TeamStats) FieldGoalPercentage() float64 {
	if s.FieldGoalsAttempted == 0 {
		return 0
	}
	return float64(s.FieldGoalsMade) / float64(s.FieldGoalsAttempted) * 100
}

// ThreePointPercentage returns the three point percentage, 0 before any attempt.
func (s TeamStats) ThreePointPercentage() float64 {
	if s.ThreePointsAttempted == 0 {
		return 0
	}
	return float64(s.ThreePointsMade) / float64(s.ThreePointsAttempted) * 100
}

// Momentum tracks scoring runs for the live feed.
type Momentum struct {
	HomeTeamRun   int            `json:"home_team_run"`
	AwayTeamRun   int            `json:"away_team_run"`
	LastScored    string         `json:"last_scored"` // "home", "away" or "none"
	RecentScoring []ScoringEvent `json:"recent_scoring,omitempty"`
}

// ScoringEvent is one made basket in the momentum window.
type ScoringEvent struct {
	Team      string    `json:"team"`
	Points    int       `json:"points"`
	Timestamp time.Time `json:"timestamp"`
}

// GameOdds holds the pregame and live books for a game.
type GameOdds struct {
	Pregame OddsLine `json:"pregame"`
	Live    OddsLine `json:"live"`
}

// OddsLine is one odds snapshot. Zero values mean the market isn't posted.
type OddsLine struct {
	HomeMoneyline int       `json:"home_moneyline"`
	AwayMoneyline int       `json:"away_moneyline"`
	Spread        float64   `json:"spread"`
	Total         float64   `json:"total"`
	LastUpdated   time.Time `json:"last_updated,omitempty"`
}

// Predictions is the latest model output for a game.
type Predictions struct {
	WinProbability  WinProbabilityPrediction `json:"current_win_probability"`
	ProjectedSpread ValuePrediction          `json:"projected_spread"`
	ProjectedTotal  ValuePrediction          `json:"projected_total"`
}

type WinProbabilityPrediction struct {
	Home        float64   `json:"home"`
	Away        float64   `json:"away"`
	Confidence  float64   `json:"confidence"`
	LastUpdated time.Time `json:"last_updated,omitempty"`
}

type ValuePrediction struct {
	Value       float64   `json:"value"`
	Confidence  float64   `json:"confidence"`
	LastUpdated time.Time `json:"last_updated,omitempty"`
}

// PredictionSample is one point in the prediction history series.
type PredictionSample struct {
	Timestamp          time.Time `json:"timestamp"`
	HomeWinProbability float64   `json:"home_win_probability"`
	AwayWinProbability float64   `json:"away_win_probability"`
	ProjectedSpread    float64   `json:"projected_spread"`
	ProjectedTotal     float64   `json:"projected_total"`
}

// Scan implements the sql.Scanner interface for JSONB
func (t *TeamState) Scan(value interface{}) error {
	return scanJSON(value, t)
}

// Value implements the driver.Valuer interface for JSONB
func (t TeamState) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements the sql.Scanner interface for JSONB
func (m *Momentum) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// Value implements the driver.Valuer interface for JSONB
func (m Momentum) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for JSONB
func (o *GameOdds) Scan(value interface{}) error {
	return scanJSON(value, o)
}

// Value implements the driver.Valuer interface for JSONB
func (o GameOdds) Value() (driver.Value, error) {
	return json.Marshal(o)
}

// Scan implements the sql.Scanner interface for JSONB
func (p *Predictions) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// Value implements the driver.Valuer interface for JSONB
func (p Predictions) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// scanJSON decodes a JSONB column into dest, tolerating NULL and both the
// []byte and string representations drivers hand back.
func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dest)
	}
}
