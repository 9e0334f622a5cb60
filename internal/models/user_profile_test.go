package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/courtside/internal/engine"
)

func TestNewUserProfileDefaults(t *testing.T) {
	profile := NewUserProfile("user-1")

	assert.Equal(t, 5, profile.RiskProfile.Appetite)
	assert.Equal(t, engine.CategoryModerate, profile.RiskProfile.Category)
	assert.Equal(t, engine.PeriodWeekly, profile.Budget.Period)
	assert.Equal(t, -200, profile.Preferences.MinOdds)
	assert.Equal(t, 1000, profile.Preferences.MaxOdds)
	assert.Equal(t, 4, profile.Preferences.MaxParlayLegs)
	assert.NotContains(t, profile.Preferences.BetTypes, engine.BetTypeParlay)
}

func TestUserProfileRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	profile := NewUserProfile("user-1")
	profile.Performance.TotalBets = 12
	profile.Performance.WonBets = 7
	require.NoError(t, db.Create(profile).Error)

	var loaded UserProfile
	require.NoError(t, db.First(&loaded, "user_id = ?", "user-1").Error)

	assert.Equal(t, 5, loaded.RiskProfile.Appetite)
	assert.Equal(t, 100.0, loaded.Budget.Amount)
	assert.Equal(t, 12, loaded.Performance.TotalBets)
	assert.ElementsMatch(t,
		[]string{engine.BetTypeMoneyline, engine.BetTypeSpread, engine.BetTypeTotal},
		loaded.Preferences.BetTypes)
}

func TestApplyAssessment(t *testing.T) {
	profile := NewUserProfile("user-1")

	assessment := engine.RiskAssessment{
		Score:            9,
		Category:         engine.CategoryAggressive,
		MaxBetPercentage: 18,
		BetTypes:         []string{engine.BetTypeMoneyline, engine.BetTypeParlay},
		MinOdds:          -110,
		MaxOdds:          750,
		MaxParlayLegs:    8,
	}
	profile.ApplyAssessment(assessment)

	assert.Equal(t, 9, profile.RiskProfile.Appetite)
	assert.Equal(t, engine.CategoryAggressive, profile.RiskProfile.Category)
	assert.Equal(t, 18.0, profile.Budget.MaxBetPercentage)
	assert.Equal(t, -110, profile.Preferences.MinOdds)
	assert.Equal(t, 8, profile.Preferences.MaxParlayLegs)
	assert.False(t, profile.RiskProfile.LastUpdated.IsZero())
}

func TestBettorConversion(t *testing.T) {
	profile := NewUserProfile("user-1")
	profile.RiskProfile.Appetite = 7
	profile.Budget.Amount = 250

	bettor := profile.Bettor()
	assert.Equal(t, 7, bettor.Appetite)
	assert.Equal(t, 250.0, bettor.Budget.Amount)
	assert.Equal(t, engine.PeriodWeekly, bettor.Budget.Period)
	assert.Equal(t, profile.Preferences.BetTypes, bettor.BetTypes)
}

func TestRecordBetStreaks(t *testing.T) {
	profile := NewUserProfile("user-1")

	profile.RecordBet(engine.BetTypeMoneyline, 10, 18, true)
	profile.RecordBet(engine.BetTypeMoneyline, 10, 19, true)
	profile.RecordBet(engine.BetTypeSpread, 10, 0, false)
	profile.RecordBet(engine.BetTypeSpread, 10, 0, false)
	profile.RecordBet(engine.BetTypeParlay, 5, 40, true)

	perf := profile.Performance
	assert.Equal(t, 5, perf.TotalBets)
	assert.Equal(t, 3, perf.WonBets)
	assert.Equal(t, 45.0, perf.TotalWagered)
	assert.Equal(t, 77.0, perf.TotalReturns)
	assert.Equal(t, 1, perf.CurrentStreak)
	assert.Equal(t, 2, perf.BestStreak)
	assert.Equal(t, BetTypePerformance{Bets: 2, Wins: 2}, perf.BetTypePerformance[engine.BetTypeMoneyline])
	assert.Equal(t, BetTypePerformance{Bets: 2, Wins: 0}, perf.BetTypePerformance[engine.BetTypeSpread])
}

func TestPerformanceRates(t *testing.T) {
	perf := Performance{TotalBets: 8, WonBets: 5, TotalWagered: 100, TotalReturns: 130}
	assert.Equal(t, 62.5, perf.WinRate())
	assert.InDelta(t, 30.0, perf.ROI(), 1e-9)

	var empty Performance
	assert.Equal(t, 0.0, empty.WinRate())
	assert.Equal(t, 0.0, empty.ROI())
}
