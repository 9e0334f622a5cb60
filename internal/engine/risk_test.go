package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func allAnswers(value int) []QuestionnaireResponse {
	responses := make([]QuestionnaireResponse, 0, 5)
	for _, q := range Questionnaire() {
		responses = append(responses, QuestionnaireResponse{QuestionID: q.ID, Value: value})
	}
	return responses
}

func TestQuestionnaireShape(t *testing.T) {
	questions := Questionnaire()
	assert.Len(t, questions, 5)
	for _, q := range questions {
		assert.Len(t, q.Options, 5, "question %s", q.ID)
		for _, opt := range q.Options {
			assert.GreaterOrEqual(t, opt.Score, 1)
			assert.LessOrEqual(t, opt.Score, 10)
		}
	}
}

func TestScoreQuestionnaire(t *testing.T) {
	tests := []struct {
		name      string
		responses []QuestionnaireResponse
		expected  RiskAssessment
	}{
		{
			name:      "most cautious answers",
			responses: allAnswers(1),
			expected: RiskAssessment{
				Score:            1,
				Category:         CategoryConservative,
				MaxBetPercentage: 2,
				BetTypes:         []string{BetTypeMoneyline, BetTypeSpread, BetTypeTotal},
				MinOdds:          -300,
				MaxOdds:          200,
				MaxParlayLegs:    2,
			},
		},
		{
			name:      "most aggressive answers",
			responses: allAnswers(5),
			expected: RiskAssessment{
				Score:            10,
				Category:         CategoryAggressive,
				MaxBetPercentage: 20,
				BetTypes:         []string{BetTypeMoneyline, BetTypeSpread, BetTypeTotal, BetTypeParlay},
				MinOdds:          100,
				MaxOdds:          2000,
				MaxParlayLegs:    12,
			},
		},
		{
			name: "mixed answers land in the middle",
			responses: []QuestionnaireResponse{
				{QuestionID: QuestionBettingFrequency, Value: 3},
				{QuestionID: QuestionBetSize, Value: 3},
				{QuestionID: QuestionParlayPreference, Value: 2},
				{QuestionID: QuestionLosingStreak, Value: 3},
				{QuestionID: QuestionOddsPreference, Value: 3},
			},
			expected: RiskAssessment{
				Score:            5,
				Category:         CategoryModerate,
				MaxBetPercentage: 10,
				BetTypes:         []string{BetTypeMoneyline, BetTypeSpread, BetTypeTotal, BetTypeParlay},
				MinOdds:          -150,
				MaxOdds:          500,
				MaxParlayLegs:    3,
			},
		},
		{
			name:      "no answers defaults to moderate",
			responses: nil,
			expected: RiskAssessment{
				Score:            5,
				Category:         CategoryModerate,
				MaxBetPercentage: 10,
				BetTypes:         []string{BetTypeMoneyline, BetTypeSpread, BetTypeTotal},
				MinOdds:          -200,
				MaxOdds:          1000,
				MaxParlayLegs:    4,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreQuestionnaire(tt.responses))
		})
	}
}

func TestScoreQuestionnaireSkipsUnknownAnswers(t *testing.T) {
	responses := []QuestionnaireResponse{
		{QuestionID: "favorite_color", Value: 3},
		{QuestionID: QuestionBetSize, Value: 99},
		{QuestionID: QuestionBettingFrequency, Value: 5},
	}

	assessment := ScoreQuestionnaire(responses)
	assert.Equal(t, 10, assessment.Score)
	assert.Equal(t, CategoryAggressive, assessment.Category)
}

func TestQuestionnaireTiersFeedBetSizes(t *testing.T) {
	// Every answer tier must yield an assessment the stake sizer accepts.
	for value := 1; value <= 5; value++ {
		assessment := ScoreQuestionnaire(allAnswers(value))

		assert.GreaterOrEqual(t, assessment.Score, 1)
		assert.LessOrEqual(t, assessment.Score, 10)

		budget := Budget{Amount: 300, Period: PeriodWeekly, MaxBetPercentage: assessment.MaxBetPercentage}
		sizes := RecommendedBetSizes(assessment.Score, budget)

		assert.LessOrEqual(t, sizes.SingleBet.Min, sizes.SingleBet.Max, "tier %d", value)
		assert.LessOrEqual(t, sizes.Parlay.Min, sizes.Parlay.Max, "tier %d", value)
		assert.Greater(t, sizes.SingleBet.Max, 0.0, "tier %d", value)
	}
}

func TestCategoryForScore(t *testing.T) {
	assert.Equal(t, CategoryConservative, CategoryForScore(1))
	assert.Equal(t, CategoryConservative, CategoryForScore(3))
	assert.Equal(t, CategoryModerate, CategoryForScore(4))
	assert.Equal(t, CategoryModerate, CategoryForScore(7))
	assert.Equal(t, CategoryAggressive, CategoryForScore(8))
	assert.Equal(t, CategoryAggressive, CategoryForScore(10))
}

func TestAnalyzeBettingBehaviorEmptyHistory(t *testing.T) {
	analysis := AnalyzeBettingBehavior(nil)

	assert.Equal(t, 5, analysis.RiskScore)
	assert.Equal(t, []string{BetTypeMoneyline, BetTypeSpread, BetTypeTotal}, analysis.PreferredBetTypes)
	assert.Equal(t, -200, analysis.MinOdds)
	assert.Equal(t, 1000, analysis.MaxOdds)
	assert.Equal(t, 4, analysis.MaxParlayLegs)
}

func TestAnalyzeBettingBehavior(t *testing.T) {
	history := []BetRecord{
		{Type: BetTypeMoneyline, Odds: -180},
		{Type: BetTypeMoneyline, Odds: -120},
		{Type: BetTypeParlay, Odds: 264, Legs: 3},
		{Type: BetTypeSpread, Odds: -110},
	}

	analysis := AnalyzeBettingBehavior(history)

	// Per-bet risk scores 3, 4, 10 (capped) and 4 average out to 5.
	assert.Equal(t, 5, analysis.RiskScore)
	assert.Equal(t, []string{BetTypeMoneyline, BetTypeSpread, BetTypeParlay}, analysis.PreferredBetTypes)
	assert.Equal(t, -180, analysis.MinOdds)
	assert.Equal(t, 270, analysis.MaxOdds)
	assert.Equal(t, 3, analysis.MaxParlayLegs)
}

func TestAnalyzeBettingBehaviorDominantType(t *testing.T) {
	// Ten moneylines and one spread: spread is under the 15% preference bar.
	history := make([]BetRecord, 0, 11)
	for i := 0; i < 10; i++ {
		history = append(history, BetRecord{Type: BetTypeMoneyline, Odds: -150})
	}
	history = append(history, BetRecord{Type: BetTypeSpread, Odds: -110})

	analysis := AnalyzeBettingBehavior(history)
	assert.Equal(t, []string{BetTypeMoneyline}, analysis.PreferredBetTypes)
}

func TestBetRiskScore(t *testing.T) {
	tests := []struct {
		name     string
		bet      BetRecord
		expected int
	}{
		{"heavy favorite", BetRecord{Type: BetTypeMoneyline, Odds: -300}, 2},
		{"moderate favorite", BetRecord{Type: BetTypeMoneyline, Odds: -160}, 3},
		{"near even", BetRecord{Type: BetTypeMoneyline, Odds: -110}, 4},
		{"slight dog", BetRecord{Type: BetTypeMoneyline, Odds: 120}, 6},
		{"moderate dog", BetRecord{Type: BetTypeMoneyline, Odds: 200}, 8},
		{"long shot", BetRecord{Type: BetTypeMoneyline, Odds: 400}, 10},
		{"deep parlay caps at ten", BetRecord{Type: BetTypeParlay, Odds: 600, Legs: 8}, 10},
		{"tiny stake lowers risk", BetRecord{Type: BetTypeMoneyline, Odds: 120, StakeFraction: 0.01}, 4},
		{"oversized stake raises risk", BetRecord{Type: BetTypeMoneyline, Odds: 120, StakeFraction: 0.2}, 8},
		{"floor at one", BetRecord{Type: BetTypeMoneyline, Odds: -300, StakeFraction: 0.01}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, betRiskScore(tt.bet))
		})
	}
}

func TestNudgeAppetite(t *testing.T) {
	assert.Equal(t, 6, NudgeAppetite(5, 9))
	assert.Equal(t, 4, NudgeAppetite(5, 1))
	assert.Equal(t, 5, NudgeAppetite(5, 5))
	assert.Equal(t, 10, NudgeAppetite(10, 12))
	assert.Equal(t, 1, NudgeAppetite(1, 0))
}
