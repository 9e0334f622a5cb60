package engine

import "math"

// Bet types a user can enable.
const (
	BetTypeMoneyline  = "moneyline"
	BetTypeSpread     = "spread"
	BetTypeTotal      = "total"
	BetTypePlayerProp = "player_prop"
	BetTypeParlay     = "parlay"
)

// Risk categories.
const (
	CategoryConservative = "Conservative"
	CategoryModerate     = "Moderate"
	CategoryAggressive   = "Aggressive"
)

// Question identifiers. The odds and parlay questions drive the derived
// preference tiers, so their IDs are fixed.
const (
	QuestionBettingFrequency = "betting_frequency"
	QuestionBetSize          = "bet_size"
	QuestionParlayPreference = "parlay_preference"
	QuestionLosingStreak     = "losing_streak"
	QuestionOddsPreference   = "odds_preference"
)

// QuestionOption is one selectable answer with its risk score contribution.
type QuestionOption struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
	Score int    `json:"score"` // 1-10
}

// Question is a single questionnaire item.
type Question struct {
	ID      string           `json:"id"`
	Text    string           `json:"text"`
	Options []QuestionOption `json:"options"`
}

// QuestionnaireResponse is a user's answer to one question.
type QuestionnaireResponse struct {
	QuestionID string `json:"questionId" binding:"required"`
	Value      int    `json:"value" binding:"required"`
}

// RiskAssessment is the profile derived from a completed questionnaire.
type RiskAssessment struct {
	Score            int      `json:"score"` // 1-10
	Category         string   `json:"category"`
	MaxBetPercentage float64  `json:"max_bet_percentage"`
	BetTypes         []string `json:"bet_types"`
	MinOdds          int      `json:"min_odds"`
	MaxOdds          int      `json:"max_odds"`
	MaxParlayLegs    int      `json:"max_parlay_legs"`
}

// Questionnaire returns the five-question risk assessment form.
func Questionnaire() []Question {
	return []Question{
		{
			ID:   QuestionBettingFrequency,
			Text: "How often do you typically place bets?",
			Options: []QuestionOption{
				{Value: 1, Text: "Rarely (a few times a year)", Score: 1},
				{Value: 2, Text: "Occasionally (monthly)", Score: 3},
				{Value: 3, Text: "Regularly (weekly)", Score: 6},
				{Value: 4, Text: "Frequently (multiple times per week)", Score: 8},
				{Value: 5, Text: "Daily", Score: 10},
			},
		},
		{
			ID:   QuestionBetSize,
			Text: "What percentage of your betting budget would you be comfortable risking on a single bet?",
			Options: []QuestionOption{
				{Value: 1, Text: "1-2% (very conservative)", Score: 1},
				{Value: 2, Text: "3-5% (conservative)", Score: 3},
				{Value: 3, Text: "6-10% (moderate)", Score: 5},
				{Value: 4, Text: "11-20% (aggressive)", Score: 8},
				{Value: 5, Text: "21%+ (very aggressive)", Score: 10},
			},
		},
		{
			ID:   QuestionParlayPreference,
			Text: "When it comes to parlays, which best describes your preference?",
			Options: []QuestionOption{
				{Value: 1, Text: "I avoid parlays completely", Score: 1},
				{Value: 2, Text: "I prefer 2-leg parlays with high probability", Score: 3},
				{Value: 3, Text: "I like 3-4 leg parlays with moderate odds", Score: 6},
				{Value: 4, Text: "I enjoy 5+ leg parlays for the bigger payouts", Score: 9},
				{Value: 5, Text: "The more legs the better - I want huge paydays", Score: 10},
			},
		},
		{
			ID:   QuestionLosingStreak,
			Text: "How would you react to a 5-bet losing streak?",
			Options: []QuestionOption{
				{Value: 1, Text: "Stop betting for a while to reassess", Score: 1},
				{Value: 2, Text: "Reduce my bet size significantly", Score: 3},
				{Value: 3, Text: "Continue with slightly smaller bets", Score: 5},
				{Value: 4, Text: "Maintain my regular betting pattern", Score: 7},
				{Value: 5, Text: "Increase my bets to recover losses faster", Score: 10},
			},
		},
		{
			ID:   QuestionOddsPreference,
			Text: "Which type of odds do you generally prefer?",
			Options: []QuestionOption{
				{Value: 1, Text: "Heavy favorites (-200 or higher)", Score: 2},
				{Value: 2, Text: "Moderate favorites (-120 to -190)", Score: 4},
				{Value: 3, Text: "Near even odds (-110 to +110)", Score: 6},
				{Value: 4, Text: "Moderate underdogs (+120 to +200)", Score: 8},
				{Value: 5, Text: "Heavy underdogs (+250 or higher)", Score: 10},
			},
		},
	}
}

// ScoreQuestionnaire derives a risk assessment from questionnaire answers.
// Responses that don't match a known question or option are skipped; with no
// valid answers at all the score defaults to a moderate 5.
func ScoreQuestionnaire(responses []QuestionnaireResponse) RiskAssessment {
	questions := Questionnaire()

	totalScore := 0
	answered := 0
	for _, resp := range responses {
		for _, q := range questions {
			if q.ID != resp.QuestionID {
				continue
			}
			for _, opt := range q.Options {
				if opt.Value == resp.Value {
					totalScore += opt.Score
					answered++
					break
				}
			}
			break
		}
	}

	score := 5
	if answered > 0 {
		score = int(math.Round(float64(totalScore) / float64(answered)))
	}

	return RiskAssessment{
		Score:            score,
		Category:         CategoryForScore(score),
		MaxBetPercentage: math.Max(2, math.Min(25, float64(score*2))),
		BetTypes:         betTypesFromResponses(responses),
		MinOdds:          minOddsFromResponses(responses),
		MaxOdds:          maxOddsFromResponses(responses),
		MaxParlayLegs:    maxParlayLegsFromResponses(responses),
	}
}

// CategoryForScore maps a 1-10 risk score to its label.
func CategoryForScore(score int) string {
	switch {
	case score <= 3:
		return CategoryConservative
	case score >= 8:
		return CategoryAggressive
	default:
		return CategoryModerate
	}
}

func betTypesFromResponses(responses []QuestionnaireResponse) []string {
	betTypes := []string{BetTypeMoneyline, BetTypeSpread, BetTypeTotal}
	for _, resp := range responses {
		if resp.QuestionID == QuestionParlayPreference && resp.Value > 1 {
			betTypes = append(betTypes, BetTypeParlay)
			break
		}
	}
	return betTypes
}

func minOddsFromResponses(responses []QuestionnaireResponse) int {
	for _, resp := range responses {
		if resp.QuestionID != QuestionOddsPreference {
			continue
		}
		switch resp.Value {
		case 1:
			return -300
		case 2:
			return -200
		case 3:
			return -150
		case 4:
			return -110
		case 5:
			return 100
		}
	}
	return -200
}

func maxOddsFromResponses(responses []QuestionnaireResponse) int {
	for _, resp := range responses {
		if resp.QuestionID != QuestionOddsPreference {
			continue
		}
		switch resp.Value {
		case 1:
			return 200
		case 2:
			return 300
		case 3:
			return 500
		case 4:
			return 750
		case 5:
			return 2000
		}
	}
	return 1000
}

func maxParlayLegsFromResponses(responses []QuestionnaireResponse) int {
	for _, resp := range responses {
		if resp.QuestionID != QuestionParlayPreference {
			continue
		}
		switch resp.Value {
		case 1:
			return 2
		case 2:
			return 3
		case 3:
			return 5
		case 4:
			return 8
		case 5:
			return 12
		}
	}
	return 4
}

// BetRecord is one settled bet from a user's history, reduced to the
// features behavior analysis looks at.
type BetRecord struct {
	Type          string  `json:"type"`
	Odds          int     `json:"odds"`
	Legs          int     `json:"legs,omitempty"`           // parlay leg count
	StakeFraction float64 `json:"stake_fraction,omitempty"` // stake as a fraction of bankroll
}

// BehaviorAnalysis is the risk profile observed from betting history.
type BehaviorAnalysis struct {
	RiskScore         int      `json:"risk_score"`
	PreferredBetTypes []string `json:"preferred_bet_types"`
	MinOdds           int      `json:"min_odds"`
	MaxOdds           int      `json:"max_odds"`
	MaxParlayLegs     int      `json:"max_parlay_legs"`
}

// AnalyzeBettingBehavior infers a risk profile from actual bets: longer
// odds, deeper parlays and larger stake fractions all read as higher risk.
// An empty history returns moderate defaults.
func AnalyzeBettingBehavior(history []BetRecord) BehaviorAnalysis {
	result := BehaviorAnalysis{
		RiskScore:         5,
		PreferredBetTypes: []string{BetTypeMoneyline, BetTypeSpread, BetTypeTotal},
		MinOdds:           -200,
		MaxOdds:           1000,
		MaxParlayLegs:     4,
	}
	if len(history) == 0 {
		return result
	}

	typeCounts := map[string]int{}
	minOdds := math.MaxInt
	maxOdds := math.MinInt
	maxLegs := 0
	totalRiskScore := 0

	for _, bet := range history {
		typeCounts[bet.Type]++

		if bet.Odds < minOdds {
			minOdds = bet.Odds
		}
		if bet.Odds > maxOdds {
			maxOdds = bet.Odds
		}
		if bet.Type == BetTypeParlay && bet.Legs > maxLegs {
			maxLegs = bet.Legs
		}

		totalRiskScore += betRiskScore(bet)
	}

	result.RiskScore = int(math.Round(float64(totalRiskScore) / float64(len(history))))

	// Preferred types are those making up at least 15% of the history.
	preferred := []string{}
	for _, t := range []string{BetTypeMoneyline, BetTypeSpread, BetTypeTotal, BetTypeParlay} {
		if float64(typeCounts[t])/float64(len(history)) >= 0.15 {
			preferred = append(preferred, t)
		}
	}
	if len(preferred) == 0 {
		preferred = []string{BetTypeMoneyline}
	}
	result.PreferredBetTypes = preferred

	result.MinOdds = int(math.Floor(float64(minOdds)/10) * 10)
	result.MaxOdds = int(math.Ceil(float64(maxOdds)/10) * 10)
	if maxLegs > 0 {
		result.MaxParlayLegs = maxLegs
	}

	return result
}

// betRiskScore scores a single bet 1-10 from its odds bucket, parlay depth
// and stake fraction.
func betRiskScore(bet BetRecord) int {
	score := 5
	switch {
	case bet.Odds <= -250:
		score = 2
	case bet.Odds <= -150:
		score = 3
	case bet.Odds <= -110:
		score = 4
	case bet.Odds <= 150:
		score = 6
	case bet.Odds <= 250:
		score = 8
	default:
		score = 10
	}

	if bet.Type == BetTypeParlay && bet.Legs > 1 {
		score += min(5, bet.Legs-1)
	}

	if bet.StakeFraction > 0 {
		switch {
		case bet.StakeFraction <= 0.02:
			score -= 2
		case bet.StakeFraction <= 0.05:
			score--
		case bet.StakeFraction >= 0.15:
			score += 2
		case bet.StakeFraction >= 0.10:
			score++
		}
	}

	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

// NudgeAppetite moves the stored appetite at most one point toward the
// observed score. Recalibration is deliberately rate-limited so one streak
// of out-of-character bets doesn't rewrite the profile.
func NudgeAppetite(current, observed int) int {
	switch {
	case observed > current:
		return min(10, current+1)
	case observed < current:
		return max(1, current-1)
	default:
		return current
	}
}
