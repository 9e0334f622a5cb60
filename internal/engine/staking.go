package engine

import "math"

// Budget periods.
const (
	PeriodDaily   = "Daily"
	PeriodWeekly  = "Weekly"
	PeriodMonthly = "Monthly"
)

// Budget describes a user's bankroll for staking purposes.
type Budget struct {
	Amount           float64 `json:"amount"`
	Period           string  `json:"period"` // Daily, Weekly or Monthly
	MaxBetPercentage float64 `json:"max_bet_percentage"`
}

// BetSizeRange bounds a recommended stake in whole currency units.
type BetSizeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// BetSizes holds the single-bet and parlay stake ranges for a profile.
type BetSizes struct {
	SingleBet BetSizeRange `json:"single_bet"`
	Parlay    BetSizeRange `json:"parlay"`
}

// RecommendedBetSizes maps risk appetite and budget into stake ranges.
// The budget is normalized to a weekly equivalent, then the appetite scales
// what share of the allowed bet percentage is actually put to work. Parlay
// stakes run smaller than singles since the variance is higher.
func RecommendedBetSizes(appetite int, budget Budget) BetSizes {
	basePercentage := (float64(appetite) / 10) * budget.MaxBetPercentage

	weekly := budget.Amount
	switch budget.Period {
	case PeriodMonthly:
		weekly = budget.Amount / 4
	case PeriodDaily:
		weekly = budget.Amount * 7
	}

	maxSingleBet := math.Round((basePercentage / 100) * weekly)

	return BetSizes{
		SingleBet: BetSizeRange{
			Min: math.Max(1, math.Round(maxSingleBet*0.5)),
			Max: maxSingleBet,
		},
		Parlay: BetSizeRange{
			Min: math.Max(1, math.Round(maxSingleBet*0.3)),
			Max: math.Round(maxSingleBet * 0.8),
		},
	}
}

// RecommendedStake scales a stake within the range by how strong the pick
// is: a combined probability-confidence score of 0.5 maps to the minimum,
// 1.0 to the maximum.
func RecommendedStake(probability, confidence float64, r BetSizeRange) float64 {
	score := probability * confidence
	scale := math.Min(1, math.Max(0, (score-0.5)*2))
	return math.Round(r.Min + scale*(r.Max-r.Min))
}
