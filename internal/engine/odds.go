package engine

import "math"

// AmericanToDecimal converts American odds to a decimal multiplier.
// +150 pays 2.5 per unit staked; -200 pays 1.5.
func AmericanToDecimal(odds int) float64 {
	if odds > 0 {
		return 1 + float64(odds)/100
	}
	return 1 + 100/math.Abs(float64(odds))
}

// DecimalToAmerican converts a decimal multiplier back to American odds.
func DecimalToAmerican(decimal float64) int {
	if decimal >= 2 {
		return int(math.Round((decimal - 1) * 100))
	}
	return int(math.Round(-100 / (decimal - 1)))
}

// ParlayOdds combines the American odds of several legs into a single
// American price: convert each leg to decimal, multiply, convert back.
func ParlayOdds(legOdds []int) int {
	combined := 1.0
	for _, odds := range legOdds {
		combined *= AmericanToDecimal(odds)
	}
	return DecimalToAmerican(combined)
}
