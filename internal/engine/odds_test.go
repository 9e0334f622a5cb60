package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmericanToDecimal(t *testing.T) {
	assert.Equal(t, 2.5, AmericanToDecimal(150))
	assert.Equal(t, 1.5, AmericanToDecimal(-200))
	assert.Equal(t, 2.0, AmericanToDecimal(100))
	assert.InDelta(t, 1.909091, AmericanToDecimal(-110), 1e-6)
}

func TestDecimalToAmerican(t *testing.T) {
	assert.Equal(t, 150, DecimalToAmerican(2.5))
	assert.Equal(t, -200, DecimalToAmerican(1.5))
	assert.Equal(t, 100, DecimalToAmerican(2.0))
}

func TestOddsRoundTrip(t *testing.T) {
	for _, odds := range []int{-350, -200, -110, 100, 125, 240, 1000} {
		assert.Equal(t, odds, DecimalToAmerican(AmericanToDecimal(odds)), "odds %d", odds)
	}
}

func TestParlayOddsOrderInvariant(t *testing.T) {
	legs := []int{-150, 120, -110}
	permutations := [][]int{
		{-150, 120, -110},
		{-150, -110, 120},
		{120, -150, -110},
		{120, -110, -150},
		{-110, -150, 120},
		{-110, 120, -150},
	}

	expected := ParlayOdds(legs)
	for _, perm := range permutations {
		assert.Equal(t, expected, ParlayOdds(perm), "legs %v", perm)
	}
}

func TestParlayOdds(t *testing.T) {
	tests := []struct {
		name     string
		legs     []int
		expected int
	}{
		{"two favorites", []int{-110, -110}, 264},
		{"favorite and dog", []int{150, -200}, 275},
		{"three even legs", []int{100, 100, 100}, 700},
		{"single leg passes through", []int{-150}, -150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParlayOdds(tt.legs))
		})
	}
}
