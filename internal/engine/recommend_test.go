package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func moderateProfile() BettorProfile {
	return BettorProfile{
		Appetite:      5,
		BetTypes:      []string{BetTypeMoneyline, BetTypeSpread, BetTypeTotal, BetTypeParlay},
		MinOdds:       -200,
		MaxOdds:       500,
		MaxParlayLegs: 3,
		Budget:        Budget{Amount: 200, Period: PeriodWeekly, MaxBetPercentage: 10},
	}
}

func moneylineGame(id string, homeProb, confidence float64, homeOdds int) GameMarket {
	return GameMarket{
		GameID:   id,
		HomeTeam: "Home " + id,
		AwayTeam: "Away " + id,
		WinProbability: WinProbability{
			Home:       homeProb,
			Away:       1 - homeProb,
			Confidence: confidence,
		},
		Live: MarketOdds{HomeMoneyline: homeOdds, AwayMoneyline: -homeOdds},
	}
}

func TestGenerateRecommendationsMoneyline(t *testing.T) {
	profile := moderateProfile()
	games := []GameMarket{moneylineGame("g1", 0.7, 0.8, -150)}

	recs := GenerateRecommendations(profile, games)

	assert.Len(t, recs.SingleBets, 1)
	bet := recs.SingleBets[0]
	assert.Equal(t, BetTypeMoneyline, bet.Type)
	assert.Equal(t, "g1", bet.GameID)
	assert.Equal(t, SideHome, bet.Side)
	assert.Equal(t, "Home g1", bet.TeamName)
	assert.Equal(t, -150, bet.Odds)
	assert.Equal(t, 0.7, bet.WinProbability)
	assert.Greater(t, bet.RecommendedStake, 0.0)
}

func TestGenerateRecommendationsSkipsLowConfidenceGames(t *testing.T) {
	profile := moderateProfile()
	games := []GameMarket{moneylineGame("g1", 0.9, 0.5, -150)}

	recs := GenerateRecommendations(profile, games)
	assert.Empty(t, recs.SingleBets)
	assert.Empty(t, recs.Parlays)
}

func TestGenerateRecommendationsBelowThreshold(t *testing.T) {
	profile := moderateProfile()
	games := []GameMarket{moneylineGame("g1", 0.54, 0.8, -150)}

	recs := GenerateRecommendations(profile, games)
	assert.Empty(t, recs.SingleBets)
}

func TestAppetiteShiftsThreshold(t *testing.T) {
	game := moneylineGame("g1", 0.47, 0.8, 110)
	game.Live.AwayMoneyline = 0 // away market not posted
	games := []GameMarket{game}

	conservative := moderateProfile()
	conservative.Appetite = 1
	assert.Empty(t, GenerateRecommendations(conservative, games).SingleBets)

	// Appetite 10 lowers the bar to 0.45, so a 0.47 side qualifies.
	aggressive := moderateProfile()
	aggressive.Appetite = 10
	recs := GenerateRecommendations(aggressive, games)
	assert.Len(t, recs.SingleBets, 1)
	assert.Equal(t, SideHome, recs.SingleBets[0].Side)
}

func TestMoneylineOddsRangeFilter(t *testing.T) {
	profile := moderateProfile()
	profile.BetTypes = []string{BetTypeMoneyline}

	games := []GameMarket{
		moneylineGame("too-short", 0.8, 0.8, -400),
		moneylineGame("in-range", 0.7, 0.8, -150),
	}

	recs := GenerateRecommendations(profile, games)
	assert.Len(t, recs.SingleBets, 1)
	assert.Equal(t, "in-range", recs.SingleBets[0].GameID)
}

func TestMoneylineFallsBackToPregameOdds(t *testing.T) {
	profile := moderateProfile()
	profile.BetTypes = []string{BetTypeMoneyline}

	game := moneylineGame("g1", 0.7, 0.8, 0)
	game.Live = MarketOdds{}
	game.Pregame = MarketOdds{HomeMoneyline: -130, AwayMoneyline: 110}

	recs := GenerateRecommendations(profile, []GameMarket{game})
	assert.Len(t, recs.SingleBets, 1)
	assert.Equal(t, -130, recs.SingleBets[0].Odds)
}

func TestMoneylineUnpostedMarketSkipped(t *testing.T) {
	profile := moderateProfile()
	profile.BetTypes = []string{BetTypeMoneyline}

	game := moneylineGame("g1", 0.7, 0.8, 0)
	game.Live = MarketOdds{}

	recs := GenerateRecommendations(profile, []GameMarket{game})
	assert.Empty(t, recs.SingleBets)
}

func TestSpreadRecommendations(t *testing.T) {
	profile := moderateProfile()
	profile.BetTypes = []string{BetTypeSpread}

	tests := []struct {
		name         string
		spread       SpreadProjection
		expectedSide string
		expectedLine float64
		expectNone   bool
	}{
		{"home side when the projection lays points", SpreadProjection{Spread: -5, Confidence: 0.8}, SideHome, -5, false},
		{"away side on a positive projection", SpreadProjection{Spread: 3, Confidence: 0.7}, SideAway, -3, false},
		{"no edge inside one point", SpreadProjection{Spread: 0.5, Confidence: 0.9}, "", 0, true},
		{"low confidence filtered", SpreadProjection{Spread: -6, Confidence: 0.4}, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := moneylineGame("g1", 0.5, 0.8, -110)
			game.Spread = tt.spread

			recs := GenerateRecommendations(profile, []GameMarket{game})
			if tt.expectNone {
				assert.Empty(t, recs.SingleBets)
				return
			}
			assert.Len(t, recs.SingleBets, 1)
			bet := recs.SingleBets[0]
			assert.Equal(t, BetTypeSpread, bet.Type)
			assert.Equal(t, tt.expectedSide, bet.Side)
			assert.Equal(t, tt.expectedLine, bet.SpreadValue)
			assert.Equal(t, -110, bet.Odds)
		})
	}
}

func TestTotalRecommendations(t *testing.T) {
	profile := moderateProfile()
	profile.BetTypes = []string{BetTypeTotal}

	tests := []struct {
		name         string
		pregameTotal float64
		projection   TotalProjection
		expectedSide string
		expectNone   bool
	}{
		{"over when projecting past the line", 220, TotalProjection{Total: 230.5, Confidence: 0.75}, SideOver, false},
		{"under when projecting short", 220, TotalProjection{Total: 209, Confidence: 0.75}, SideUnder, false},
		{"no posted line", 0, TotalProjection{Total: 230, Confidence: 0.75}, "", true},
		{"push projection skipped", 220, TotalProjection{Total: 220, Confidence: 0.75}, "", true},
		{"low confidence filtered", 220, TotalProjection{Total: 240, Confidence: 0.5}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := moneylineGame("g1", 0.5, 0.8, -110)
			game.Total = tt.projection
			game.Pregame.Total = tt.pregameTotal

			recs := GenerateRecommendations(profile, []GameMarket{game})
			if tt.expectNone {
				assert.Empty(t, recs.SingleBets)
				return
			}
			assert.Len(t, recs.SingleBets, 1)
			bet := recs.SingleBets[0]
			assert.Equal(t, BetTypeTotal, bet.Type)
			assert.Equal(t, tt.expectedSide, bet.Side)
			assert.Equal(t, tt.pregameTotal, bet.TotalLine)
			assert.Equal(t, tt.projection.Total, bet.ProjectedTotal)
		})
	}
}

func TestSingleBetsSortedByStrength(t *testing.T) {
	profile := moderateProfile()
	profile.BetTypes = []string{BetTypeMoneyline}

	games := []GameMarket{
		moneylineGame("weaker", 0.6, 0.7, -120),
		moneylineGame("stronger", 0.8, 0.9, -180),
	}

	recs := GenerateRecommendations(profile, games)
	assert.Len(t, recs.SingleBets, 2)
	assert.Equal(t, "stronger", recs.SingleBets[0].GameID)
	assert.Equal(t, "weaker", recs.SingleBets[1].GameID)
}

func TestParlayGeneration(t *testing.T) {
	profile := moderateProfile()
	games := []GameMarket{
		moneylineGame("g1", 0.7, 0.8, -150),
		moneylineGame("g2", 0.65, 0.8, -120),
		moneylineGame("g3", 0.6, 0.8, 100),
	}

	recs := GenerateRecommendations(profile, games)

	// Three 2-leg pairs plus one 3-leg combo, within the appetite-5 cap of 4.
	assert.Len(t, recs.Parlays, 4)

	legCounts := map[int]int{}
	for _, p := range recs.Parlays {
		legCounts[len(p.Legs)]++
		assert.NotZero(t, p.CombinedOdds)
		assert.Greater(t, p.WinProbability, 0.0)
		assert.Less(t, p.WinProbability, 1.0)

		seen := map[string]bool{}
		for _, leg := range p.Legs {
			assert.False(t, seen[leg.GameID], "parlay reuses game %s", leg.GameID)
			seen[leg.GameID] = true
		}
	}
	assert.Equal(t, 3, legCounts[2])
	assert.Equal(t, 1, legCounts[3])
}

func TestParlayCombinedPricing(t *testing.T) {
	profile := moderateProfile()
	games := []GameMarket{
		moneylineGame("g1", 0.7, 0.8, -150),
		moneylineGame("g2", 0.65, 0.8, -120),
	}

	recs := GenerateRecommendations(profile, games)
	assert.Len(t, recs.Parlays, 1)

	p := recs.Parlays[0]
	assert.Equal(t, ParlayOdds([]int{-150, -120}), p.CombinedOdds)
	assert.InDelta(t, 0.7*0.65, p.WinProbability, 1e-12)
	assert.InDelta(t, 0.8*0.8, p.Confidence, 1e-12)
}

func TestParlaysRequireBetType(t *testing.T) {
	profile := moderateProfile()
	profile.BetTypes = []string{BetTypeMoneyline}

	games := []GameMarket{
		moneylineGame("g1", 0.7, 0.8, -150),
		moneylineGame("g2", 0.65, 0.8, -120),
	}

	recs := GenerateRecommendations(profile, games)
	assert.Empty(t, recs.Parlays)
}

func TestParlayPoolIgnoresOddsRange(t *testing.T) {
	// -400 is outside the single-bet odds range but still usable as a leg.
	profile := moderateProfile()
	games := []GameMarket{
		moneylineGame("g1", 0.85, 0.8, -400),
		moneylineGame("g2", 0.65, 0.8, -120),
	}

	recs := GenerateRecommendations(profile, games)
	assert.Len(t, recs.Parlays, 1)
}

func TestThreeLegParlaysNeedAppetite(t *testing.T) {
	profile := moderateProfile()
	profile.Appetite = 4

	games := []GameMarket{
		moneylineGame("g1", 0.7, 0.8, -150),
		moneylineGame("g2", 0.65, 0.8, -120),
		moneylineGame("g3", 0.6, 0.8, 100),
	}

	recs := GenerateRecommendations(profile, games)
	for _, p := range recs.Parlays {
		assert.Len(t, p.Legs, 2)
	}
}

func TestThreeLegParlaysRespectMaxLegs(t *testing.T) {
	profile := moderateProfile()
	profile.MaxParlayLegs = 2

	games := []GameMarket{
		moneylineGame("g1", 0.7, 0.8, -150),
		moneylineGame("g2", 0.65, 0.8, -120),
		moneylineGame("g3", 0.6, 0.8, 100),
	}

	recs := GenerateRecommendations(profile, games)
	for _, p := range recs.Parlays {
		assert.Len(t, p.Legs, 2)
	}
}

func TestFourLegParlayForAggressiveProfiles(t *testing.T) {
	profile := moderateProfile()
	profile.Appetite = 8
	profile.MaxParlayLegs = 8

	games := []GameMarket{
		moneylineGame("g1", 0.72, 0.9, -160),
		moneylineGame("g2", 0.7, 0.9, -150),
		moneylineGame("g3", 0.68, 0.9, -130),
		moneylineGame("g4", 0.66, 0.9, -120),
	}

	recs := GenerateRecommendations(profile, games)

	fourLeg := 0
	for _, p := range recs.Parlays {
		if len(p.Legs) == 4 {
			fourLeg++
		}
	}
	assert.Equal(t, 1, fourLeg)
}

func TestParlayOutputTruncatedByAppetite(t *testing.T) {
	profile := moderateProfile()
	profile.Appetite = 2
	profile.MaxParlayLegs = 2

	games := []GameMarket{
		moneylineGame("g1", 0.7, 0.8, -150),
		moneylineGame("g2", 0.68, 0.8, -140),
		moneylineGame("g3", 0.66, 0.8, -130),
		moneylineGame("g4", 0.64, 0.8, -120),
	}

	recs := GenerateRecommendations(profile, games)
	assert.LessOrEqual(t, len(recs.Parlays), 3)
}

func TestNoGamesNoRecommendations(t *testing.T) {
	recs := GenerateRecommendations(moderateProfile(), nil)
	assert.Empty(t, recs.SingleBets)
	assert.Empty(t, recs.Parlays)
}
