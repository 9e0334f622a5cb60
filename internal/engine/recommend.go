package engine

import "sort"

// Recommendation thresholds.
const (
	// MinWinProbability is the baseline probability a side needs before it
	// is worth recommending; risk appetite shifts it up or down.
	MinWinProbability = 0.55
	// MinConfidence gates which predictions are actionable at all.
	MinConfidence = 0.6
	// MaxParlayCombinations caps 3-leg enumeration.
	MaxParlayCombinations = 10

	// Book prices for spread and total markets are near-uniform, so a
	// placeholder -110 and an assumed 0.55 win rate are used for staking.
	placeholderOdds        = -110
	assumedSpreadTotalProb = 0.55
)

// Bet sides.
const (
	SideHome  = "home"
	SideAway  = "away"
	SideOver  = "over"
	SideUnder = "under"
)

// MarketOdds is one odds snapshot for a game. A zero moneyline or total
// means the book hasn't posted that market.
type MarketOdds struct {
	HomeMoneyline int     `json:"home_moneyline"`
	AwayMoneyline int     `json:"away_moneyline"`
	Spread        float64 `json:"spread"`
	Total         float64 `json:"total"`
}

// GameMarket bundles everything the recommendation engine needs to know
// about one active game: identity, current forecasts and posted odds.
type GameMarket struct {
	GameID         string           `json:"game_id"`
	HomeTeam       string           `json:"home_team"`
	AwayTeam       string           `json:"away_team"`
	WinProbability WinProbability   `json:"win_probability"`
	Spread         SpreadProjection `json:"spread"`
	Total          TotalProjection  `json:"total"`
	Pregame        MarketOdds       `json:"pregame"`
	Live           MarketOdds       `json:"live"`
}

// BettorProfile is the slice of a user profile the engine consumes.
type BettorProfile struct {
	Appetite      int      `json:"appetite"` // 1-10
	BetTypes      []string `json:"bet_types"`
	MinOdds       int      `json:"min_odds"`
	MaxOdds       int      `json:"max_odds"`
	MaxParlayLegs int      `json:"max_parlay_legs"`
	Budget        Budget   `json:"budget"`
}

// HasBetType reports whether the profile enables the given bet type.
func (p BettorProfile) HasBetType(betType string) bool {
	for _, t := range p.BetTypes {
		if t == betType {
			return true
		}
	}
	return false
}

// winProbabilityThreshold lowers the recommendation bar for aggressive
// bettors and raises it for conservative ones.
func (p BettorProfile) winProbabilityThreshold() float64 {
	return MinWinProbability - float64(p.Appetite-5)*0.02
}

// BetRecommendation is a single suggested bet.
type BetRecommendation struct {
	Type             string  `json:"type"`
	GameID           string  `json:"game_id"`
	Side             string  `json:"side"`
	TeamName         string  `json:"team_name,omitempty"`
	Odds             int     `json:"odds"`
	SpreadValue      float64 `json:"spread_value,omitempty"`
	TotalLine        float64 `json:"total_line,omitempty"`
	ProjectedTotal   float64 `json:"projected_total,omitempty"`
	WinProbability   float64 `json:"win_probability,omitempty"`
	Confidence       float64 `json:"confidence"`
	RecommendedStake float64 `json:"recommended_stake"`
}

// ParlayRecommendation is a combined bet across 2-4 games.
type ParlayRecommendation struct {
	Legs             []BetRecommendation `json:"legs"`
	CombinedOdds     int                 `json:"combined_odds"`
	WinProbability   float64             `json:"win_probability"`
	Confidence       float64             `json:"confidence"`
	RecommendedStake float64             `json:"recommended_stake"`
}

// Recommendations is the full output for one user.
type Recommendations struct {
	SingleBets []BetRecommendation    `json:"single_bets"`
	Parlays    []ParlayRecommendation `json:"parlays"`
}

// GenerateRecommendations turns live forecasts and a user's risk profile
// into ranked, sized betting suggestions. Games whose win probability
// confidence falls below MinConfidence are ignored entirely.
func GenerateRecommendations(profile BettorProfile, games []GameMarket) Recommendations {
	betSizes := RecommendedBetSizes(profile.Appetite, profile.Budget)

	confident := games[:0:0]
	for _, g := range games {
		if g.WinProbability.Confidence >= MinConfidence {
			confident = append(confident, g)
		}
	}

	return Recommendations{
		SingleBets: singleBetRecommendations(profile, confident, betSizes),
		Parlays:    parlayRecommendations(profile, confident, betSizes),
	}
}

func singleBetRecommendations(profile BettorProfile, games []GameMarket, betSizes BetSizes) []BetRecommendation {
	singles := []BetRecommendation{}
	threshold := profile.winProbabilityThreshold()

	for _, game := range games {
		if profile.HasBetType(BetTypeMoneyline) {
			singles = append(singles, moneylineBets(profile, game, threshold, betSizes)...)
		}
		if profile.HasBetType(BetTypeSpread) {
			singles = append(singles, spreadBets(game, betSizes)...)
		}
		if profile.HasBetType(BetTypeTotal) {
			singles = append(singles, totalBets(game, betSizes)...)
		}
	}

	sort.SliceStable(singles, func(i, j int) bool {
		return pickScore(singles[i]) > pickScore(singles[j])
	})

	return singles
}

// pickScore ranks a single bet; picks without an explicit win probability
// (spread and total markets) count as coin flips.
func pickScore(bet BetRecommendation) float64 {
	prob := bet.WinProbability
	if prob == 0 {
		prob = 0.5
	}
	return bet.Confidence * prob
}

func moneylineBets(profile BettorProfile, game GameMarket, threshold float64, betSizes BetSizes) []BetRecommendation {
	bets := []BetRecommendation{}
	wp := game.WinProbability

	if wp.Home >= threshold {
		if odds, ok := postedMoneyline(game, SideHome); ok && odds >= profile.MinOdds && odds <= profile.MaxOdds {
			bets = append(bets, BetRecommendation{
				Type:             BetTypeMoneyline,
				GameID:           game.GameID,
				Side:             SideHome,
				TeamName:         game.HomeTeam,
				Odds:             odds,
				WinProbability:   wp.Home,
				Confidence:       wp.Confidence,
				RecommendedStake: RecommendedStake(wp.Home, wp.Confidence, betSizes.SingleBet),
			})
		}
	}

	if wp.Away >= threshold {
		if odds, ok := postedMoneyline(game, SideAway); ok && odds >= profile.MinOdds && odds <= profile.MaxOdds {
			bets = append(bets, BetRecommendation{
				Type:             BetTypeMoneyline,
				GameID:           game.GameID,
				Side:             SideAway,
				TeamName:         game.AwayTeam,
				Odds:             odds,
				WinProbability:   wp.Away,
				Confidence:       wp.Confidence,
				RecommendedStake: RecommendedStake(wp.Away, wp.Confidence, betSizes.SingleBet),
			})
		}
	}

	return bets
}

// spreadBets recommends a side when the projected spread clears one point.
// The projection is read like a posted line: below -1 plays the home side at
// that number, above +1 plays the away side at the mirrored number.
func spreadBets(game GameMarket, betSizes BetSizes) []BetRecommendation {
	if game.Spread.Confidence < MinConfidence {
		return nil
	}

	bets := []BetRecommendation{}
	projected := game.Spread.Spread
	stake := RecommendedStake(assumedSpreadTotalProb, game.Spread.Confidence, betSizes.SingleBet)

	if projected < -1 {
		bets = append(bets, BetRecommendation{
			Type:             BetTypeSpread,
			GameID:           game.GameID,
			Side:             SideHome,
			TeamName:         game.HomeTeam,
			SpreadValue:      projected,
			Odds:             placeholderOdds,
			Confidence:       game.Spread.Confidence,
			RecommendedStake: stake,
		})
	}
	if projected > 1 {
		bets = append(bets, BetRecommendation{
			Type:             BetTypeSpread,
			GameID:           game.GameID,
			Side:             SideAway,
			TeamName:         game.AwayTeam,
			SpreadValue:      -projected,
			Odds:             placeholderOdds,
			Confidence:       game.Spread.Confidence,
			RecommendedStake: stake,
		})
	}

	return bets
}

// totalBets recommends the over when the projection clears the pregame line
// and the under when it falls short. No posted line, no bet.
func totalBets(game GameMarket, betSizes BetSizes) []BetRecommendation {
	if game.Total.Confidence < MinConfidence || game.Pregame.Total == 0 {
		return nil
	}

	projected := game.Total.Total
	line := game.Pregame.Total
	if projected == line {
		return nil
	}

	side := SideOver
	if projected < line {
		side = SideUnder
	}

	return []BetRecommendation{{
		Type:             BetTypeTotal,
		GameID:           game.GameID,
		Side:             side,
		TotalLine:        line,
		ProjectedTotal:   projected,
		Odds:             placeholderOdds,
		Confidence:       game.Total.Confidence,
		RecommendedStake: RecommendedStake(assumedSpreadTotalProb, game.Total.Confidence, betSizes.SingleBet),
	}}
}

func parlayRecommendations(profile BettorProfile, games []GameMarket, betSizes BetSizes) []ParlayRecommendation {
	parlays := []ParlayRecommendation{}
	if !profile.HasBetType(BetTypeParlay) {
		return parlays
	}

	pool := parlayLegPool(profile, games)

	if len(pool) >= 2 {
		parlays = append(parlays, twoLegParlays(profile, pool, betSizes)...)
	}
	if profile.Appetite >= 5 && len(pool) >= 3 && profile.MaxParlayLegs >= 3 {
		parlays = append(parlays, threeLegParlays(profile, pool, betSizes)...)
	}
	if profile.Appetite >= 8 && len(pool) >= 4 && profile.MaxParlayLegs >= 4 {
		if p, ok := fourLegParlay(pool, betSizes); ok {
			parlays = append(parlays, p)
		}
	}

	// Expected-value proxy kept from the original model for output
	// compatibility, even though it mixes American odds into the formula.
	sort.SliceStable(parlays, func(i, j int) bool {
		iEV := float64(parlays[i].CombinedOdds)*parlays[i].WinProbability - 1
		jEV := float64(parlays[j].CombinedOdds)*parlays[j].WinProbability - 1
		return iEV > jEV
	})

	limit := min(len(parlays), 2+profile.Appetite/2)
	return parlays[:limit]
}

// parlayLegPool collects moneyline picks that clear the appetite-adjusted
// threshold, best first. The user's odds range is deliberately not applied
// here; parlay legs compound, so individual prices matter less.
func parlayLegPool(profile BettorProfile, games []GameMarket) []BetRecommendation {
	threshold := profile.winProbabilityThreshold()
	pool := []BetRecommendation{}

	for _, game := range games {
		wp := game.WinProbability
		if wp.Home >= threshold {
			if odds, ok := postedMoneyline(game, SideHome); ok {
				pool = append(pool, BetRecommendation{
					Type:           BetTypeMoneyline,
					GameID:         game.GameID,
					Side:           SideHome,
					TeamName:       game.HomeTeam,
					Odds:           odds,
					WinProbability: wp.Home,
					Confidence:     wp.Confidence,
				})
			}
		}
		if wp.Away >= threshold {
			if odds, ok := postedMoneyline(game, SideAway); ok {
				pool = append(pool, BetRecommendation{
					Type:           BetTypeMoneyline,
					GameID:         game.GameID,
					Side:           SideAway,
					TeamName:       game.AwayTeam,
					Odds:           odds,
					WinProbability: wp.Away,
					Confidence:     wp.Confidence,
				})
			}
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Confidence*pool[i].WinProbability > pool[j].Confidence*pool[j].WinProbability
	})

	return pool
}

func twoLegParlays(profile BettorProfile, pool []BetRecommendation, betSizes BetSizes) []ParlayRecommendation {
	parlays := []ParlayRecommendation{}
	consider := min(len(pool), 5+profile.Appetite/2)

	for i := 0; i < consider-1; i++ {
		for j := i + 1; j < consider; j++ {
			if pool[i].GameID == pool[j].GameID {
				continue
			}
			parlays = append(parlays, buildParlay([]BetRecommendation{pool[i], pool[j]}, betSizes))
		}
	}
	return parlays
}

func threeLegParlays(profile BettorProfile, pool []BetRecommendation, betSizes BetSizes) []ParlayRecommendation {
	parlays := []ParlayRecommendation{}
	consider := min(len(pool), 4+profile.Appetite/2)
	maxCombos := min(5, MaxParlayCombinations)

	for i := 0; i < consider-2 && len(parlays) < maxCombos; i++ {
		for j := i + 1; j < consider-1 && len(parlays) < maxCombos; j++ {
			for k := j + 1; k < consider && len(parlays) < maxCombos; k++ {
				if pool[i].GameID == pool[j].GameID ||
					pool[i].GameID == pool[k].GameID ||
					pool[j].GameID == pool[k].GameID {
					continue
				}
				parlays = append(parlays, buildParlay([]BetRecommendation{pool[i], pool[j], pool[k]}, betSizes))
			}
		}
	}
	return parlays
}

// fourLegParlay builds a single four-leg ticket from the top of the pool,
// and only when all four legs come from distinct games.
func fourLegParlay(pool []BetRecommendation, betSizes BetSizes) (ParlayRecommendation, bool) {
	legs := pool[:4]
	seen := map[string]bool{}
	for _, leg := range legs {
		if seen[leg.GameID] {
			return ParlayRecommendation{}, false
		}
		seen[leg.GameID] = true
	}
	return buildParlay(legs, betSizes), true
}

// buildParlay prices a set of legs. Combined probability and confidence are
// products across legs: cross-game outcomes are treated as independent,
// which is a modeling simplification rather than a guarantee.
func buildParlay(legs []BetRecommendation, betSizes BetSizes) ParlayRecommendation {
	legOdds := make([]int, len(legs))
	probability := 1.0
	confidence := 1.0
	for i, leg := range legs {
		legOdds[i] = leg.Odds
		probability *= leg.WinProbability
		confidence *= leg.Confidence
	}

	return ParlayRecommendation{
		Legs:             legs,
		CombinedOdds:     ParlayOdds(legOdds),
		WinProbability:   probability,
		Confidence:       confidence,
		RecommendedStake: RecommendedStake(probability, confidence, betSizes.Parlay),
	}
}

// postedMoneyline returns the live price for a side, falling back to the
// pregame line. A zero price means the market isn't posted.
func postedMoneyline(game GameMarket, side string) (int, bool) {
	var live, pregame int
	if side == SideHome {
		live, pregame = game.Live.HomeMoneyline, game.Pregame.HomeMoneyline
	} else {
		live, pregame = game.Live.AwayMoneyline, game.Pregame.AwayMoneyline
	}
	if live != 0 {
		return live, true
	}
	if pregame != 0 {
		return pregame, true
	}
	return 0, false
}
