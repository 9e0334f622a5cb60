package engine

import "math"

// SpreadProjection is a point spread estimate derived from the win
// probability model's expected final differential.
type SpreadProjection struct {
	// Spread follows the betting convention used by the win probability
	// model: positive means the home team is expected to win by that margin.
	Spread     float64 `json:"spread"`
	Confidence float64 `json:"confidence"`
}

// TotalProjection is a combined final score estimate.
type TotalProjection struct {
	Total      float64 `json:"total"`
	Confidence float64 `json:"confidence"`
}

// ProjectSpread derives a point spread from the expected final score
// differential, rounded to the nearest half point.
func ProjectSpread(game GameSnapshot, ratings RatingProvider) SpreadProjection {
	wp := ProjectWinProbability(game, ratings)
	return SpreadProjection{
		Spread:     roundHalf(wp.ExpectedFinalDiff),
		Confidence: wp.Confidence,
	}
}

// ProjectTotal estimates the combined final score from the teams' pace and
// efficiency ratings and the points already on the board.
//
// Expected remaining scoring is possessions left (average pace scaled by the
// clock fraction) times each side's points per possession, where PPP is the
// offense's rating adjusted by the opponent's defense relative to league
// average.
func ProjectTotal(game GameSnapshot, ratings RatingProvider) TotalProjection {
	currentTotal := float64(game.HomeScore + game.AwayScore)
	timeRemaining := game.TimeRemaining()

	home := ratings.Get(game.HomeTeam)
	away := ratings.Get(game.AwayTeam)

	gamePace := (home.Pace + away.Pace) / 2
	homePPP := (home.OffensiveRating / 100) * (away.DefensiveRating / LeagueAverageRating)
	awayPPP := (away.OffensiveRating / 100) * (home.DefensiveRating / LeagueAverageRating)

	remainingPossessions := gamePace * (timeRemaining / RegulationSeconds)
	expectedRemainingPoints := (homePPP + awayPPP) * remainingPossessions

	return TotalProjection{
		Total:      roundHalf(currentTotal + expectedRemainingPoints),
		Confidence: math.Min(0.95, game.Progress()+0.2),
	}
}

// roundHalf rounds to the nearest half point, matching published lines.
func roundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}
