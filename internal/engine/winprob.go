package engine

import "math"

// Game clock constants. Regulation is four 12-minute periods; overtime
// periods contribute only their live clock (see ProjectWinProbability).
const (
	RegulationSeconds  = 2880.0 // 48 minutes
	PeriodSeconds      = 720.0  // 12 minutes
	RegulationPeriods  = 4
	HomeCourtAdvantage = 3.0  // points
	ScoreStdDev        = 12.0 // standard deviation of NBA final margins
)

// GameSnapshot is the live game state the prediction models operate on.
// It is a plain value; callers materialize it from whatever store or feed
// they use.
type GameSnapshot struct {
	GameID       string  `json:"game_id"`
	HomeTeam     string  `json:"home_team"`
	AwayTeam     string  `json:"away_team"`
	HomeScore    int     `json:"home_score"`
	AwayScore    int     `json:"away_score"`
	Period       int     `json:"period"`        // 1-4 regulation, 5+ overtime
	ClockSeconds float64 `json:"clock_seconds"` // seconds left in the current period
}

// WinProbability is the output of the win probability model.
type WinProbability struct {
	Home              float64 `json:"home"`
	Away              float64 `json:"away"`
	ExpectedFinalDiff float64 `json:"expected_final_diff"`
	Confidence        float64 `json:"confidence"`
}

// TimeRemaining returns the seconds left against the regulation clock.
// Overtime periods are not modeled beyond their live clock: once the game is
// past period 4 only the current period's clock counts. The same convention
// is used by the total score projection so the two models agree.
func (g GameSnapshot) TimeRemaining() float64 {
	if g.Period <= RegulationPeriods {
		return float64(5-g.Period)*PeriodSeconds + g.ClockSeconds
	}
	return g.ClockSeconds
}

// Progress returns the fraction of regulation time already played, in [0, 1].
func (g GameSnapshot) Progress() float64 {
	elapsed := RegulationSeconds - math.Min(RegulationSeconds, g.TimeRemaining())
	return math.Min(1.0, elapsed/RegulationSeconds)
}

// ProjectWinProbability estimates the home team's chance of winning from the
// live score, the game clock and the teams' static power ratings.
//
// The model treats the final margin as normally distributed around an
// expected differential. Before tip-off the expectation is the rating gap
// plus home-court advantage; once play starts the current score differential
// is extrapolated at its observed rate and blended in, with the pre-game
// expectation washed out as the game progresses. The spread of the
// distribution shrinks with the square root of the time remaining.
func ProjectWinProbability(game GameSnapshot, ratings RatingProvider) WinProbability {
	scoreDiff := float64(game.HomeScore - game.AwayScore)
	timeRemaining := game.TimeRemaining()
	timeElapsed := RegulationSeconds - timeRemaining

	home := ratings.Get(game.HomeTeam)
	away := ratings.Get(game.AwayTeam)
	expectedFinalDiff := home.Power - away.Power + HomeCourtAdvantage

	if timeElapsed > 0 {
		// Extrapolate the live differential forward at its current rate,
		// weighted down as less of the game remains.
		progress := math.Min(1.0, timeElapsed/RegulationSeconds)
		expectedFinalDiff = (scoreDiff/progress)*(1-progress) + scoreDiff
	}

	stdDev := ScoreStdDev
	if timeRemaining > 0 {
		stdDev = ScoreStdDev * math.Sqrt(timeRemaining/RegulationSeconds)
	} else {
		// Small non-zero value so the CDF stays defined at the buzzer.
		stdDev = 0.1
	}

	homeWin := 1 - normalCDF(0, expectedFinalDiff, stdDev)
	homeWin = math.Max(0.001, math.Min(0.999, homeWin))

	return WinProbability{
		Home:              homeWin,
		Away:              1 - homeWin,
		ExpectedFinalDiff: expectedFinalDiff,
		Confidence:        1.0 - stdDev/ScoreStdDev,
	}
}

// normalCDF evaluates the cumulative distribution of N(mean, stdDev) at x.
func normalCDF(x, mean, stdDev float64) float64 {
	z := (x - mean) / stdDev
	return 0.5 * (1 + erf(z/math.Sqrt2))
}

// erf is the Abramowitz & Stegun 7.1.26 approximation of the error function.
// The coefficients match the reference implementation exactly; do not swap in
// math.Erf without re-baselining the prediction history.
func erf(x float64) float64 {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)

	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	x = math.Abs(x)

	t := 1.0 / (1.0 + p*x)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)

	return sign * y
}
