package engine

// League-average baselines used when a team is missing from the rating tables.
const (
	LeagueAveragePace   = 100.0 // possessions per 48 minutes
	LeagueAverageRating = 110.0 // points per 100 possessions
)

// TeamRating holds the static strength numbers for one team.
type TeamRating struct {
	// Power is the team's point differential versus a league-average
	// opponent on a neutral floor.
	Power float64 `json:"power"`
	// Pace is estimated possessions per 48 minutes.
	Pace float64 `json:"pace"`
	// OffensiveRating and DefensiveRating are points scored/allowed
	// per 100 possessions.
	OffensiveRating float64 `json:"offensive_rating"`
	DefensiveRating float64 `json:"defensive_rating"`
}

// RatingProvider resolves a team name to its static ratings. Implementations
// must return league-average defaults for unknown teams rather than failing,
// so the prediction models never error on a missing lookup.
type RatingProvider interface {
	Get(teamName string) TeamRating
}

// StaticRatingProvider serves ratings from an in-memory table.
type StaticRatingProvider struct {
	ratings map[string]TeamRating
}

// NewStaticRatingProvider builds a provider over the given table. Pass nil to
// get a provider that returns league-average ratings for every team.
func NewStaticRatingProvider(ratings map[string]TeamRating) *StaticRatingProvider {
	if ratings == nil {
		ratings = map[string]TeamRating{}
	}
	return &StaticRatingProvider{ratings: ratings}
}

// Get returns the ratings for teamName, defaulting unknown teams to a
// zero-power, league-average profile.
func (p *StaticRatingProvider) Get(teamName string) TeamRating {
	if r, ok := p.ratings[teamName]; ok {
		return r
	}
	return TeamRating{
		Power:           0,
		Pace:            LeagueAveragePace,
		OffensiveRating: LeagueAverageRating,
		DefensiveRating: LeagueAverageRating,
	}
}

// DefaultRatings returns the bundled 2024-25 NBA rating table. Power ratings,
// pace factors and efficiency numbers are season-level estimates; production
// deployments can swap in a provider backed by live data.
func DefaultRatings() map[string]TeamRating {
	return map[string]TeamRating{
		"Atlanta Hawks":          {Power: 0, Pace: 102, OffensiveRating: 112, DefensiveRating: 115},
		"Boston Celtics":         {Power: 5, Pace: 98, OffensiveRating: 118, DefensiveRating: 110},
		"Brooklyn Nets":          {Power: 0, Pace: 99, OffensiveRating: 113, DefensiveRating: 114},
		"Charlotte Hornets":      {Power: -3, Pace: 101, OffensiveRating: 109, DefensiveRating: 116},
		"Chicago Bulls":          {Power: -2, Pace: 97, OffensiveRating: 112, DefensiveRating: 115},
		"Cleveland Cavaliers":    {Power: 3, Pace: 96, OffensiveRating: 115, DefensiveRating: 110},
		"Dallas Mavericks":       {Power: 4, Pace: 97, OffensiveRating: 116, DefensiveRating: 112},
		"Denver Nuggets":         {Power: 4, Pace: 98, OffensiveRating: 117, DefensiveRating: 112},
		"Detroit Pistons":        {Power: -5, Pace: 100, OffensiveRating: 108, DefensiveRating: 118},
		"Golden State Warriors":  {Power: 2, Pace: 103, OffensiveRating: 116, DefensiveRating: 113},
		"Houston Rockets":        {Power: -3, Pace: 102, OffensiveRating: 110, DefensiveRating: 116},
		"Indiana Pacers":         {Power: 0, Pace: 104, OffensiveRating: 115, DefensiveRating: 117},
		"Los Angeles Clippers":   {Power: 2, Pace: 99, OffensiveRating: 115, DefensiveRating: 112},
		"Los Angeles Lakers":     {Power: 1, Pace: 101, OffensiveRating: 114, DefensiveRating: 113},
		"Memphis Grizzlies":      {Power: 1, Pace: 100, OffensiveRating: 114, DefensiveRating: 113},
		"Miami Heat":             {Power: 2, Pace: 97, OffensiveRating: 113, DefensiveRating: 112},
		"Milwaukee Bucks":        {Power: 4, Pace: 102, OffensiveRating: 117, DefensiveRating: 111},
		"Minnesota Timberwolves": {Power: 3, Pace: 100, OffensiveRating: 115, DefensiveRating: 110},
		"New Orleans Pelicans":   {Power: 0, Pace: 99, OffensiveRating: 114, DefensiveRating: 113},
		"New York Knicks":        {Power: 2, Pace: 96, OffensiveRating: 115, DefensiveRating: 111},
		"Oklahoma City Thunder":  {Power: 3, Pace: 100, OffensiveRating: 116, DefensiveRating: 111},
		"Orlando Magic":          {Power: -1, Pace: 98, OffensiveRating: 111, DefensiveRating: 113},
		"Philadelphia 76ers":     {Power: 3, Pace: 97, OffensiveRating: 115, DefensiveRating: 111},
		"Phoenix Suns":           {Power: 3, Pace: 100, OffensiveRating: 116, DefensiveRating: 112},
		"Portland Trail Blazers": {Power: -4, Pace: 99, OffensiveRating: 109, DefensiveRating: 117},
		"Sacramento Kings":       {Power: 1, Pace: 102, OffensiveRating: 116, DefensiveRating: 115},
		"San Antonio Spurs":      {Power: -2, Pace: 100, OffensiveRating: 110, DefensiveRating: 116},
		"Toronto Raptors":        {Power: -1, Pace: 98, OffensiveRating: 112, DefensiveRating: 114},
		"Utah Jazz":              {Power: -3, Pace: 99, OffensiveRating: 110, DefensiveRating: 117},
		"Washington Wizards":     {Power: -4, Pace: 101, OffensiveRating: 111, DefensiveRating: 117},
	}
}
