package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/courtside/courtside/internal/models"
)

// NBAStatsClient fetches live game data from the NBA stats feed. Requests
// run through a rate limiter and a circuit breaker so a misbehaving feed
// can't stampede or hang the poller.
type NBAStatsClient struct {
	baseURL        string
	httpClient     *http.Client
	logger         *logrus.Logger
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
}

const nbaStatsUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// NewNBAStatsClient creates a new NBA stats feed client. requestsPerSecond
// bounds outbound traffic; failureThreshold consecutive failures open the
// circuit.
func NewNBAStatsClient(baseURL string, timeout time.Duration, requestsPerSecond, failureThreshold int, logger *logrus.Logger) *NBAStatsClient {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	if failureThreshold <= 0 {
		failureThreshold = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "nba-stats",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failureThreshold)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"provider":   name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("NBA stats circuit breaker state changed")
		},
	})

	return &NBAStatsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:         logger,
		rateLimiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		circuitBreaker: cb,
	}
}

// Scoreboard feed structures.
type scoreboardResponse struct {
	Games []scoreboardGame `json:"games"`
}

type scoreboardGame struct {
	GameID    string `json:"gameId"`
	StatusNum int    `json:"statusNum"`
	StartTime string `json:"startTimeUTC"`
}

// ScoreboardEntry is one game on the day's slate.
type ScoreboardEntry struct {
	GameID string
	Status string
}

// Boxscore feed structures.
type boxscoreResponse struct {
	BasicGameData boxscoreBasic `json:"basicGameData"`
	Stats         *boxscoreStats `json:"stats"`
}

type boxscoreBasic struct {
	SeasonYear       string       `json:"seasonYear"`
	StartDateEastern string       `json:"startDateEastern"`
	StatusNum        int          `json:"statusNum"`
	Clock            string       `json:"clock"`
	Period           struct {
		Current int `json:"current"`
	} `json:"period"`
	HTeam boxscoreTeam `json:"hTeam"`
	VTeam boxscoreTeam `json:"vTeam"`
}

type boxscoreTeam struct {
	TeamID    string `json:"teamId"`
	TriCode   string `json:"triCode"`
	Score     string `json:"score"`
	Linescore []struct {
		Score string `json:"score"`
	} `json:"linescore"`
}

type boxscoreStats struct {
	HTeam boxscoreTeamStats `json:"hTeam"`
	VTeam boxscoreTeamStats `json:"vTeam"`
}

type boxscoreTeamStats struct {
	FGM       string `json:"fgm"`
	FGA       string `json:"fga"`
	TPM       string `json:"tpm"`
	TPA       string `json:"tpa"`
	FTM       string `json:"ftm"`
	FTA       string `json:"fta"`
	TotReb    string `json:"totReb"`
	Assists   string `json:"assists"`
	Steals    string `json:"steals"`
	Blocks    string `json:"blocks"`
	Turnovers string `json:"turnovers"`
	PFouls    string `json:"pFouls"`
}

// GetScoreboard fetches the slate for the given date.
func (c *NBAStatsClient) GetScoreboard(ctx context.Context, date time.Time) ([]ScoreboardEntry, error) {
	url := fmt.Sprintf("%s/prod/v1/%s/scoreboard.json", c.baseURL, date.Format("20060102"))

	var resp scoreboardResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	entries := make([]ScoreboardEntry, 0, len(resp.Games))
	for _, g := range resp.Games {
		entries = append(entries, ScoreboardEntry{
			GameID: g.GameID,
			Status: MapGameStatus(g.StatusNum),
		})
	}
	return entries, nil
}

// GetBoxscore fetches the live boxscore for one game and converts it into
// the stored game shape. The caller owns persistence.
func (c *NBAStatsClient) GetBoxscore(ctx context.Context, gameID string) (*models.Game, error) {
	url := fmt.Sprintf("%s/prod/v1/game/%s/boxscore.json", c.baseURL, gameID)

	var resp boxscoreResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch boxscore for game %s: %w", gameID, err)
	}

	basic := resp.BasicGameData
	gameDate, err := time.Parse("20060102", basic.StartDateEastern)
	if err != nil {
		// Some feed snapshots use the dashed form.
		gameDate, _ = time.Parse("2006-01-02", basic.StartDateEastern)
	}

	game := &models.Game{
		GameID:        gameID,
		Season:        basic.SeasonYear,
		Date:          gameDate,
		Status:        MapGameStatus(basic.StatusNum),
		Period:        basic.Period.Current,
		TimeRemaining: ParseClock(basic.Clock),
		HomeTeam:      teamStateFromFeed(basic.HTeam),
		AwayTeam:      teamStateFromFeed(basic.VTeam),
		LastUpdated:   time.Now(),
	}

	if resp.Stats != nil {
		game.HomeTeam.Stats = teamStatsFromFeed(resp.Stats.HTeam)
		game.AwayTeam.Stats = teamStatsFromFeed(resp.Stats.VTeam)
	}

	return game, nil
}

func (c *NBAStatsClient) getJSON(ctx context.Context, url string, dest interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	body, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", nbaStatsUserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		}

		var raw json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return raw, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(body.(json.RawMessage), dest)
}

func teamStateFromFeed(t boxscoreTeam) models.TeamState {
	state := models.TeamState{
		TeamID:       t.TeamID,
		Name:         TeamNameByID(t.TeamID),
		Abbreviation: t.TriCode,
		Score:        atoiSafe(t.Score),
	}
	for _, q := range t.Linescore {
		state.QuarterScores = append(state.QuarterScores, atoiSafe(q.Score))
	}
	return state
}

func teamStatsFromFeed(s boxscoreTeamStats) models.TeamStats {
	return models.TeamStats{
		FieldGoalsMade:       atoiSafe(s.FGM),
		FieldGoalsAttempted:  atoiSafe(s.FGA),
		ThreePointsMade:      atoiSafe(s.TPM),
		ThreePointsAttempted: atoiSafe(s.TPA),
		FreeThrowsMade:       atoiSafe(s.FTM),
		FreeThrowsAttempted:  atoiSafe(s.FTA),
		Rebounds:             atoiSafe(s.TotReb),
		Assists:              atoiSafe(s.Assists),
		Steals:               atoiSafe(s.Steals),
		Blocks:               atoiSafe(s.Blocks),
		Turnovers:            atoiSafe(s.Turnovers),
		Fouls:                atoiSafe(s.PFouls),
	}
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ParseClock converts a "MM:SS" game clock into seconds. Empty or malformed
// clocks (the feed clears the field between periods) parse as 0.
func ParseClock(clock string) float64 {
	if clock == "" {
		return 0
	}
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0
	}
	return float64(minutes*60) + seconds
}

// MapGameStatus converts the feed's numeric status to the stored one.
func MapGameStatus(statusNum int) string {
	switch statusNum {
	case 1:
		return models.StatusScheduled
	case 2:
		return models.StatusInProgress
	case 3:
		return models.StatusFinal
	default:
		return models.StatusScheduled
	}
}

// TeamNameByID maps an NBA stats team ID to its full name.
func TeamNameByID(teamID string) string {
	if name, ok := nbaTeamNames[teamID]; ok {
		return name
	}
	return "Unknown Team"
}

var nbaTeamNames = map[string]string{
	"1610612737": "Atlanta Hawks",
	"1610612738": "Boston Celtics",
	"1610612739": "Cleveland Cavaliers",
	"1610612740": "New Orleans Pelicans",
	"1610612741": "Chicago Bulls",
	"1610612742": "Dallas Mavericks",
	"1610612743": "Denver Nuggets",
	"1610612744": "Golden State Warriors",
	"1610612745": "Houston Rockets",
	"1610612746": "Los Angeles Clippers",
	"1610612747": "Los Angeles Lakers",
	"1610612748": "Miami Heat",
	"1610612749": "Milwaukee Bucks",
	"1610612750": "Minnesota Timberwolves",
	"1610612751": "Brooklyn Nets",
	"1610612752": "New York Knicks",
	"1610612753": "Orlando Magic",
	"1610612754": "Indiana Pacers",
	"1610612755": "Philadelphia 76ers",
	"1610612756": "Phoenix Suns",
	"1610612757": "Portland Trail Blazers",
	"1610612758": "Sacramento Kings",
	"1610612759": "San Antonio Spurs",
	"1610612760": "Oklahoma City Thunder",
	"1610612761": "Toronto Raptors",
	"1610612762": "Utah Jazz",
	"1610612763": "Memphis Grizzlies",
	"1610612764": "Washington Wizards",
	"1610612765": "Detroit Pistons",
	"1610612766": "Charlotte Hornets",
}
