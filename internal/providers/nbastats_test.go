package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/courtside/internal/models"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		clock    string
		expected float64
	}{
		{"11:45", 705},
		{"0:32.5", 32.5},
		{"", 0},
		{"bad", 0},
		{"12:xx", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseClock(tt.clock), "clock %q", tt.clock)
	}
}

func TestMapGameStatus(t *testing.T) {
	assert.Equal(t, models.StatusScheduled, MapGameStatus(1))
	assert.Equal(t, models.StatusInProgress, MapGameStatus(2))
	assert.Equal(t, models.StatusFinal, MapGameStatus(3))
	assert.Equal(t, models.StatusScheduled, MapGameStatus(99))
}

func TestTeamNameByID(t *testing.T) {
	assert.Equal(t, "Boston Celtics", TeamNameByID("1610612738"))
	assert.Equal(t, "Unknown Team", TeamNameByID("0"))
}

func TestGetScoreboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prod/v1/20250115/scoreboard.json", r.URL.Path)
		w.Write([]byte(`{"games":[
			{"gameId":"0022400123","statusNum":2},
			{"gameId":"0022400124","statusNum":1},
			{"gameId":"0022400125","statusNum":3}
		]}`))
	}))
	defer server.Close()

	client := NewNBAStatsClient(server.URL, 5*time.Second, 10, 5, logrus.New())
	date := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	entries, err := client.GetScoreboard(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "0022400123", entries[0].GameID)
	assert.Equal(t, models.StatusInProgress, entries[0].Status)
	assert.Equal(t, models.StatusScheduled, entries[1].Status)
	assert.Equal(t, models.StatusFinal, entries[2].Status)
}

func TestGetBoxscore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prod/v1/game/0022400123/boxscore.json", r.URL.Path)
		w.Write([]byte(`{
			"basicGameData": {
				"seasonYear": "2024",
				"startDateEastern": "20250115",
				"statusNum": 2,
				"clock": "7:05",
				"period": {"current": 3},
				"hTeam": {"teamId":"1610612738","triCode":"BOS","score":"78","linescore":[{"score":"30"},{"score":"28"},{"score":"20"}]},
				"vTeam": {"teamId":"1610612752","triCode":"NYK","score":"72","linescore":[{"score":"25"},{"score":"27"},{"score":"20"}]}
			},
			"stats": {
				"hTeam": {"fgm":"30","fga":"60","tpm":"8","tpa":"20","ftm":"10","fta":"12","totReb":"25","assists":"18","steals":"5","blocks":"3","turnovers":"7","pFouls":"12"},
				"vTeam": {"fgm":"28","fga":"62","tpm":"6","tpa":"22","ftm":"10","fta":"14","totReb":"27","assists":"15","steals":"4","blocks":"2","turnovers":"9","pFouls":"14"}
			}
		}`))
	}))
	defer server.Close()

	client := NewNBAStatsClient(server.URL, 5*time.Second, 10, 5, logrus.New())

	game, err := client.GetBoxscore(context.Background(), "0022400123")
	require.NoError(t, err)

	assert.Equal(t, "0022400123", game.GameID)
	assert.Equal(t, models.StatusInProgress, game.Status)
	assert.Equal(t, 3, game.Period)
	assert.Equal(t, 425.0, game.TimeRemaining)
	assert.Equal(t, "Boston Celtics", game.HomeTeam.Name)
	assert.Equal(t, 78, game.HomeTeam.Score)
	assert.Equal(t, []int{30, 28, 20}, game.HomeTeam.QuarterScores)
	assert.Equal(t, 30, game.HomeTeam.Stats.FieldGoalsMade)
	assert.Equal(t, "New York Knicks", game.AwayTeam.Name)
	assert.Equal(t, 14, game.AwayTeam.Stats.Fouls)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), game.Date)
}

func TestGetBoxscoreUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewNBAStatsClient(server.URL, 5*time.Second, 10, 5, logrus.New())

	_, err := client.GetBoxscore(context.Background(), "0022400123")
	assert.Error(t, err)
}
