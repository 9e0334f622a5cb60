package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/courtside/internal/engine"
	"github.com/courtside/courtside/internal/models"
	"github.com/courtside/courtside/internal/providers"
)

const pollerBoxscore = `{
	"basicGameData": {
		"seasonYear": "2024",
		"startDateEastern": "20250115",
		"statusNum": 2,
		"clock": "7:05",
		"period": {"current": 3},
		"hTeam": {"teamId":"1610612738","triCode":"BOS","score":"78"},
		"vTeam": {"teamId":"1610612752","triCode":"NYK","score":"72"}
	}
}`

func newTestPoller(t *testing.T, scoreboard string) (*ScoreboardPoller, *PredictionService) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/scoreboard.json"):
			w.Write([]byte(scoreboard))
		case strings.HasSuffix(r.URL.Path, "/boxscore.json"):
			w.Write([]byte(pollerBoxscore))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	db := newTestDB(t)
	hub := NewWebSocketHub()
	go hub.Run()
	predictions := NewPredictionService(
		db, newTestCache(), hub,
		engine.NewStaticRatingProvider(engine.DefaultRatings()),
		quietLogger(), 120, 30*time.Second,
	)
	client := providers.NewNBAStatsClient(server.URL, 5*time.Second, 100, 5, quietLogger())
	poller := NewScoreboardPoller(db, client, predictions, quietLogger(), 30*time.Second)
	return poller, predictions
}

func TestPollOnceIngestsLiveGames(t *testing.T) {
	poller, predictions := newTestPoller(t, `{"games":[
		{"gameId":"0022400123","statusNum":2},
		{"gameId":"0022400124","statusNum":1}
	]}`)
	ctx := context.Background()

	require.NoError(t, poller.PollOnce(ctx))

	game, err := predictions.GetGame(ctx, "0022400123")
	require.NoError(t, err)
	require.NotNil(t, game)
	assert.Equal(t, models.StatusInProgress, game.Status)
	assert.Equal(t, 78, game.HomeTeam.Score)
	assert.Greater(t, game.Predictions.WinProbability.Home, 0.0)

	// Scheduled games are left alone until tipoff.
	scheduled, err := predictions.GetGame(ctx, "0022400124")
	require.NoError(t, err)
	assert.Nil(t, scheduled)
}

func TestPollOnceSkipsSettledFinals(t *testing.T) {
	poller, predictions := newTestPoller(t, `{"games":[
		{"gameId":"0022400123","statusNum":3}
	]}`)
	ctx := context.Background()

	// Unknown final: nothing stored locally, nothing to settle.
	require.NoError(t, poller.PollOnce(ctx))
	game, err := predictions.GetGame(ctx, "0022400123")
	require.NoError(t, err)
	assert.Nil(t, game)
}

func TestPollerStartStop(t *testing.T) {
	poller, _ := newTestPoller(t, `{"games":[]}`)

	require.NoError(t, poller.Start())
	assert.True(t, poller.IsRunning())
	assert.Error(t, poller.Start())

	poller.Stop()
	assert.False(t, poller.IsRunning())
}
