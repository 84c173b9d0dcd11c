package grader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreboardClientFinalScores(t *testing.T) {
	var gotPath, gotDate string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDate = r.URL.Query().Get("date")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"games":[
			{"homeTeam":"Boston Celtics","awayTeam":"Los Angeles Lakers",
			 "homeScore":103,"awayScore":100,"status":"final","date":"2026-03-05"},
			{"homeTeam":"Miami Heat","awayTeam":"New York Knicks",
			 "homeScore":0,"awayScore":0,"status":"postponed","date":"2026-03-05"}
		]}`))
	}))
	defer srv.Close()

	c := NewScoreboardClient(srv.URL, 5*time.Second)
	games, err := c.FinalScores(context.Background(), "basketball", "2026-03-05")
	require.NoError(t, err)

	assert.Equal(t, "/scores/basketball", gotPath)
	assert.Equal(t, "2026-03-05", gotDate)
	require.Len(t, games, 2)
	assert.Equal(t, "Boston Celtics", games[0].HomeTeam)
	assert.Equal(t, 103, games[0].HomeScore)
	assert.Equal(t, "final", games[0].Status)
	assert.Equal(t, "postponed", games[1].Status)
}

func TestScoreboardClientNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewScoreboardClient(srv.URL, 5*time.Second)
	_, err := c.FinalScores(context.Background(), "nba", "2026-03-05")
	require.Error(t, err)
}

func TestScoreboardClientBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewScoreboardClient(srv.URL, 5*time.Second)
	for i := 0; i < 5; i++ {
		_, err := c.FinalScores(context.Background(), "nba", "2026-03-05")
		require.Error(t, err)
	}

	// After three consecutive failures the breaker opens and stops
	// hitting the upstream.
	assert.Equal(t, 3, hits)
}
