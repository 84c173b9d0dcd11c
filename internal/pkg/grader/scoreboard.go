package grader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// ScoreboardGame is one settled game as reported by the scoreboard feed.
type ScoreboardGame struct {
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
	Status    string `json:"status"` // final | postponed | cancelled
	Date      string `json:"date"`   // YYYY-MM-DD
}

// ResultSource fetches final scores for a sport and date.
type ResultSource interface {
	Name() string
	FinalScores(ctx context.Context, sport, date string) ([]ScoreboardGame, error)
}

// ScoreboardClient is an HTTP ResultSource wrapped in a circuit breaker, so a
// flapping scoreboard does not burn the grader's whole interval on timeouts.
type ScoreboardClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewScoreboardClient(baseURL string, timeout time.Duration) *ScoreboardClient {
	return &ScoreboardClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "scoreboard",
			Timeout: 60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

func (c *ScoreboardClient) Name() string { return "scoreboard" }

func (c *ScoreboardClient) FinalScores(ctx context.Context, sport, date string) ([]ScoreboardGame, error) {
	res, err := c.breaker.Execute(func() (any, error) {
		return c.fetch(ctx, sport, date)
	})
	if err != nil {
		return nil, err
	}
	return res.([]ScoreboardGame), nil
}

func (c *ScoreboardClient) fetch(ctx context.Context, sport, date string) ([]ScoreboardGame, error) {
	u := fmt.Sprintf("%s/scores/%s?date=%s", c.baseURL, url.PathEscape(sport), url.QueryEscape(date))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create scoreboard request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoreboard request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoreboard returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read scoreboard response: %w", err)
	}

	var payload struct {
		Games []ScoreboardGame `json:"games"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse scoreboard response: %w", err)
	}
	return payload.Games, nil
}
