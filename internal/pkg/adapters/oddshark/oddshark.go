// Package oddshark consumes OddsShark's computer-picks JSON endpoint.
package oddshark

import (
	"encoding/json"
	"time"

	"github.com/tipline/tipline/internal/pkg/adapters"
	"github.com/tipline/tipline/internal/pkg/models"
)

type pickResponse struct {
	Picks []pick `json:"picks"`
}

type pick struct {
	HomeTeam   string   `json:"home_team"`
	AwayTeam   string   `json:"away_team"`
	Date       string   `json:"date"`
	Time       string   `json:"time"`
	Market     string   `json:"market"` // moneyline | spread | total
	Side       string   `json:"side"`   // home | away | over | under
	Line       *float64 `json:"line"`
	Expert     string   `json:"expert"`
	Confidence string   `json:"confidence"` // lock | strong | lean
	Analysis   string   `json:"analysis"`
}

func init() {
	adapters.Register(&adapters.Adapter{
		Config: adapters.Config{
			ID:          "oddshark",
			Name:        "OddsShark Computer Picks",
			BaseURL:     "https://www.oddsshark.example",
			FetchMethod: models.FetchHTTP,
			Paths: map[string]string{
				models.SportBasketball: "/api/picks/nba",
				models.SportNFL:        "/api/picks/nfl",
			},
			Cron:       "0 0 */4 * * *", // every 4 hours
			RateLimit:  2 * time.Second,
			MaxRetries: 3,
			Backoff:    adapters.Backoff{Type: "exponential", Delay: 2 * time.Second},
		},
		Parse: parse,
	})
}

func parse(body []byte, sport string, fetchedAt time.Time) []models.RawPrediction {
	var resp pickResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}

	var out []models.RawPrediction
	for _, p := range resp.Picks {
		gameDate, err := adapters.ParseGameDate(p.Date, fetchedAt)
		if err != nil {
			continue
		}
		r := models.RawPrediction{
			SourceSlug:  "oddshark",
			Sport:       sport,
			HomeTeamRaw: p.HomeTeam,
			AwayTeamRaw: p.AwayTeam,
			GameDate:    gameDate,
			GameTime:    adapters.ParseGameTime(p.Time),
			PickType:    pickType(p.Market),
			Side:        p.Side,
			Value:       p.Line,
			PickerName:  p.Expert,
			Confidence:  confidence(p.Confidence),
			Reasoning:   p.Analysis,
			FetchedAt:   fetchedAt,
		}
		if r.PickerName == "" {
			r.PickerName = "OddsShark Computer"
		}
		if !r.Valid() {
			continue
		}
		out = append(out, r)
	}
	return out
}

func pickType(market string) string {
	switch market {
	case "moneyline":
		return models.PickMoneyline
	case "spread":
		return models.PickSpread
	case "total":
		return models.PickOverUnder
	default:
		return ""
	}
}

func confidence(c string) string {
	switch c {
	case "lock":
		return models.ConfidenceBestBet
	case "strong":
		return models.ConfidenceHigh
	case "lean":
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
