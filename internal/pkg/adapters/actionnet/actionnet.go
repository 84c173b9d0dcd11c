// Package actionnet parses an SPA picks site that hydrates from
// window.__INITIAL_STATE__; it needs the browser fetch path to render.
package actionnet

import (
	"encoding/json"
	"time"

	"github.com/tipline/tipline/internal/pkg/adapters"
	"github.com/tipline/tipline/internal/pkg/fetch"
	"github.com/tipline/tipline/internal/pkg/models"
)

type initialState struct {
	Picks struct {
		Items []item `json:"items"`
	} `json:"picks"`
}

type item struct {
	Game struct {
		HomeTeam string `json:"homeTeam"`
		AwayTeam string `json:"awayTeam"`
		Date     string `json:"date"` // YYYY-MM-DD
		Time     string `json:"time"` // HH:MM
	} `json:"game"`
	BetType    string   `json:"betType"` // moneyline | spread | total
	Side       string   `json:"side"`
	Line       *float64 `json:"line"`
	OddsUS     *float64 `json:"oddsUs"` // American price
	Author     string   `json:"author"`
	Units      float64  `json:"units"` // stake size doubles as conviction
	Writeup    string   `json:"writeup"`
}

func init() {
	adapters.Register(&adapters.Adapter{
		Config: adapters.Config{
			ID:          "actionnet",
			Name:        "Action Network Staff Picks",
			BaseURL:     "https://www.actionnet.example",
			FetchMethod: models.FetchBrowser,
			Paths: map[string]string{
				models.SportBasketball: "/nba/picks",
			},
			Cron:       "0 10 */3 * * *",
			RateLimit:  4 * time.Second,
			MaxRetries: 2,
			Backoff:    adapters.Backoff{Type: "exponential", Delay: 4 * time.Second},
			Timeout:    60 * time.Second,
		},
		Parse:          parse,
		BrowserActions: fetch.WaitVisible("[data-testid=pick-list]", 8*time.Second),
	})
}

func parse(body []byte, sport string, fetchedAt time.Time) []models.RawPrediction {
	raw, ok := adapters.ExtractInitialState(body)
	if !ok {
		return nil
	}
	var state initialState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil
	}

	var out []models.RawPrediction
	for _, it := range state.Picks.Items {
		gameDate, err := adapters.ParseGameDate(it.Game.Date, fetchedAt)
		if err != nil {
			continue
		}

		pickType := betType(it.BetType)
		value := it.Line
		if pickType == models.PickMoneyline {
			value = it.OddsUS
		}

		r := models.RawPrediction{
			SourceSlug:  "actionnet",
			Sport:       sport,
			HomeTeamRaw: it.Game.HomeTeam,
			AwayTeamRaw: it.Game.AwayTeam,
			GameDate:    gameDate,
			GameTime:    adapters.ParseGameTime(it.Game.Time),
			PickType:    pickType,
			Side:        it.Side,
			Value:       value,
			PickerName:  it.Author,
			Confidence:  confidence(it.Units),
			Reasoning:   it.Writeup,
			FetchedAt:   fetchedAt,
		}
		if !r.Valid() {
			continue
		}
		out = append(out, r)
	}
	return out
}

func betType(t string) string {
	switch t {
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

func confidence(units float64) string {
	switch {
	case units >= 3:
		return models.ConfidenceBestBet
	case units >= 2:
		return models.ConfidenceHigh
	case units >= 1:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
