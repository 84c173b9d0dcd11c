// Package pickswise parses Pickswise prediction pages, which ship their data
// as a Next.js __NEXT_DATA__ blob.
package pickswise

import (
	"encoding/json"
	"time"

	"github.com/tipline/tipline/internal/pkg/adapters"
	"github.com/tipline/tipline/internal/pkg/models"
)

type nextData struct {
	Props struct {
		PageProps struct {
			Predictions []prediction `json:"predictions"`
		} `json:"pageProps"`
	} `json:"props"`
}

type prediction struct {
	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	StartTime  string `json:"startTime"` // ISO8601
	Market     string `json:"market"`    // moneyline | spread | total | btts
	Selection  string `json:"selection"` // home | away | draw | over | under | yes | no
	Line       string `json:"line"`      // "-6.5", "2.5", "" for moneyline
	Odds       string `json:"odds"`      // American, e.g. "-110"
	Tipster    string `json:"tipster"`
	Stars      int    `json:"stars"` // 1..5 confidence
	Reasoning  string `json:"reasoning"`
}

func init() {
	adapters.Register(&adapters.Adapter{
		Config: adapters.Config{
			ID:          "pickswise",
			Name:        "Pickswise",
			BaseURL:     "https://www.pickswise.example",
			FetchMethod: models.FetchHTTP,
			Paths: map[string]string{
				models.SportBasketball: "/nba/predictions/",
				models.SportFootball:   "/soccer/predictions/",
			},
			Cron:       "0 30 */3 * * *",
			RateLimit:  3 * time.Second,
			MaxRetries: 3,
			Backoff:    adapters.Backoff{Type: "exponential", Delay: 3 * time.Second},
		},
		Parse: parse,
	})
}

func parse(body []byte, sport string, fetchedAt time.Time) []models.RawPrediction {
	raw, ok := adapters.ExtractNextData(body)
	if !ok {
		return nil
	}
	var data nextData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}

	var out []models.RawPrediction
	for _, p := range data.Props.PageProps.Predictions {
		gameDate, err := adapters.ParseGameDate(p.StartTime, fetchedAt)
		if err != nil {
			continue
		}

		pickType, side := market(p.Market, p.Selection)
		value := adapters.ParseSignedNumber(p.Line)
		if pickType == models.PickMoneyline {
			// moneyline rows carry the price instead of a line
			value = adapters.ParseSignedNumber(p.Odds)
		}

		r := models.RawPrediction{
			SourceSlug:  "pickswise",
			Sport:       sport,
			HomeTeamRaw: p.HomeTeam,
			AwayTeamRaw: p.AwayTeam,
			GameDate:    gameDate,
			PickType:    pickType,
			Side:        side,
			Value:       value,
			PickerName:  p.Tipster,
			Confidence:  confidence(p.Stars),
			Reasoning:   p.Reasoning,
			FetchedAt:   fetchedAt,
		}
		if !r.Valid() {
			continue
		}
		out = append(out, r)
	}
	return out
}

func market(market, selection string) (pickType, side string) {
	switch market {
	case "moneyline":
		return models.PickMoneyline, selection
	case "spread":
		return models.PickSpread, selection
	case "total":
		return models.PickOverUnder, selection
	case "btts":
		return models.PickProp, selection
	default:
		return "", ""
	}
}

func confidence(stars int) string {
	switch {
	case stars >= 5:
		return models.ConfidenceBestBet
	case stars >= 4:
		return models.ConfidenceHigh
	case stars >= 3:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
