// Package sportsgambler parses a server-rendered football tips page with
// predicted scorelines, BTTS and over/under props.
package sportsgambler

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tipline/tipline/internal/pkg/adapters"
	"github.com/tipline/tipline/internal/pkg/models"
)

func init() {
	adapters.Register(&adapters.Adapter{
		Config: adapters.Config{
			ID:          "sportsgambler",
			Name:        "SportsGambler Tips",
			BaseURL:     "https://www.sportsgambler.example",
			FetchMethod: models.FetchHTTP,
			Paths: map[string]string{
				models.SportFootball: "/betting-tips/football/",
			},
			Cron:       "0 20 */2 * * *",
			RateLimit:  2 * time.Second,
			MaxRetries: 3,
			Backoff:    adapters.Backoff{Type: "exponential", Delay: 2 * time.Second},
		},
		Parse: parse,
	})
}

func parse(body []byte, sport string, fetchedAt time.Time) []models.RawPrediction {
	doc := adapters.Doc(body)
	if doc == nil {
		return nil
	}

	var out []models.RawPrediction
	doc.Find(".prediction-row").Each(func(_ int, row *goquery.Selection) {
		home, away, ok := adapters.SplitTeams(row.Find(".teams").Text())
		if !ok {
			return
		}
		gameDate, err := adapters.ParseGameDate(row.Find(".match-date").Text(), fetchedAt)
		if err != nil {
			return
		}

		// One row can carry several tips: result, goals, BTTS.
		predicted := adapters.CleanText(row.Find(".predicted-score").Text())
		reasoning := adapters.CleanText(row.Find(".tip-text").Text())
		if predicted != "" {
			if h, a, ok := adapters.ExtractPredictedScore("Predicted: " + strings.TrimPrefix(predicted, "Predicted: ")); ok {
				reasoning = fmt.Sprintf("%s Predicted: %d-%d", reasoning, h, a)
				reasoning = strings.TrimSpace(reasoning)
			}
		}

		base := models.RawPrediction{
			SourceSlug:  "sportsgambler",
			Sport:       sport,
			HomeTeamRaw: home,
			AwayTeamRaw: away,
			GameDate:    gameDate,
			GameTime:    adapters.ParseGameTime(row.Find(".kickoff").Text()),
			PickerName:  "SportsGambler",
			Confidence:  confidence(row),
			Reasoning:   reasoning,
			FetchedAt:   fetchedAt,
		}

		row.Find(".tip").Each(func(_ int, tip *goquery.Selection) {
			r := base
			pickType, side, value := classifyTip(adapters.CleanText(tip.Text()), home, away)
			if pickType == "" {
				return
			}
			r.PickType, r.Side, r.Value = pickType, side, value
			if !r.Valid() {
				return
			}
			out = append(out, r)
		})
	})
	return out
}

func classifyTip(tip, home, away string) (pickType, side string, value *float64) {
	lower := strings.ToLower(tip)
	switch {
	case strings.HasPrefix(lower, "btts"):
		if strings.Contains(lower, "no") {
			return models.PickProp, models.SideNo, nil
		}
		return models.PickProp, models.SideYes, nil
	case strings.Contains(lower, "over"):
		return models.PickOverUnder, models.SideOver, adapters.ExtractNumber(tip)
	case strings.Contains(lower, "under"):
		return models.PickOverUnder, models.SideUnder, adapters.ExtractNumber(tip)
	case strings.Contains(lower, "draw"):
		return models.PickMoneyline, models.SideDraw, nil
	case strings.Contains(lower, "to win"):
		team := strings.TrimSpace(strings.Split(tip, " to win")[0])
		if strings.EqualFold(team, away) {
			return models.PickMoneyline, models.SideAway, nil
		}
		return models.PickMoneyline, models.SideHome, nil
	}
	return "", "", nil
}

func confidence(row *goquery.Selection) string {
	if row.HasClass("banker") || row.Find(".banker-badge").Length() > 0 {
		return models.ConfidenceBestBet
	}
	switch stars := row.Find(".star.active").Length(); {
	case stars >= 4:
		return models.ConfidenceHigh
	case stars >= 3:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
