// Package wincomparator parses a football tips site that marks up each match
// with a JSON-LD SportsEvent and renders the tip itself server-side.
package wincomparator

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tipline/tipline/internal/pkg/adapters"
	"github.com/tipline/tipline/internal/pkg/models"
)

type sportsEvent struct {
	Type      string `json:"@type"`
	StartDate string `json:"startDate"` // ISO8601
	HomeTeam  struct {
		Name string `json:"name"`
	} `json:"homeTeam"`
	AwayTeam struct {
		Name string `json:"name"`
	} `json:"awayTeam"`
}

func init() {
	adapters.Register(&adapters.Adapter{
		Config: adapters.Config{
			ID:          "wincomparator",
			Name:        "WinComparator",
			BaseURL:     "https://www.wincomparator.example",
			FetchMethod: models.FetchHTTP,
			Paths: map[string]string{
				models.SportFootball: "/football/predictions",
			},
			Cron:       "0 45 */2 * * *",
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

	// Match identity comes from JSON-LD; tips come from the DOM cards, which
	// are in the same document order as the event markup.
	events := parseEvents(body)

	var out []models.RawPrediction
	doc.Find(".prediction-card").Each(func(i int, card *goquery.Selection) {
		if i >= len(events) {
			return
		}
		ev := events[i]
		gameDate, err := adapters.ParseGameDate(ev.StartDate, fetchedAt)
		if err != nil {
			return
		}

		tip := adapters.CleanText(card.Find(".tip-selection").Text())
		pickType, side, value := classifyTip(tip)
		if pickType == "" {
			return
		}

		// Decimal odds, shown next to the tip.
		odds := adapters.ParseSignedNumber(adapters.CleanText(card.Find(".tip-odds").Text()))
		if pickType == models.PickMoneyline && odds != nil {
			value = odds
		}

		r := models.RawPrediction{
			SourceSlug:  "wincomparator",
			Sport:       sport,
			HomeTeamRaw: ev.HomeTeam.Name,
			AwayTeamRaw: ev.AwayTeam.Name,
			GameDate:    gameDate,
			PickType:    pickType,
			Side:        side,
			Value:       value,
			PickerName:  "WinComparator",
			Confidence:  confidence(card),
			Reasoning:   adapters.CleanText(card.Find(".tip-reasoning").Text()),
			FetchedAt:   fetchedAt,
		}
		if !r.Valid() {
			return
		}
		out = append(out, r)
	})
	return out
}

func parseEvents(body []byte) []sportsEvent {
	var events []sportsEvent
	for _, raw := range adapters.ExtractJSONLD(body) {
		var ev sportsEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}
		if ev.Type != "SportsEvent" {
			continue
		}
		events = append(events, ev)
	}
	return events
}

func classifyTip(tip string) (pickType, side string, value *float64) {
	lower := strings.ToLower(tip)
	switch {
	case strings.Contains(lower, "home win") || lower == "1":
		return models.PickMoneyline, models.SideHome, nil
	case strings.Contains(lower, "away win") || lower == "2":
		return models.PickMoneyline, models.SideAway, nil
	case strings.Contains(lower, "draw") || lower == "x":
		return models.PickMoneyline, models.SideDraw, nil
	case strings.Contains(lower, "over"):
		return models.PickOverUnder, models.SideOver, adapters.ExtractNumber(tip)
	case strings.Contains(lower, "under"):
		return models.PickOverUnder, models.SideUnder, adapters.ExtractNumber(tip)
	case strings.Contains(lower, "both teams to score") || strings.Contains(lower, "btts"):
		if strings.Contains(lower, "no") {
			return models.PickProp, models.SideNo, nil
		}
		return models.PickProp, models.SideYes, nil
	}
	return "", "", nil
}

func confidence(card *goquery.Selection) string {
	stars := card.Find(".confidence-star.filled").Length()
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
