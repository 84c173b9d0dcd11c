// Package covers parses Covers expert picks. The landing page lists article
// URLs; each article carries one or more picks. Pages are JS-rendered, so the
// source uses the browser fetch path.
package covers

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tipline/tipline/internal/pkg/adapters"
	"github.com/tipline/tipline/internal/pkg/fetch"
	"github.com/tipline/tipline/internal/pkg/models"
)

const baseURL = "https://www.covers.example"

func init() {
	adapters.Register(&adapters.Adapter{
		Config: adapters.Config{
			ID:          "covers",
			Name:        "Covers Experts",
			BaseURL:     baseURL,
			FetchMethod: models.FetchBrowser,
			Paths: map[string]string{
				models.SportBasketball: "/picks/nba",
				models.SportNFL:        "/picks/nfl",
			},
			Cron:       "0 15 */6 * * *",
			RateLimit:  5 * time.Second,
			MaxRetries: 2,
			Backoff:    adapters.Backoff{Type: "exponential", Delay: 5 * time.Second},
			Timeout:    60 * time.Second,
		},
		DiscoverURLs:   discoverURLs,
		Parse:          parse,
		BrowserActions: fetch.Chain(fetch.WaitVisible(".pick-card, .article-list", 10*time.Second), fetch.ScrollToBottom(time.Second)),
	})
}

// discoverURLs pulls article links off the landing page. The landing page
// itself still goes to parse: featured picks render inline there.
func discoverURLs(body []byte, sport string) []string {
	doc := adapters.Doc(body)
	if doc == nil {
		return nil
	}
	seen := map[string]bool{}
	var urls []string
	doc.Find("a.article-link").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = baseURL + href
		}
		if !strings.HasPrefix(href, baseURL) || seen[href] {
			return
		}
		seen[href] = true
		urls = append(urls, href)
	})
	return urls
}

func parse(body []byte, sport string, fetchedAt time.Time) []models.RawPrediction {
	doc := adapters.Doc(body)
	if doc == nil {
		return nil
	}

	var out []models.RawPrediction
	doc.Find(".pick-card").Each(func(_ int, card *goquery.Selection) {
		matchup := adapters.CleanText(card.Find(".matchup").Text())
		home, away, ok := adapters.SplitTeams(matchup)
		if !ok {
			return
		}

		gameDate, err := adapters.ParseGameDate(card.Find(".game-date").Text(), fetchedAt)
		if err != nil {
			return
		}

		pickText := adapters.CleanText(card.Find(".pick-text").Text())
		pickType, side, value := classifyPick(pickText, home, away)
		if pickType == "" {
			return
		}

		r := models.RawPrediction{
			SourceSlug:  "covers",
			Sport:       sport,
			HomeTeamRaw: home,
			AwayTeamRaw: away,
			GameDate:    gameDate,
			GameTime:    adapters.ParseGameTime(card.Find(".game-time").Text()),
			PickType:    pickType,
			Side:        side,
			Value:       value,
			PickerName:  adapters.CleanText(card.Find(".expert-name").Text()),
			Confidence:  confidence(card),
			Reasoning:   adapters.CleanText(card.Find(".analysis").Text()),
			FetchedAt:   fetchedAt,
		}
		if r.PickerName == "" {
			return
		}
		if !r.Valid() {
			return
		}
		out = append(out, r)
	})
	return out
}

// classifyPick decodes free-text picks like "Celtics -6.5", "Lakers ML",
// "Over 224.5". Side defaults to home when the team cannot be matched.
func classifyPick(text, home, away string) (pickType, side string, value *float64) {
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "over"):
		return models.PickOverUnder, models.SideOver, adapters.ExtractNumber(text)
	case strings.HasPrefix(lower, "under"):
		return models.PickOverUnder, models.SideUnder, adapters.ExtractNumber(text)
	}

	side = models.SideHome
	if teamMentioned(lower, away) && !teamMentioned(lower, home) {
		side = models.SideAway
	}

	if strings.Contains(lower, "ml") || strings.Contains(lower, "moneyline") {
		return models.PickMoneyline, side, nil
	}
	if v := adapters.ExtractNumber(text); v != nil {
		return models.PickSpread, side, v
	}
	return "", "", nil
}

// teamMentioned checks the last word of the team name (the nickname) against
// the pick text, since picks say "Celtics -6.5" not "Boston Celtics -6.5".
func teamMentioned(lowerText, team string) bool {
	fields := strings.Fields(strings.ToLower(team))
	if len(fields) == 0 {
		return false
	}
	return strings.Contains(lowerText, fields[len(fields)-1])
}

func confidence(card *goquery.Selection) string {
	if card.Find(".best-bet-badge").Length() > 0 {
		return models.ConfidenceBestBet
	}
	switch adapters.CleanText(card.Find(".confidence").Text()) {
	case "High":
		return models.ConfidenceHigh
	case "Medium":
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
