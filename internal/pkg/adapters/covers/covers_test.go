package covers

import (
	"testing"
	"time"

	"github.com/tipline/tipline/internal/pkg/models"
)

const landing = `<html><body>
<div class="article-list">
  <a class="article-link" href="/picks/nba/lakers-celtics-best-bets">read</a>
  <a class="article-link" href="https://www.covers.example/picks/nba/knicks-heat-preview">read</a>
  <a class="article-link" href="/picks/nba/lakers-celtics-best-bets">dupe</a>
  <a class="article-link" href="https://elsewhere.example/picks/nba/offsite">offsite</a>
  <a class="article-link" href="">blank</a>
  <a href="/picks/nba/not-an-article">plain link</a>
</div>
</body></html>`

func TestDiscoverURLs(t *testing.T) {
	got := discoverURLs([]byte(landing), models.SportBasketball)
	want := []string{
		"https://www.covers.example/picks/nba/lakers-celtics-best-bets",
		"https://www.covers.example/picks/nba/knicks-heat-preview",
	}
	if len(got) != len(want) {
		t.Fatalf("discovered %d urls, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("url[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

const article = `<html><body>
<div class="pick-card">
  <div class="matchup">Los Angeles Lakers @ Boston Celtics</div>
  <div class="game-date">2026-03-05</div>
  <div class="game-time">7:00 PM</div>
  <div class="pick-text">Celtics -6.5</div>
  <div class="expert-name">Jordan Mills</div>
  <div class="best-bet-badge"></div>
  <div class="analysis">Boston defends home court.</div>
</div>
<div class="pick-card">
  <div class="matchup">Los Angeles Lakers @ Boston Celtics</div>
  <div class="game-date">2026-03-05</div>
  <div class="pick-text">Lakers ML</div>
  <div class="expert-name">Casey Bright</div>
  <div class="confidence">High</div>
</div>
<div class="pick-card">
  <div class="matchup">Los Angeles Lakers @ Boston Celtics</div>
  <div class="game-date">2026-03-05</div>
  <div class="pick-text">Over 224.5</div>
  <div class="expert-name">Jordan Mills</div>
  <div class="confidence">Medium</div>
</div>
<div class="pick-card">
  <div class="matchup">Los Angeles Lakers @ Boston Celtics</div>
  <div class="game-date">2026-03-05</div>
  <div class="pick-text">Celtics -6.5</div>
  <div class="confidence">High</div>
</div>
<div class="pick-card">
  <div class="matchup">Los Angeles Lakers @ Boston Celtics</div>
  <div class="game-date">2026-03-05</div>
  <div class="pick-text">Celtics by a mile</div>
  <div class="expert-name">Casey Bright</div>
</div>
</body></html>`

func TestParse(t *testing.T) {
	fetchedAt := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	got := parse([]byte(article), models.SportBasketball, fetchedAt)

	// Cards without an expert name or a decodable pick are dropped.
	if len(got) != 3 {
		t.Fatalf("parsed %d predictions, want 3", len(got))
	}

	spread := got[0]
	if spread.HomeTeamRaw != "Boston Celtics" || spread.AwayTeamRaw != "Los Angeles Lakers" {
		t.Errorf("'@' matchup split as home=%q away=%q", spread.HomeTeamRaw, spread.AwayTeamRaw)
	}
	if spread.PickType != models.PickSpread || spread.Side != models.SideHome {
		t.Errorf("'Celtics -6.5' classified as %s/%s", spread.PickType, spread.Side)
	}
	if spread.Value == nil || *spread.Value != -6.5 {
		t.Errorf("spread line = %v, want -6.5", spread.Value)
	}
	if spread.GameDate != "2026-03-05" || spread.GameTime != "19:00" {
		t.Errorf("tipoff = %q %q", spread.GameDate, spread.GameTime)
	}
	if spread.Confidence != models.ConfidenceBestBet {
		t.Errorf("badge card mapped to %q", spread.Confidence)
	}
	if spread.PickerName != "Jordan Mills" {
		t.Errorf("expert = %q", spread.PickerName)
	}

	ml := got[1]
	if ml.PickType != models.PickMoneyline || ml.Side != models.SideAway {
		t.Errorf("'Lakers ML' classified as %s/%s", ml.PickType, ml.Side)
	}
	if ml.Value != nil {
		t.Errorf("moneyline pick carries no line, got %v", *ml.Value)
	}
	if ml.Confidence != models.ConfidenceHigh {
		t.Errorf("High card mapped to %q", ml.Confidence)
	}

	total := got[2]
	if total.PickType != models.PickOverUnder || total.Side != models.SideOver {
		t.Errorf("'Over 224.5' classified as %s/%s", total.PickType, total.Side)
	}
	if total.Value == nil || *total.Value != 224.5 {
		t.Errorf("total line = %v, want 224.5", total.Value)
	}
}

func TestClassifyPick(t *testing.T) {
	home, away := "Boston Celtics", "Los Angeles Lakers"

	tests := []struct {
		text     string
		pickType string
		side     string
	}{
		{"Celtics -6.5", models.PickSpread, models.SideHome},
		{"Lakers +6.5", models.PickSpread, models.SideAway},
		{"Lakers ML", models.PickMoneyline, models.SideAway},
		{"Celtics moneyline", models.PickMoneyline, models.SideHome},
		{"Over 224.5", models.PickOverUnder, models.SideOver},
		{"Under 210", models.PickOverUnder, models.SideUnder},
		{"fade the public", "", ""},
	}
	for _, tt := range tests {
		pickType, side, _ := classifyPick(tt.text, home, away)
		if pickType != tt.pickType || side != tt.side {
			t.Errorf("classifyPick(%q) = %s/%s, want %s/%s", tt.text, pickType, side, tt.pickType, tt.side)
		}
	}
}
