package sportsgambler

import (
	"strings"
	"testing"
	"time"

	"github.com/tipline/tipline/internal/pkg/models"
)

const page = `<html><body>
<div class="prediction-row banker">
  <div class="teams">Arsenal vs Chelsea</div>
  <div class="match-date">2026-03-07</div>
  <div class="kickoff">7:30 PM</div>
  <div class="predicted-score">Predicted: 2-1</div>
  <div class="tip-text">Arsenal look sharp at home.</div>
  <span class="tip">Arsenal to win</span>
  <span class="tip">Over 2.5 Goals</span>
  <span class="tip">BTTS: Yes</span>
</div>
<div class="prediction-row">
  <div class="teams">Leeds vs Everton</div>
  <div class="match-date">2026-03-08</div>
  <div class="kickoff">15:00</div>
  <span class="star active"></span><span class="star active"></span><span class="star active"></span>
  <span class="tip">Draw</span>
  <span class="tip">Under 2.5 Goals</span>
</div>
<div class="prediction-row">
  <div class="teams">Brentford vs Fulham</div>
  <div class="match-date">2026-03-08</div>
  <span class="star active"></span>
  <span class="tip">Fulham to win</span>
  <span class="tip">BTTS: No</span>
</div>
<div class="prediction-row">
  <div class="teams">garbled header</div>
  <div class="match-date">2026-03-08</div>
  <span class="tip">Over 2.5 Goals</span>
</div>
</body></html>`

func TestParse(t *testing.T) {
	fetchedAt := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	got := parse([]byte(page), models.SportFootball, fetchedAt)

	// 3 + 2 + 2 tips; the row without a recognizable matchup yields nothing.
	if len(got) != 7 {
		t.Fatalf("parsed %d predictions, want 7", len(got))
	}

	arsenal := got[0]
	if arsenal.PickType != models.PickMoneyline || arsenal.Side != models.SideHome {
		t.Errorf("'Arsenal to win' classified as %s/%s", arsenal.PickType, arsenal.Side)
	}
	if arsenal.HomeTeamRaw != "Arsenal" || arsenal.AwayTeamRaw != "Chelsea" {
		t.Errorf("teams = %q / %q", arsenal.HomeTeamRaw, arsenal.AwayTeamRaw)
	}
	if arsenal.GameDate != "2026-03-07" || arsenal.GameTime != "19:30" {
		t.Errorf("kickoff = %q %q", arsenal.GameDate, arsenal.GameTime)
	}
	if arsenal.Confidence != models.ConfidenceBestBet {
		t.Errorf("banker row mapped to %q", arsenal.Confidence)
	}
	if !strings.HasSuffix(arsenal.Reasoning, "Predicted: 2-1") {
		t.Errorf("predicted score missing from reasoning: %q", arsenal.Reasoning)
	}

	over := got[1]
	if over.PickType != models.PickOverUnder || over.Side != models.SideOver {
		t.Errorf("'Over 2.5 Goals' classified as %s/%s", over.PickType, over.Side)
	}
	if over.Value == nil || *over.Value != 2.5 {
		t.Errorf("over line = %v, want 2.5", over.Value)
	}

	btts := got[2]
	if btts.PickType != models.PickProp || btts.Side != models.SideYes {
		t.Errorf("'BTTS: Yes' classified as %s/%s", btts.PickType, btts.Side)
	}

	draw := got[3]
	if draw.PickType != models.PickMoneyline || draw.Side != models.SideDraw {
		t.Errorf("'Draw' classified as %s/%s", draw.PickType, draw.Side)
	}
	if draw.Confidence != models.ConfidenceMedium {
		t.Errorf("3-star row mapped to %q", draw.Confidence)
	}

	under := got[4]
	if under.Side != models.SideUnder || under.Value == nil || *under.Value != 2.5 {
		t.Errorf("'Under 2.5 Goals' parsed as %s %v", under.Side, under.Value)
	}

	fulham := got[5]
	if fulham.PickType != models.PickMoneyline || fulham.Side != models.SideAway {
		t.Errorf("'Fulham to win' classified as %s/%s", fulham.PickType, fulham.Side)
	}
	if fulham.Confidence != models.ConfidenceLow {
		t.Errorf("1-star row mapped to %q", fulham.Confidence)
	}

	bttsNo := got[6]
	if bttsNo.PickType != models.PickProp || bttsNo.Side != models.SideNo {
		t.Errorf("'BTTS: No' classified as %s/%s", bttsNo.PickType, bttsNo.Side)
	}
}

func TestClassifyTip(t *testing.T) {
	tests := []struct {
		tip      string
		pickType string
		side     string
	}{
		{"BTTS: Yes", models.PickProp, models.SideYes},
		{"btts - no", models.PickProp, models.SideNo},
		{"Over 3.5 Goals", models.PickOverUnder, models.SideOver},
		{"Under 1.5 Goals", models.PickOverUnder, models.SideUnder},
		{"Draw", models.PickMoneyline, models.SideDraw},
		{"Arsenal to win", models.PickMoneyline, models.SideHome},
		{"Chelsea to win", models.PickMoneyline, models.SideAway},
		{"First goalscorer: Saka", "", ""},
	}
	for _, tt := range tests {
		pickType, side, _ := classifyTip(tt.tip, "Arsenal", "Chelsea")
		if pickType != tt.pickType || side != tt.side {
			t.Errorf("classifyTip(%q) = %s/%s, want %s/%s", tt.tip, pickType, side, tt.pickType, tt.side)
		}
	}
}
