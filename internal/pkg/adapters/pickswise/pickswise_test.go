package pickswise

import (
	"testing"
	"time"

	"github.com/tipline/tipline/internal/pkg/models"
)

const page = `<html><body>
<div id="app">rendered app</div>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"predictions":[
  {"homeTeam":"Boston Celtics","awayTeam":"Los Angeles Lakers",
   "startTime":"2026-03-05T19:00:00Z","market":"spread","selection":"home",
   "line":"-6.5","odds":"-110","tipster":"Alex Park","stars":5,
   "reasoning":"Celtics cover at home."},
  {"homeTeam":"Boston Celtics","awayTeam":"Los Angeles Lakers",
   "startTime":"2026-03-05T19:00:00Z","market":"moneyline","selection":"away",
   "line":"","odds":"+150","tipster":"Dana Reed","stars":4,
   "reasoning":"Live dog."},
  {"homeTeam":"Boston Celtics","awayTeam":"Los Angeles Lakers",
   "startTime":"2026-03-05T19:00:00Z","market":"total","selection":"over",
   "line":"224.5","odds":"-108","tipster":"Alex Park","stars":3,
   "reasoning":"Pace up."},
  {"homeTeam":"Arsenal","awayTeam":"Chelsea",
   "startTime":"2026-03-07T15:00:00Z","market":"btts","selection":"yes",
   "line":"","odds":"","tipster":"Sam Cole","stars":1,
   "reasoning":"Both score."},
  {"homeTeam":"Boston Celtics","awayTeam":"Los Angeles Lakers",
   "startTime":"2026-03-05T19:00:00Z","market":"first-basket","selection":"home",
   "line":"","odds":"","tipster":"Alex Park","stars":2,"reasoning":""},
  {"homeTeam":"Boston Celtics","awayTeam":"Los Angeles Lakers",
   "startTime":"sometime soon","market":"moneyline","selection":"home",
   "line":"","odds":"-120","tipster":"Alex Park","stars":2,"reasoning":""}
]}}}
</script>
</body></html>`

func TestParse(t *testing.T) {
	fetchedAt := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	got := parse([]byte(page), models.SportBasketball, fetchedAt)

	// Unsupported market and unparseable start time are dropped.
	if len(got) != 4 {
		t.Fatalf("parsed %d predictions, want 4", len(got))
	}

	spread := got[0]
	if spread.PickType != models.PickSpread || spread.Side != models.SideHome {
		t.Errorf("spread row classified as %s/%s", spread.PickType, spread.Side)
	}
	if spread.Value == nil || *spread.Value != -6.5 {
		t.Errorf("spread line = %v, want -6.5", spread.Value)
	}
	if spread.HomeTeamRaw != "Boston Celtics" || spread.AwayTeamRaw != "Los Angeles Lakers" {
		t.Errorf("teams = %q / %q", spread.HomeTeamRaw, spread.AwayTeamRaw)
	}
	if spread.GameDate != "2026-03-05" {
		t.Errorf("game date = %q", spread.GameDate)
	}
	if spread.Confidence != models.ConfidenceBestBet {
		t.Errorf("5 stars mapped to %q", spread.Confidence)
	}
	if spread.SourceSlug != "pickswise" || spread.PickerName != "Alex Park" {
		t.Errorf("attribution = %q / %q", spread.SourceSlug, spread.PickerName)
	}

	ml := got[1]
	if ml.PickType != models.PickMoneyline || ml.Side != models.SideAway {
		t.Errorf("moneyline row classified as %s/%s", ml.PickType, ml.Side)
	}
	// Moneyline rows carry the American price in Value.
	if ml.Value == nil || *ml.Value != 150 {
		t.Errorf("moneyline price = %v, want 150", ml.Value)
	}
	if ml.Confidence != models.ConfidenceHigh {
		t.Errorf("4 stars mapped to %q", ml.Confidence)
	}

	total := got[2]
	if total.PickType != models.PickOverUnder || total.Side != models.SideOver {
		t.Errorf("total row classified as %s/%s", total.PickType, total.Side)
	}
	if total.Value == nil || *total.Value != 224.5 {
		t.Errorf("total line = %v, want 224.5", total.Value)
	}
	if total.Confidence != models.ConfidenceMedium {
		t.Errorf("3 stars mapped to %q", total.Confidence)
	}

	btts := got[3]
	if btts.PickType != models.PickProp || btts.Side != models.SideYes {
		t.Errorf("btts row classified as %s/%s", btts.PickType, btts.Side)
	}
	if btts.Value != nil {
		t.Errorf("btts carries no line, got %v", *btts.Value)
	}
	if btts.Confidence != models.ConfidenceLow {
		t.Errorf("1 star mapped to %q", btts.Confidence)
	}
}

func TestParseNoNextData(t *testing.T) {
	if got := parse([]byte("<html><body><p>maintenance</p></body></html>"), models.SportBasketball, time.Now()); got != nil {
		t.Fatalf("page without __NEXT_DATA__ should yield nothing, got %d", len(got))
	}
}

func TestParseMalformedJSON(t *testing.T) {
	page := `<html><script id="__NEXT_DATA__" type="application/json">{"props":</script></html>`
	if got := parse([]byte(page), models.SportBasketball, time.Now()); got != nil {
		t.Fatalf("malformed blob should yield nothing, got %d", len(got))
	}
}
