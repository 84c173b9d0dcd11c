package scoring

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/tipline/tipline/internal/pkg/models"
	"github.com/tipline/tipline/internal/pkg/storage"
)

// fakeStore serves the per-team lookups behind scoreGroup from memory.
type fakeStore struct {
	avgTotal float64
	form     []storage.FormGame
	h2h      []storage.H2HGame
	home     storage.SplitRecord
	away     storage.SplitRecord
}

func (f *fakeStore) GetRecentPredictions(context.Context, string, string, time.Time) ([]storage.ScoringRow, error) {
	return nil, nil
}
func (f *fakeStore) GetSourceAccuracy(context.Context) ([]storage.SourceAccuracyRow, error) {
	return nil, nil
}
func (f *fakeStore) GetTeamForm(context.Context, int64, int) ([]storage.FormGame, error) {
	return f.form, nil
}
func (f *fakeStore) GetH2HResults(context.Context, int64, int64, int) ([]storage.H2HGame, error) {
	return f.h2h, nil
}
func (f *fakeStore) GetHomeSplit(context.Context, int64) (storage.SplitRecord, error) {
	return f.home, nil
}
func (f *fakeStore) GetAwaySplit(context.Context, int64) (storage.SplitRecord, error) {
	return f.away, nil
}
func (f *fakeStore) GetAvgTotal(context.Context, int64, int64, int) (float64, error) {
	return f.avgTotal, nil
}

func row(slug, pickType, side string, value *float64, confidence, reasoning string) storage.ScoringRow {
	return storage.ScoringRow{
		Prediction: models.Prediction{
			MatchID:    42,
			Sport:      models.SportBasketball,
			HomeTeamID: 10,
			AwayTeamID: 11,
			SourceSlug: slug,
			PickType:   pickType,
			Side:       side,
			Value:      value,
			Confidence: confidence,
			Reasoning:  reasoning,
		},
		HomeTeamName: "Boston Celtics",
		AwayTeamName: "Los Angeles Lakers",
		GameDate:     "2026-03-05",
		GameTime:     "19:00",
	}
}

func lineVal(v float64) *float64 { return &v }

// Four sources agree on the home moneyline at medium confidence, one posts a
// matching spread and another an over that recent totals support. Locks the
// full factor path: consensus, margin, EV at the best posted price, backing
// accuracy and cross-market alignment.
func TestScoreGroupConsensus(t *testing.T) {
	store := &fakeStore{avgTotal: 225}
	e := NewEngine(store, nil, slog.Default())

	g := group{matchID: 42, rows: []storage.ScoringRow{
		row("s1", models.PickMoneyline, models.SideHome, lineVal(-125), models.ConfidenceMedium, "We see this ending Predicted: 108-100"),
		row("s2", models.PickMoneyline, models.SideHome, nil, models.ConfidenceMedium, ""),
		row("s3", models.PickMoneyline, models.SideHome, nil, models.ConfidenceMedium, ""),
		row("s4", models.PickMoneyline, models.SideHome, nil, models.ConfidenceMedium, ""),
		row("s1", models.PickSpread, models.SideHome, lineVal(-6.5), models.ConfidenceMedium, ""),
		row("s2", models.PickOverUnder, models.SideOver, lineVal(220.5), models.ConfidenceMedium, ""),
	}}
	rates := map[string]float64{
		"s1|basketball": 55, "s2|basketball": 55, "s3|basketball": 55, "s4|basketball": 55,
	}

	m := e.scoreGroup(context.Background(), g, rates)
	if m == nil {
		t.Fatal("group with rows must score")
	}

	if m.Recommendation != models.SideHome {
		t.Fatalf("recommendation = %q, want home", m.Recommendation)
	}
	if m.Pick != "Boston Celtics (moneyline)" {
		t.Errorf("pick label = %q", m.Pick)
	}

	want := Breakdown{
		Agreement:       20, // 4 distinct sources, none against
		Confidence:      12, // all medium
		PredictedMargin: 20, // avg margin 8 in basketball
		Value:           14, // ev 8.9% at decimal 1.80 (best price -125)
		SourceAccuracy:  9,  // backing sources average 55%
		Alignment:       5,  // spread agrees +3, over backed by recent totals +2
	}
	if m.Breakdown != want {
		t.Fatalf("breakdown = %+v, want %+v", m.Breakdown, want)
	}
	if m.Score != 57 { // raw 80 of 140
		t.Fatalf("composite = %d, want 57", m.Score)
	}
	if m.EVPct != 8.9 {
		t.Errorf("ev = %v, want 8.9", m.EVPct)
	}
	if m.Predictions != 6 || m.MatchID != 42 || m.Date != "2026-03-05" {
		t.Errorf("metadata wrong: %+v", m)
	}
	if m.Analysis == "" {
		t.Error("analysis must not be empty")
	}
}

func TestScoreGroupEmpty(t *testing.T) {
	e := NewEngine(&fakeStore{}, nil, slog.Default())
	if m := e.scoreGroup(context.Background(), group{matchID: 1}, nil); m != nil {
		t.Fatalf("empty group scored: %+v", m)
	}
}

func TestPickFavorite(t *testing.T) {
	t.Run("moneyline majority", func(t *testing.T) {
		fav := pickFavorite([]storage.ScoringRow{
			row("s1", models.PickMoneyline, models.SideAway, nil, models.ConfidenceHigh, ""),
			row("s2", models.PickMoneyline, models.SideAway, nil, models.ConfidenceLow, ""),
			row("s3", models.PickMoneyline, models.SideHome, nil, models.ConfidenceHigh, ""),
		})
		if fav.side != models.SideAway || fav.majority != 2 || fav.minority != 1 {
			t.Fatalf("favorite = %+v", fav)
		}
		if fav.agreeRatio < 0.66 || fav.agreeRatio > 0.67 {
			t.Fatalf("agree ratio = %v", fav.agreeRatio)
		}
	})

	t.Run("spread fallback", func(t *testing.T) {
		fav := pickFavorite([]storage.ScoringRow{
			row("s1", models.PickSpread, models.SideAway, lineVal(3.5), models.ConfidenceHigh, ""),
			row("s2", models.PickOverUnder, models.SideOver, lineVal(220.5), "", ""),
		})
		if fav.side != models.SideAway || fav.majority != 1 {
			t.Fatalf("favorite = %+v", fav)
		}
	})

	t.Run("no directional picks defaults home", func(t *testing.T) {
		fav := pickFavorite([]storage.ScoringRow{
			row("s1", models.PickOverUnder, models.SideOver, lineVal(220.5), "", ""),
		})
		if fav.side != models.SideHome || fav.majority != 0 {
			t.Fatalf("favorite = %+v", fav)
		}
	})

	t.Run("same source counted once", func(t *testing.T) {
		fav := pickFavorite([]storage.ScoringRow{
			row("s1", models.PickMoneyline, models.SideHome, nil, models.ConfidenceHigh, ""),
			row("s1", models.PickMoneyline, models.SideHome, nil, models.ConfidenceLow, ""),
		})
		if fav.majority != 1 {
			t.Fatalf("one source must count once, got %+v", fav)
		}
	})
}

func TestBestDecimalOdds(t *testing.T) {
	// US sport: American prices convert, best (highest decimal) wins.
	rows := []storage.ScoringRow{
		row("s1", models.PickMoneyline, models.SideHome, lineVal(-125), "", ""), // 1.80
		row("s2", models.PickMoneyline, models.SideHome, lineVal(110), "", ""),  // 2.10
		row("s3", models.PickMoneyline, models.SideAway, lineVal(300), "", ""),  // other side
	}
	if got := bestDecimalOdds(rows, models.SideHome, models.SportBasketball); got != 2.1 {
		t.Errorf("best odds = %v, want 2.1", got)
	}

	// Football values are already decimal and pass through.
	football := []storage.ScoringRow{
		row("s1", models.PickMoneyline, models.SideHome, lineVal(1.85), "", ""),
	}
	if got := bestDecimalOdds(football, models.SideHome, models.SportFootball); got != 1.85 {
		t.Errorf("football odds = %v, want 1.85", got)
	}

	// No posted price falls back to the placeholder.
	unpriced := []storage.ScoringRow{
		row("s1", models.PickMoneyline, models.SideHome, nil, "", ""),
	}
	if got := bestDecimalOdds(unpriced, models.SideHome, models.SportBasketball); got != defaultOdds {
		t.Errorf("unpriced odds = %v, want %v", got, defaultOdds)
	}
}

func TestOrientedMargins(t *testing.T) {
	rows := []storage.ScoringRow{
		row("s1", models.PickMoneyline, models.SideAway, nil, "", "Predicted: 100-108"),
		row("s2", models.PickMoneyline, models.SideAway, nil, "", "no score here"),
	}
	margins := orientedMargins(rows, models.SideAway)
	if len(margins) != 1 || margins[0] != 8 {
		t.Fatalf("away margins = %v, want [8]", margins)
	}
	if home := orientedMargins(rows, models.SideHome); home[0] != -8 {
		t.Fatalf("home-oriented margin = %v, want -8", home[0])
	}
}

func TestGroupByMatchPreservesOrder(t *testing.T) {
	a := row("s1", models.PickMoneyline, models.SideHome, nil, "", "")
	b := row("s2", models.PickMoneyline, models.SideHome, nil, "", "")
	b.Prediction.MatchID = 7
	c := row("s3", models.PickMoneyline, models.SideAway, nil, "", "")

	groups := groupByMatch([]storage.ScoringRow{a, b, c})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].matchID != 42 || len(groups[0].rows) != 2 {
		t.Fatalf("first group = %+v", groups[0])
	}
	if groups[1].matchID != 7 || len(groups[1].rows) != 1 {
		t.Fatalf("second group = %+v", groups[1])
	}
}
