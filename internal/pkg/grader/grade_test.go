package grader

import (
	"testing"

	"github.com/tipline/tipline/internal/pkg/models"
)

func result(home, away int) *models.MatchResult {
	return &models.MatchResult{HomeScore: home, AwayScore: away, Status: models.ResultFinal}
}

func pred(pickType, side string, value *float64) *models.Prediction {
	return &models.Prediction{PickType: pickType, Side: side, Value: value}
}

func line(v float64) *float64 { return &v }

func TestGradeMoneyline(t *testing.T) {
	// Lakers 100 at home against Celtics 103.
	tests := []struct {
		side       string
		home, away int
		want       string
	}{
		{models.SideAway, 100, 103, models.GradeWin},
		{models.SideHome, 100, 103, models.GradeLoss},
		{models.SideHome, 103, 100, models.GradeWin},
		{models.SideAway, 103, 100, models.GradeLoss},
		{models.SideHome, 2, 2, models.GradePush},
		{models.SideAway, 2, 2, models.GradePush},
		{models.SideDraw, 2, 2, models.GradeWin},
		{models.SideDraw, 1, 0, models.GradeLoss},
	}
	for _, tt := range tests {
		got := Grade(pred(models.PickMoneyline, tt.side, nil), result(tt.home, tt.away))
		if got != tt.want {
			t.Errorf("moneyline side=%s score=%d-%d: got %s, want %s",
				tt.side, tt.home, tt.away, got, tt.want)
		}
	}
}

func TestGradeMoneylineSideSwap(t *testing.T) {
	// On a decided game, swapping the side flips the grade.
	scores := [][2]int{{100, 103}, {103, 100}, {1, 0}, {0, 3}}
	for _, s := range scores {
		homeGrade := Grade(pred(models.PickMoneyline, models.SideHome, nil), result(s[0], s[1]))
		awayGrade := Grade(pred(models.PickMoneyline, models.SideAway, nil), result(s[0], s[1]))
		if homeGrade == awayGrade {
			t.Errorf("score %d-%d: both sides graded %s", s[0], s[1], homeGrade)
		}
	}
}

func TestGradeSpread(t *testing.T) {
	tests := []struct {
		side       string
		line       float64
		home, away int
		want       string
	}{
		// Lakers 100 home, Celtics 103 away; homeMargin = -3.
		{models.SideAway, -6.5, 100, 103, models.GradeLoss}, // 3 - 6.5 = -3.5
		{models.SideHome, 6.5, 100, 103, models.GradeWin},   // -3 + 6.5 = 3.5
		{models.SideHome, 3, 100, 103, models.GradePush},    // -3 + 3 = 0
		{models.SideAway, -3, 100, 103, models.GradePush},   // 3 - 3 = 0
		{models.SideHome, -2.5, 105, 100, models.GradeWin},  // 5 - 2.5 = 2.5
		{models.SideHome, -7.5, 105, 100, models.GradeLoss}, // 5 - 7.5 = -2.5
	}
	for _, tt := range tests {
		got := Grade(pred(models.PickSpread, tt.side, line(tt.line)), result(tt.home, tt.away))
		if got != tt.want {
			t.Errorf("spread side=%s line=%v score=%d-%d: got %s, want %s",
				tt.side, tt.line, tt.home, tt.away, got, tt.want)
		}
	}
}

func TestGradeSpreadMirrorLaw(t *testing.T) {
	// A covered line on one side means the mirrored line fails on the other,
	// unless the adjusted margin lands exactly on zero.
	lines := []float64{-6.5, -3, 2.5, 7}
	scores := [][2]int{{100, 103}, {110, 95}, {2, 2}}
	for _, l := range lines {
		for _, s := range scores {
			homeGrade := Grade(pred(models.PickSpread, models.SideHome, line(l)), result(s[0], s[1]))
			awayGrade := Grade(pred(models.PickSpread, models.SideAway, line(-l)), result(s[0], s[1]))
			if homeGrade == models.GradePush || awayGrade == models.GradePush {
				if homeGrade != awayGrade {
					t.Errorf("line=%v score=%v: push must mirror, got %s vs %s", l, s, homeGrade, awayGrade)
				}
				continue
			}
			if (homeGrade == models.GradeWin) == (awayGrade == models.GradeWin) {
				t.Errorf("line=%v score=%v: mirrored spreads both graded %s", l, s, homeGrade)
			}
		}
	}
}

func TestGradeSpreadMissingLine(t *testing.T) {
	got := Grade(pred(models.PickSpread, models.SideHome, nil), result(100, 90))
	if got != models.GradeVoid {
		t.Fatalf("missing spread line: got %s, want void", got)
	}
}

func TestGradeOverUnder(t *testing.T) {
	tests := []struct {
		side       string
		line       float64
		home, away int
		want       string
	}{
		{models.SideOver, 200.5, 100, 103, models.GradeWin},
		{models.SideUnder, 200.5, 100, 103, models.GradeLoss},
		{models.SideOver, 203, 100, 103, models.GradePush},
		{models.SideUnder, 203, 100, 103, models.GradePush},
		{models.SideUnder, 2.5, 1, 0, models.GradeWin},
		{models.SideOver, 2.5, 1, 0, models.GradeLoss},
	}
	for _, tt := range tests {
		got := Grade(pred(models.PickOverUnder, tt.side, line(tt.line)), result(tt.home, tt.away))
		if got != tt.want {
			t.Errorf("over_under side=%s line=%v total=%d: got %s, want %s",
				tt.side, tt.line, tt.home+tt.away, got, tt.want)
		}
	}

	if got := Grade(pred(models.PickOverUnder, models.SideOver, nil), result(1, 1)); got != models.GradeVoid {
		t.Errorf("missing total line: got %s, want void", got)
	}
}

func TestGradeBTTS(t *testing.T) {
	tests := []struct {
		side       string
		home, away int
		want       string
	}{
		{models.SideYes, 2, 1, models.GradeWin},
		{models.SideYes, 2, 0, models.GradeLoss},
		{models.SideYes, 0, 0, models.GradeLoss},
		{models.SideNo, 2, 0, models.GradeWin},
		{models.SideNo, 0, 0, models.GradeWin},
		{models.SideNo, 1, 1, models.GradeLoss},
	}
	for _, tt := range tests {
		got := Grade(pred(models.PickProp, tt.side, nil), result(tt.home, tt.away))
		if got != tt.want {
			t.Errorf("btts side=%s score=%d-%d: got %s, want %s",
				tt.side, tt.home, tt.away, got, tt.want)
		}
	}
}

func TestGradeParlayAndNonFinal(t *testing.T) {
	if got := Grade(pred(models.PickParlay, models.SideHome, nil), result(3, 0)); got != models.GradeVoid {
		t.Errorf("parlay: got %s, want void", got)
	}

	r := result(0, 0)
	r.Status = models.ResultPostponed
	if got := Grade(pred(models.PickMoneyline, models.SideHome, nil), r); got != models.GradeVoid {
		t.Errorf("postponed match: got %s, want void", got)
	}
}
