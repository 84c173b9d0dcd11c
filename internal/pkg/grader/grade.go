// Package grader settles predictions against final scores.
package grader

import (
	"github.com/tipline/tipline/internal/pkg/models"
)

// Grade returns the terminal grade for one prediction given the match result.
// Pure: no I/O, deterministic.
func Grade(p *models.Prediction, r *models.MatchResult) string {
	if r.Status != models.ResultFinal {
		return models.GradeVoid
	}

	switch p.PickType {
	case models.PickMoneyline:
		return gradeMoneyline(p.Side, r.HomeScore, r.AwayScore)
	case models.PickSpread:
		return gradeSpread(p.Side, p.Value, r.HomeScore, r.AwayScore)
	case models.PickOverUnder:
		return gradeOverUnder(p.Side, p.Value, r.HomeScore, r.AwayScore)
	case models.PickProp:
		return gradeBTTS(p.Side, r.HomeScore, r.AwayScore)
	case models.PickParlay:
		return models.GradeVoid // not graded at leaf level
	default:
		return models.GradeVoid
	}
}

func gradeMoneyline(side string, home, away int) string {
	margin := home - away
	switch side {
	case models.SideHome:
		switch {
		case margin > 0:
			return models.GradeWin
		case margin < 0:
			return models.GradeLoss
		default:
			return models.GradePush
		}
	case models.SideAway:
		switch {
		case margin < 0:
			return models.GradeWin
		case margin > 0:
			return models.GradeLoss
		default:
			return models.GradePush
		}
	case models.SideDraw:
		if margin == 0 {
			return models.GradeWin
		}
		return models.GradeLoss
	default:
		return models.GradeVoid
	}
}

// gradeSpread computes adjustedMargin = (homeMargin if side=home else
// -homeMargin) + line. Positive covers, negative fails, zero pushes.
func gradeSpread(side string, line *float64, home, away int) string {
	if line == nil {
		return models.GradeVoid
	}
	margin := float64(home - away)
	if side == models.SideAway {
		margin = -margin
	} else if side != models.SideHome {
		return models.GradeVoid
	}
	adjusted := margin + *line
	switch {
	case adjusted > 0:
		return models.GradeWin
	case adjusted < 0:
		return models.GradeLoss
	default:
		return models.GradePush
	}
}

func gradeOverUnder(side string, line *float64, home, away int) string {
	if line == nil {
		return models.GradeVoid
	}
	total := float64(home + away)
	switch side {
	case models.SideOver:
		switch {
		case total > *line:
			return models.GradeWin
		case total < *line:
			return models.GradeLoss
		default:
			return models.GradePush
		}
	case models.SideUnder:
		switch {
		case total < *line:
			return models.GradeWin
		case total > *line:
			return models.GradeLoss
		default:
			return models.GradePush
		}
	default:
		return models.GradeVoid
	}
}

// gradeBTTS settles both-teams-to-score props, the only prop market we carry.
func gradeBTTS(side string, home, away int) string {
	both := home > 0 && away > 0
	switch side {
	case models.SideYes:
		if both {
			return models.GradeWin
		}
		return models.GradeLoss
	case models.SideNo:
		if both {
			return models.GradeLoss
		}
		return models.GradeWin
	default:
		return models.GradeVoid
	}
}
