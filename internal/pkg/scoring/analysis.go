package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tipline/tipline/internal/pkg/models"
)

// buildAnalysis assembles the human-readable explanation shown next to a
// scored pick. Sentences are only included when the underlying data exists.
func buildAnalysis(m *ScoredMatch, fav favorite, avgAcc float64, hasAcc bool, evPct float64, predicted []string, avgTotal float64) string {
	var parts []string

	team := favLabel(m, fav.side)
	switch {
	case fav.majority >= 4:
		parts = append(parts, fmt.Sprintf("Strong consensus: %d sources back %s.", fav.majority, team))
	case fav.majority >= 2:
		parts = append(parts, fmt.Sprintf("%d sources back %s.", fav.majority, team))
	case fav.majority == 1:
		parts = append(parts, fmt.Sprintf("One source backs %s.", team))
	}
	if fav.minority > 0 {
		parts = append(parts, fmt.Sprintf("%d sources disagree.", fav.minority))
	}

	if hasAcc {
		parts = append(parts, fmt.Sprintf("Backing sources hit %.0f%% historically (%s).", avgAcc, trackRecordLabel(avgAcc)))
	}

	switch {
	case evPct >= 12:
		parts = append(parts, fmt.Sprintf("Strong value at +%.1f%% expected return.", evPct))
	case evPct >= 2:
		parts = append(parts, fmt.Sprintf("Positive value, +%.1f%% expected return.", evPct))
	case evPct < 0:
		parts = append(parts, fmt.Sprintf("Negative expected value (%.1f%%).", evPct))
	}

	if len(predicted) > 0 {
		parts = append(parts, "Predicted scores: "+strings.Join(predicted, ", ")+".")
	}

	if best := bestConfidence(fav.confidences); best != "" {
		parts = append(parts, "Best conviction: "+strings.ReplaceAll(best, "_", " ")+".")
	}

	if m.Sport == models.SportFootball && avgTotal > 0 {
		parts = append(parts, fmt.Sprintf("Teams average %.1f goals per game.", avgTotal))
	}

	if m.Breakdown.Alignment >= 6 {
		parts = append(parts, "Cross-market picks align.")
	}

	return strings.Join(parts, " ")
}

func favLabel(m *ScoredMatch, side string) string {
	switch side {
	case models.SideHome:
		return m.HomeTeam
	case models.SideAway:
		return m.AwayTeam
	default:
		return "the draw"
	}
}

func trackRecordLabel(pct float64) string {
	switch {
	case pct >= 58:
		return "proven"
	case pct >= 52:
		return "solid"
	case pct >= 48:
		return "average"
	default:
		return "weak"
	}
}

var confidenceRank = map[string]int{
	models.ConfidenceBestBet: 4,
	models.ConfidenceHigh:    3,
	models.ConfidenceMedium:  2,
	models.ConfidenceLow:     1,
}

func bestConfidence(confidences []string) string {
	best := ""
	for _, c := range confidences {
		if confidenceRank[c] > confidenceRank[best] {
			best = c
		}
	}
	return best
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
