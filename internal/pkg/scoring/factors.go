// Package scoring computes composite match scores from aggregated predictions.
package scoring

import (
	"math"

	"github.com/tipline/tipline/internal/pkg/models"
	"github.com/tipline/tipline/internal/pkg/storage"
)

// Raw factor maxima sum to 140; the composite is normalized to 0-100.
const rawMax = 140

// Breakdown carries the per-factor points behind one composite score.
type Breakdown struct {
	Agreement       int `json:"agreement"`
	Confidence      int `json:"confidence"`
	PredictedMargin int `json:"predicted_margin"`
	Value           int `json:"value"`
	SourceAccuracy  int `json:"source_accuracy"`
	Alignment       int `json:"alignment"`
	Form            int `json:"form"`
	HeadToHead      int `json:"head_to_head"`
	HomeAdvantage   int `json:"home_advantage"`
}

func (b Breakdown) raw() int {
	return b.Agreement + b.Confidence + b.PredictedMargin + b.Value +
		b.SourceAccuracy + b.Alignment + b.Form + b.HeadToHead + b.HomeAdvantage
}

// composite normalizes the raw factor sum to 0-100.
func composite(b Breakdown) int {
	return int(math.Round(float64(b.raw()) / rawMax * 100))
}

// agreementScore rates how many distinct sources back the favored side.
// Unanimous backing uses the count table; disagreement switches to a
// penalty formula that can zero the factor out.
func agreementScore(majority, minority int) int {
	if majority == 0 {
		return 0
	}
	if minority > 0 {
		score := majority*5 - minority*8
		if score < 0 {
			return 0
		}
		if score > 20 {
			return 20
		}
		return score
	}
	switch {
	case majority >= 4:
		return 20
	case majority == 3:
		return 18
	case majority == 2:
		return 14
	default:
		return 5
	}
}

var confidencePoints = map[string]float64{
	models.ConfidenceBestBet: 30,
	models.ConfidenceHigh:    22,
	models.ConfidenceMedium:  12,
	models.ConfidenceLow:     4,
}

// confidenceScore blends the strongest conviction with the group mean.
func confidenceScore(confidences []string) int {
	var pts []float64
	for _, c := range confidences {
		if p, ok := confidencePoints[c]; ok {
			pts = append(pts, p)
		}
	}
	if len(pts) == 0 {
		return 3
	}
	var max, sum float64
	for _, p := range pts {
		if p > max {
			max = p
		}
		sum += p
	}
	mean := sum / float64(len(pts))
	return int(math.Round(0.7*max + 0.3*mean))
}

// marginScore rates the average predicted winning margin, oriented toward the
// favored side. Margins come from "Predicted: H-A" fragments in reasoning.
func marginScore(sport string, margins []float64) int {
	noData := sport == models.SportFootball
	if len(margins) == 0 {
		if noData {
			return 3
		}
		return 8
	}
	var sum float64
	for _, m := range margins {
		sum += m
	}
	avg := sum / float64(len(margins))
	if avg == 0 {
		return 2 // predicted draw
	}
	if sport == models.SportFootball {
		switch {
		case avg >= 3:
			return 25
		case avg >= 2:
			return 20
		case avg >= 1:
			return 12
		default:
			return 3
		}
	}
	switch {
	case avg >= 12:
		return 25
	case avg >= 8:
		return 20
	case avg >= 5:
		return 15
	default:
		return 8
	}
}

// estimateProb blends source track record with the agreement ratio, then adds
// small backing-count and conviction bonuses. Clamped to [0.15, 0.92].
func estimateProb(accPct float64, hasAcc bool, agreeRatio float64, backing int, confidences []string) float64 {
	w := math.Min(1, agreeRatio*1.2)
	acc := 0.5
	if hasAcc {
		acc = accPct / 100
	}
	prob := acc*w + 0.5*(1-w)

	prob += math.Min(0.05, 0.01*float64(backing))

	var confBonus float64
	for _, c := range confidences {
		switch c {
		case models.ConfidenceBestBet:
			confBonus = math.Max(confBonus, 0.04)
		case models.ConfidenceHigh:
			confBonus = math.Max(confBonus, 0.03)
		case models.ConfidenceMedium:
			confBonus = math.Max(confBonus, 0.015)
		}
	}
	prob += confBonus

	return math.Min(0.92, math.Max(0.15, prob))
}

// evScore bands the expected-value percentage.
func evScore(evPct float64) int {
	switch {
	case evPct >= 20:
		return 20
	case evPct >= 12:
		return 17
	case evPct >= 6:
		return 14
	case evPct >= 2:
		return 10
	case evPct >= 0:
		return 6
	case evPct >= -5:
		return 3
	default:
		return 0
	}
}

// accuracyScore bands the average historical win-rate of backing sources.
// Neutral 5 when no source has enough decided picks.
func accuracyScore(avgPct float64, has bool) int {
	if !has {
		return 5
	}
	switch {
	case avgPct >= 65:
		return 15
	case avgPct >= 58:
		return 12
	case avgPct >= 52:
		return 9
	case avgPct >= 48:
		return 6
	default:
		return 3
	}
}

// formScore rates the favored team's last-10 record with a streak bonus.
func formScore(games []storage.FormGame) int {
	if len(games) == 0 {
		return 0
	}
	var wins int
	for _, g := range games {
		if g.Won {
			wins++
		}
	}
	score := float64(wins) / 10 * 7

	var streak int
	for _, g := range games { // newest first
		if !g.Won {
			break
		}
		streak++
	}
	switch {
	case streak >= 5:
		score += 3
	case streak >= 3:
		score += 2
	case streak >= 2:
		score += 1
	}

	if score > 10 {
		return 10
	}
	return int(math.Round(score))
}

// h2hScore rates historical dominance of the favored team over the opponent.
func h2hScore(games []storage.H2HGame, favTeamID int64) int {
	if len(games) < 2 {
		return 0
	}
	var favWins int
	for _, g := range games {
		if g.WinnerTeamID == favTeamID {
			favWins++
		}
	}
	ratio := float64(favWins) / float64(len(games))
	switch {
	case ratio >= 0.8:
		return 5
	case ratio >= 0.6:
		return 3
	case ratio >= 0.5:
		return 1
	default:
		return 0
	}
}

// splitScore rates the favored team's record in its venue role.
func splitScore(rec storage.SplitRecord) int {
	if rec.Games < 5 {
		return 0
	}
	ratio := float64(rec.Wins) / float64(rec.Games)
	switch {
	case ratio >= 0.75:
		return 5
	case ratio >= 0.6:
		return 3
	case ratio >= 0.5:
		return 1
	default:
		return 0
	}
}
