package adapters

import (
	"regexp"
	"strconv"
	"strings"
)

// AmericanToDecimal converts American odds (+150, -110) to decimal odds.
func AmericanToDecimal(american float64) float64 {
	if american > 0 {
		return 1 + american/100
	}
	if american < 0 {
		return 1 + 100/-american
	}
	return 0
}

// ParseSignedNumber parses strings like "+150", "-6.5", "2.5" into a float.
// Returns nil when the string carries no number.
func ParseSignedNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

var lineRe = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// ExtractNumber pulls the first signed number out of free text, e.g. the
// "-6.5" from "Celtics -6.5" or "2.5" from "Over 2.5 Goals".
func ExtractNumber(s string) *float64 {
	m := lineRe.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

var predictedScoreRe = regexp.MustCompile(`[Pp]redicted:?\s*(\d+)\s*[-:–]\s*(\d+)`)

// ExtractPredictedScore parses a "Predicted: H-A" fragment from reasoning
// text. The scoring engine uses it for the predicted-margin factor.
func ExtractPredictedScore(reasoning string) (home, away int, ok bool) {
	m := predictedScoreRe.FindStringSubmatch(reasoning)
	if m == nil {
		return 0, 0, false
	}
	h, err1 := strconv.Atoi(m[1])
	a, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return h, a, true
}
