package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// DedupKey derives the idempotency key for one prediction. The same logical
// pick re-parsed from a later snapshot hashes to the same key, so repeat
// ingestion is a no-op at insert time. Value is rounded to two decimals so
// formatting noise (-6.5 vs -6.50) does not split keys.
func DedupKey(sourceSlug string, matchID int64, pickerName, pickType, side string, value *float64, gameDate string) string {
	v := ""
	if value != nil {
		v = strconv.FormatFloat(*value, 'f', 2, 64)
	}
	parts := []string{
		normalizeKeyPart(sourceSlug),
		strconv.FormatInt(matchID, 10),
		normalizeKeyPart(pickerName),
		normalizeKeyPart(pickType),
		normalizeKeyPart(side),
		v,
		gameDate,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// MatchKey is the natural identity of a fixture, used for logging and tests.
func MatchKey(sport string, homeTeamID, awayTeamID int64, gameDate string) string {
	return sport + "|" + strconv.FormatInt(homeTeamID, 10) + "|" + strconv.FormatInt(awayTeamID, 10) + "|" + gameDate
}

func normalizeKeyPart(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
