package adapters

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Shared extraction helpers for the three input shapes adapters see:
// server-side HTML, HTML with embedded JSON, and raw JSON endpoints.

// Doc parses HTML bytes into a goquery document. Returns nil on malformed
// input; adapters treat that as an empty page.
func Doc(body []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	return doc
}

// ExtractNextData pulls the Next.js __NEXT_DATA__ JSON blob out of a page.
func ExtractNextData(body []byte) ([]byte, bool) {
	doc := Doc(body)
	if doc == nil {
		return nil, false
	}
	raw := doc.Find(`script#__NEXT_DATA__`).First().Text()
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	return []byte(raw), true
}

var initialStateRe = regexp.MustCompile(`window\.__INITIAL_STATE__\s*=\s*(\{.*?\})\s*;?\s*</script>`)

// ExtractInitialState pulls an SSR window.__INITIAL_STATE__ assignment.
func ExtractInitialState(body []byte) ([]byte, bool) {
	m := initialStateRe.FindSubmatch(body)
	if m == nil {
		return nil, false
	}
	return m[1], true
}

// ExtractJSONLD returns every application/ld+json script body on the page.
func ExtractJSONLD(body []byte) [][]byte {
	doc := Doc(body)
	if doc == nil {
		return nil
	}
	var out [][]byte
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw != "" {
			out = append(out, []byte(raw))
		}
	})
	return out
}

// CleanText collapses whitespace in extracted node text.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitTeams splits a matchup string like "Lakers @ Celtics" or
// "Arsenal vs Chelsea" into (away/home or home/away per separator semantics).
// For "@" the first team is the away side; for "vs"/"v" the first is home.
func SplitTeams(matchup string) (home, away string, ok bool) {
	matchup = CleanText(matchup)
	if i := strings.Index(matchup, " @ "); i >= 0 {
		return strings.TrimSpace(matchup[i+3:]), strings.TrimSpace(matchup[:i]), true
	}
	for _, sep := range []string{" vs ", " vs. ", " v "} {
		if i := strings.Index(matchup, sep); i >= 0 {
			return strings.TrimSpace(matchup[:i]), strings.TrimSpace(matchup[i+len(sep):]), true
		}
	}
	return "", "", false
}
