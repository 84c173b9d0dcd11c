package adapters

import (
	"encoding/json"
	"testing"
)

func TestSplitTeams(t *testing.T) {
	tests := []struct {
		matchup    string
		home, away string
		ok         bool
	}{
		{"Lakers @ Celtics", "Celtics", "Lakers", true},
		{"Arsenal vs Chelsea", "Arsenal", "Chelsea", true},
		{"Arsenal vs. Chelsea", "Arsenal", "Chelsea", true},
		{"Real Madrid v Barcelona", "Real Madrid", "Barcelona", true},
		{"  Lakers   @   Celtics ", "Celtics", "Lakers", true},
		{"Lakers Celtics", "", "", false},
	}
	for _, tt := range tests {
		home, away, ok := SplitTeams(tt.matchup)
		if home != tt.home || away != tt.away || ok != tt.ok {
			t.Errorf("SplitTeams(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.matchup, home, away, ok, tt.home, tt.away, tt.ok)
		}
	}
}

func TestExtractNextData(t *testing.T) {
	page := []byte(`<html><body>
		<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"n":1}}}</script>
	</body></html>`)

	raw, ok := ExtractNextData(page)
	if !ok {
		t.Fatal("expected __NEXT_DATA__ to be found")
	}
	var payload struct {
		Props struct {
			PageProps struct {
				N int `json:"n"`
			} `json:"pageProps"`
		} `json:"props"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("extracted blob is not valid JSON: %v", err)
	}
	if payload.Props.PageProps.N != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	if _, ok := ExtractNextData([]byte("<html></html>")); ok {
		t.Fatal("expected miss on page without __NEXT_DATA__")
	}
}

func TestExtractInitialState(t *testing.T) {
	page := []byte(`<html><script>window.__INITIAL_STATE__ = {"picks":{"items":[]}};</script></html>`)

	raw, ok := ExtractInitialState(page)
	if !ok {
		t.Fatal("expected __INITIAL_STATE__ to be found")
	}
	if !json.Valid(raw) {
		t.Fatalf("extracted blob is not valid JSON: %s", raw)
	}

	if _, ok := ExtractInitialState([]byte("<html></html>")); ok {
		t.Fatal("expected miss on page without state assignment")
	}
}

func TestExtractJSONLD(t *testing.T) {
	page := []byte(`<html>
		<script type="application/ld+json">{"@type":"SportsEvent"}</script>
		<script type="application/ld+json">{"@type":"Organization"}</script>
		<script>var x = 1;</script>
	</html>`)

	blobs := ExtractJSONLD(page)
	if len(blobs) != 2 {
		t.Fatalf("expected 2 JSON-LD blobs, got %d", len(blobs))
	}
	for i, b := range blobs {
		if !json.Valid(b) {
			t.Errorf("blob %d is not valid JSON: %s", i, b)
		}
	}
}
