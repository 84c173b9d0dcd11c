package models

import "testing"

func TestDedupKeyStable(t *testing.T) {
	v := 6.5
	a := DedupKey("covers", 12, "John Doe", PickSpread, SideHome, &v, "2026-03-01")
	b := DedupKey("covers", 12, "John Doe", PickSpread, SideHome, &v, "2026-03-01")
	if a != b {
		t.Fatalf("same inputs produced different keys: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64-char sha256 hex, got %d chars", len(a))
	}
}

func TestDedupKeyNormalization(t *testing.T) {
	v1, v2 := 6.5, 6.50
	a := DedupKey("covers", 12, "John  Doe ", PickSpread, SideHome, &v1, "2026-03-01")
	b := DedupKey("covers", 12, "john doe", PickSpread, SideHome, &v2, "2026-03-01")
	if a != b {
		t.Fatal("whitespace/case/format noise should not split keys")
	}
}

func TestDedupKeyDiscriminates(t *testing.T) {
	v := 6.5
	base := DedupKey("covers", 12, "John Doe", PickSpread, SideHome, &v, "2026-03-01")
	variants := []string{
		DedupKey("oddshark", 12, "John Doe", PickSpread, SideHome, &v, "2026-03-01"),
		DedupKey("covers", 13, "John Doe", PickSpread, SideHome, &v, "2026-03-01"),
		DedupKey("covers", 12, "Jane Roe", PickSpread, SideHome, &v, "2026-03-01"),
		DedupKey("covers", 12, "John Doe", PickMoneyline, SideHome, &v, "2026-03-01"),
		DedupKey("covers", 12, "John Doe", PickSpread, SideAway, &v, "2026-03-01"),
		DedupKey("covers", 12, "John Doe", PickSpread, SideHome, nil, "2026-03-01"),
		DedupKey("covers", 12, "John Doe", PickSpread, SideHome, &v, "2026-03-02"),
	}
	for i, got := range variants {
		if got == base {
			t.Errorf("variant %d collided with base key", i)
		}
	}
}

func TestRawPredictionValid(t *testing.T) {
	valid := RawPrediction{
		SourceSlug: "covers", Sport: SportBasketball,
		HomeTeamRaw: "Celtics", AwayTeamRaw: "Lakers",
		GameDate: "2026-03-01", PickType: PickMoneyline, Side: SideHome,
	}
	if !valid.Valid() {
		t.Fatal("expected valid prediction")
	}

	tests := []struct {
		name   string
		mutate func(*RawPrediction)
	}{
		{"missing source", func(r *RawPrediction) { r.SourceSlug = "" }},
		{"missing home", func(r *RawPrediction) { r.HomeTeamRaw = "" }},
		{"missing date", func(r *RawPrediction) { r.GameDate = "" }},
		{"bad pick type", func(r *RawPrediction) { r.PickType = "treble" }},
		{"bad side", func(r *RawPrediction) { r.Side = "left" }},
	}
	for _, tt := range tests {
		r := valid
		tt.mutate(&r)
		if r.Valid() {
			t.Errorf("%s: expected invalid", tt.name)
		}
	}
}
