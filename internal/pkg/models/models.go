// Package models defines the shared domain types and enumerations used across
// the fetch, normalize, grade and score stages.
package models

import "time"

// Sports.
const (
	SportFootball   = "football" // soccer; unbounded team universe
	SportBasketball = "basketball"
	SportNFL        = "nfl"
	SportBaseball   = "baseball"
	SportHockey     = "hockey"
)

// CuratedSports have a fixed, seeded team list. Unknown team names in these
// sports are dropped instead of auto-created.
var CuratedSports = map[string]bool{
	SportBasketball: true,
	SportNFL:        true,
	SportBaseball:   true,
	SportHockey:     true,
}

// Pick types.
const (
	PickMoneyline = "moneyline"
	PickSpread    = "spread"
	PickOverUnder = "over_under"
	PickProp      = "prop"
	PickParlay    = "parlay"
)

// Pick sides.
const (
	SideHome  = "home"
	SideAway  = "away"
	SideDraw  = "draw"
	SideOver  = "over"
	SideUnder = "under"
	SideYes   = "yes"
	SideNo    = "no"
)

// Source-reported confidence, strongest first.
const (
	ConfidenceBestBet = "best_bet"
	ConfidenceHigh    = "high"
	ConfidenceMedium  = "medium"
	ConfidenceLow     = "low"
)

// Terminal grades.
const (
	GradeWin  = "win"
	GradeLoss = "loss"
	GradePush = "push"
	GradeVoid = "void"
)

// Fetch methods.
const (
	FetchHTTP    = "http"
	FetchBrowser = "browser"
)

// Match result statuses.
const (
	ResultFinal     = "final"
	ResultPostponed = "postponed"
	ResultCancelled = "cancelled"
)

var validPickTypes = map[string]bool{
	PickMoneyline: true, PickSpread: true, PickOverUnder: true, PickProp: true, PickParlay: true,
}

var validSides = map[string]bool{
	SideHome: true, SideAway: true, SideDraw: true, SideOver: true, SideUnder: true, SideYes: true, SideNo: true,
}

// Source is a tipster site we ingest from.
type Source struct {
	ID            int64      `json:"id"`
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	BaseURL       string     `json:"base_url"`
	FetchMethod   string     `json:"fetch_method"`
	IsActive      bool       `json:"is_active"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
}

// Team is a canonical team row. Abbreviation doubles as the natural key
// within a sport.
type Team struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Sport        string `json:"sport"`
}

// TeamAlias maps one raw spelling onto a team. Aliases are stored lowercase.
type TeamAlias struct {
	TeamID int64  `json:"team_id"`
	Alias  string `json:"alias"`
}

// Match is a unique (sport, home, away, date) fixture.
type Match struct {
	ID         int64  `json:"id"`
	Sport      string `json:"sport"`
	HomeTeamID int64  `json:"home_team_id"`
	AwayTeamID int64  `json:"away_team_id"`
	GameDate   string `json:"game_date"` // YYYY-MM-DD
	GameTime   string `json:"game_time"` // HH:MM, may be empty
}

// RawPrediction is the adapter output: site-specific names, not yet resolved
// to team or match ids.
type RawPrediction struct {
	SourceSlug  string
	Sport       string
	HomeTeamRaw string
	AwayTeamRaw string
	GameDate    string // YYYY-MM-DD
	GameTime    string // HH:MM, may be empty
	PickType    string
	Side        string
	Value       *float64 // spread line, total line, or American odds
	PickerName  string
	Confidence  string
	Reasoning   string
	FetchedAt   time.Time
}

// Valid reports whether the record carries everything the normalizer needs.
// Adapters drop invalid rows at parse time.
func (r *RawPrediction) Valid() bool {
	return r.SourceSlug != "" &&
		r.Sport != "" &&
		r.HomeTeamRaw != "" &&
		r.AwayTeamRaw != "" &&
		r.GameDate != "" &&
		validPickTypes[r.PickType] &&
		validSides[r.Side]
}

// Prediction is a normalized, persisted prediction row.
type Prediction struct {
	ID         int64      `json:"id"`
	SourceID   int64      `json:"source_id"`
	SourceSlug string     `json:"source"`
	MatchID    int64      `json:"match_id"`
	Sport      string     `json:"sport"`
	HomeTeamID int64      `json:"home_team_id"`
	AwayTeamID int64      `json:"away_team_id"`
	PickType   string     `json:"pick_type"`
	Side       string     `json:"side"`
	Value      *float64   `json:"value,omitempty"`
	PickerName string     `json:"picker_name"`
	Confidence string     `json:"confidence,omitempty"`
	Reasoning  string     `json:"reasoning,omitempty"`
	DedupKey   string     `json:"-"`
	FetchedAt  time.Time  `json:"fetched_at"`
	Grade      *string    `json:"grade,omitempty"`
	GradedAt   *time.Time `json:"graded_at,omitempty"`
}

// MatchResult is the final score of a settled match.
type MatchResult struct {
	MatchID      int64     `json:"match_id"`
	HomeScore    int       `json:"home_score"`
	AwayScore    int       `json:"away_score"`
	Status       string    `json:"status"`
	ResultSource string    `json:"result_source"`
	SettledAt    time.Time `json:"settled_at"`
}

// SnapshotMeta is the sidecar record stored next to each raw snapshot body.
type SnapshotMeta struct {
	SourceSlug  string    `json:"source_slug"`
	Sport       string    `json:"sport"`
	URL         string    `json:"url"`
	FetchMethod string    `json:"fetch_method"`
	HTTPStatus  int       `json:"http_status,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
	SizeBytes   int       `json:"size_bytes"`
}
