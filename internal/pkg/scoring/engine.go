package scoring

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/tipline/tipline/internal/pkg/adapters"
	"github.com/tipline/tipline/internal/pkg/models"
	"github.com/tipline/tipline/internal/pkg/storage"
)

const (
	resultTTL       = 5 * time.Minute
	batchSize       = 10
	topPickCutoff   = 30
	bestMultiCutoff = 50
	recentFormLimit = 10
	h2hLimit        = 10
	defaultOdds     = 1.90
)

// Store is the read surface of the scoring engine.
type Store interface {
	GetRecentPredictions(ctx context.Context, sport, date string, cutoff time.Time) ([]storage.ScoringRow, error)
	GetSourceAccuracy(ctx context.Context) ([]storage.SourceAccuracyRow, error)
	GetTeamForm(ctx context.Context, teamID int64, limit int) ([]storage.FormGame, error)
	GetH2HResults(ctx context.Context, teamA, teamB int64, limit int) ([]storage.H2HGame, error)
	GetHomeSplit(ctx context.Context, teamID int64) (storage.SplitRecord, error)
	GetAwaySplit(ctx context.Context, teamID int64) (storage.SplitRecord, error)
	GetAvgTotal(ctx context.Context, teamA, teamB int64, limit int) (float64, error)
}

// ScoredMatch is one match's composite score plus everything the API renders.
type ScoredMatch struct {
	Rank           int       `json:"rank"`
	Score          int       `json:"score"`
	MatchID        int64     `json:"match_id"`
	Sport          string    `json:"sport"`
	Date           string    `json:"date"`
	GameTime       string    `json:"game_time,omitempty"`
	HomeTeam       string    `json:"home_team"`
	AwayTeam       string    `json:"away_team"`
	Recommendation string    `json:"recommendation"` // home | away | draw
	Pick           string    `json:"pick"`
	Analysis       string    `json:"analysis"`
	Breakdown      Breakdown `json:"breakdown"`
	Predictions    int       `json:"predictions"`
	EVPct          float64   `json:"ev_pct"`
}

// ScoredSet is the cached output of one scoring run.
type ScoredSet struct {
	Sport       string        `json:"sport"`
	Date        string        `json:"date"`
	GeneratedAt time.Time     `json:"generated_at"`
	ETag        string        `json:"etag"`
	Matches     []ScoredMatch `json:"matches"`
}

// DateGroup groups best-multi picks per game date.
type DateGroup struct {
	Date  string        `json:"date"`
	Picks []ScoredMatch `json:"picks"`
}

type Engine struct {
	store    Store
	kv       *storage.KV
	logger   *slog.Logger
	accuracy accuracyCache
}

func NewEngine(store Store, kv *storage.KV, logger *slog.Logger) *Engine {
	return &Engine{store: store, kv: kv, logger: logger}
}

// Score computes (or returns cached) composite scores for all matches with
// predictions since yesterday, optionally filtered by sport and date.
func (e *Engine) Score(ctx context.Context, sport, date string) (*ScoredSet, error) {
	key := CacheKey(orAll(sport), orAll(date))

	var cached ScoredSet
	err := e.kv.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, storage.ErrCacheMiss) {
		e.logger.Warn("Scored cache read failed", "key", key, "error", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	rows, err := e.store.GetRecentPredictions(ctx, sport, date, cutoff)
	if err != nil {
		return nil, err
	}

	rates, err := e.accuracy.get(ctx, e)
	if err != nil {
		e.logger.Warn("Source accuracy load failed, scoring without it", "error", err)
		rates = map[string]float64{}
	}

	groups := groupByMatch(rows)
	matches := e.scoreGroups(ctx, groups, rates)

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	for i := range matches {
		matches[i].Rank = i + 1
	}

	set := &ScoredSet{
		Sport:       orAll(sport),
		Date:        orAll(date),
		GeneratedAt: time.Now().UTC(),
		Matches:     matches,
	}
	payload, err := json.Marshal(set.Matches)
	if err != nil {
		return nil, err
	}
	sum := md5.Sum(payload)
	set.ETag = hex.EncodeToString(sum[:])

	if err := e.kv.Set(ctx, key, set, resultTTL); err != nil {
		e.logger.Warn("Scored cache write failed", "key", key, "error", err)
	}
	return set, nil
}

// TopPicks returns the flat ranked list above the emit threshold.
func (e *Engine) TopPicks(ctx context.Context, sport, date string, limit int) ([]ScoredMatch, string, error) {
	set, err := e.Score(ctx, sport, date)
	if err != nil {
		return nil, "", err
	}
	out := make([]ScoredMatch, 0, len(set.Matches))
	for _, m := range set.Matches {
		if m.Score < topPickCutoff {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, set.ETag, nil
}

// BestMultis returns high-scoring picks grouped by game date, for multi-bet
// construction.
func (e *Engine) BestMultis(ctx context.Context, sport, date string) ([]DateGroup, string, error) {
	set, err := e.Score(ctx, sport, date)
	if err != nil {
		return nil, "", err
	}

	byDate := map[string][]ScoredMatch{}
	var order []string
	for _, m := range set.Matches {
		if m.Score < bestMultiCutoff {
			continue
		}
		if _, ok := byDate[m.Date]; !ok {
			order = append(order, m.Date)
		}
		byDate[m.Date] = append(byDate[m.Date], m)
	}
	sort.Strings(order)

	out := make([]DateGroup, 0, len(order))
	for _, d := range order {
		out = append(out, DateGroup{Date: d, Picks: byDate[d]})
	}
	return out, set.ETag, nil
}

type group struct {
	matchID int64
	rows    []storage.ScoringRow
}

func groupByMatch(rows []storage.ScoringRow) []group {
	byID := map[int64]*group{}
	var order []int64
	for _, r := range rows {
		g, ok := byID[r.Prediction.MatchID]
		if !ok {
			g = &group{matchID: r.Prediction.MatchID}
			byID[r.Prediction.MatchID] = g
			order = append(order, r.Prediction.MatchID)
		}
		g.rows = append(g.rows, r)
	}
	out := make([]group, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

// scoreGroups fans out in batches to amortize the per-team DB round trips
// (form, h2h, splits) behind each group.
func (e *Engine) scoreGroups(ctx context.Context, groups []group, rates map[string]float64) []ScoredMatch {
	results := make([]*ScoredMatch, len(groups))
	for start := 0; start < len(groups); start += batchSize {
		end := start + batchSize
		if end > len(groups) {
			end = len(groups)
		}
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = e.scoreGroup(ctx, groups[i], rates)
			}(i)
		}
		wg.Wait()
	}

	out := make([]ScoredMatch, 0, len(results))
	for _, m := range results {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out
}

func (e *Engine) scoreGroup(ctx context.Context, g group, rates map[string]float64) *ScoredMatch {
	if len(g.rows) == 0 {
		return nil
	}
	first := g.rows[0]
	sport := first.Prediction.Sport

	fav := pickFavorite(g.rows)

	var b Breakdown
	b.Agreement = agreementScore(fav.majority, fav.minority)
	b.Confidence = confidenceScore(fav.confidences)
	b.PredictedMargin = marginScore(sport, orientedMargins(g.rows, fav.side))

	avgAcc, hasAcc := backingAccuracy(rates, fav.backingSlugs, sport)
	b.SourceAccuracy = accuracyScore(avgAcc, hasAcc)

	prob := estimateProb(avgAcc, hasAcc, fav.agreeRatio, fav.majority, fav.confidences)
	odds := bestDecimalOdds(g.rows, fav.side, sport)
	evPct := (prob*odds - 1) * 100
	b.Value = evScore(evPct)

	avgTotal, err := e.store.GetAvgTotal(ctx, first.Prediction.HomeTeamID, first.Prediction.AwayTeamID, recentFormLimit)
	if err != nil {
		e.logger.Warn("Average total lookup failed", "match_id", g.matchID, "error", err)
	}
	b.Alignment = e.alignmentScore(g.rows, fav.side, sport, avgTotal)

	favTeamID := favoriteTeamID(first, fav.side)
	if favTeamID != 0 {
		if form, err := e.store.GetTeamForm(ctx, favTeamID, recentFormLimit); err == nil {
			b.Form = formScore(form)
		} else {
			e.logger.Warn("Form lookup failed", "team_id", favTeamID, "error", err)
		}
		if h2h, err := e.store.GetH2HResults(ctx, first.Prediction.HomeTeamID, first.Prediction.AwayTeamID, h2hLimit); err == nil {
			b.HeadToHead = h2hScore(h2h, favTeamID)
		} else {
			e.logger.Warn("H2H lookup failed", "match_id", g.matchID, "error", err)
		}
		b.HomeAdvantage = e.venueScore(ctx, favTeamID, fav.side)
	}

	m := &ScoredMatch{
		Score:          composite(b),
		MatchID:        g.matchID,
		Sport:          sport,
		Date:           first.GameDate,
		GameTime:       first.GameTime,
		HomeTeam:       first.HomeTeamName,
		AwayTeam:       first.AwayTeamName,
		Recommendation: fav.side,
		Pick:           pickLabel(first, fav.side),
		Breakdown:      b,
		Predictions:    len(g.rows),
		EVPct:          round1(evPct),
	}
	m.Analysis = buildAnalysis(m, fav, avgAcc, hasAcc, evPct, predictedScores(g.rows), avgTotal)
	return m
}

func (e *Engine) venueScore(ctx context.Context, favTeamID int64, side string) int {
	var (
		rec storage.SplitRecord
		err error
	)
	switch side {
	case models.SideHome:
		rec, err = e.store.GetHomeSplit(ctx, favTeamID)
	case models.SideAway:
		rec, err = e.store.GetAwaySplit(ctx, favTeamID)
	default:
		return 0
	}
	if err != nil {
		e.logger.Warn("Venue split lookup failed", "team_id", favTeamID, "error", err)
		return 0
	}
	return splitScore(rec)
}

// favorite summarizes the moneyline consensus of one group.
type favorite struct {
	side         string
	majority     int      // distinct sources on the favored side
	minority     int      // distinct sources on other ML sides
	agreeRatio   float64  // majority / all ML sources
	confidences  []string // confidence labels of backing picks
	backingSlugs []string // distinct source slugs backing the favored side
}

// pickFavorite derives the favored side from moneyline consensus, falling
// back to spread picks when no source posted a moneyline.
func pickFavorite(rows []storage.ScoringRow) favorite {
	sideSources := map[string]map[string]bool{}
	add := func(side, slug string) {
		if sideSources[side] == nil {
			sideSources[side] = map[string]bool{}
		}
		sideSources[side][slug] = true
	}

	for _, r := range rows {
		if r.Prediction.PickType == models.PickMoneyline {
			add(r.Prediction.Side, r.Prediction.SourceSlug)
		}
	}
	if len(sideSources) == 0 {
		for _, r := range rows {
			if r.Prediction.PickType == models.PickSpread {
				add(r.Prediction.Side, r.Prediction.SourceSlug)
			}
		}
	}

	fav := favorite{side: models.SideHome}
	var total int
	for side, slugs := range sideSources {
		total += len(slugs)
		if len(slugs) > fav.majority {
			fav.majority = len(slugs)
			fav.side = side
		}
	}
	fav.minority = total - fav.majority
	if total > 0 {
		fav.agreeRatio = float64(fav.majority) / float64(total)
	}

	backing := map[string]bool{}
	for _, r := range rows {
		p := r.Prediction
		if p.Side != fav.side {
			continue
		}
		if p.PickType != models.PickMoneyline && p.PickType != models.PickSpread {
			continue
		}
		if p.Confidence != "" {
			fav.confidences = append(fav.confidences, p.Confidence)
		}
		backing[p.SourceSlug] = true
	}
	for slug := range backing {
		fav.backingSlugs = append(fav.backingSlugs, slug)
	}
	sort.Strings(fav.backingSlugs)
	return fav
}

// orientedMargins extracts predicted margins from reasoning text, oriented so
// positive favors the recommended side.
func orientedMargins(rows []storage.ScoringRow, side string) []float64 {
	var out []float64
	for _, r := range rows {
		h, a, ok := adapters.ExtractPredictedScore(r.Prediction.Reasoning)
		if !ok {
			continue
		}
		margin := float64(h - a)
		if side == models.SideAway {
			margin = -margin
		}
		out = append(out, margin)
	}
	return out
}

func predictedScores(rows []storage.ScoringRow) []string {
	var out []string
	for _, r := range rows {
		if h, a, ok := adapters.ExtractPredictedScore(r.Prediction.Reasoning); ok {
			out = append(out, itoa(h)+"-"+itoa(a))
		}
	}
	return out
}

// bestDecimalOdds finds the highest price posted for the favored side.
// US-sport moneyline values are American and get converted; football
// moneylines already carry decimal odds.
func bestDecimalOdds(rows []storage.ScoringRow, side, sport string) float64 {
	best := 0.0
	for _, r := range rows {
		p := r.Prediction
		if p.PickType != models.PickMoneyline || p.Side != side || p.Value == nil {
			continue
		}
		dec := *p.Value
		if models.CuratedSports[sport] {
			dec = adapters.AmericanToDecimal(dec)
		}
		if dec > best {
			best = dec
		}
	}
	if best <= 1 {
		return defaultOdds
	}
	return best
}

// alignmentScore rewards cross-market coherence within the group.
func (e *Engine) alignmentScore(rows []storage.ScoringRow, favSide, sport string, avgTotal float64) int {
	var (
		spreadAgrees, bttsYes, bttsNo, hasOver, hasUnder bool
		ouLineSum                                        float64
		ouLines                                          int
	)
	for _, r := range rows {
		p := r.Prediction
		switch p.PickType {
		case models.PickSpread:
			if p.Side == favSide {
				spreadAgrees = true
			}
		case models.PickProp:
			if p.Side == models.SideYes {
				bttsYes = true
			}
			if p.Side == models.SideNo {
				bttsNo = true
			}
		case models.PickOverUnder:
			if p.Side == models.SideOver {
				hasOver = true
			}
			if p.Side == models.SideUnder {
				hasUnder = true
			}
			if p.Value != nil {
				ouLineSum += *p.Value
				ouLines++
			}
		}
	}

	score := 0
	if spreadAgrees {
		score += 3
	}
	// Contradictory BTTS/total combinations cancel out.
	if (bttsYes && hasOver && !hasUnder && !bttsNo) || (bttsNo && hasUnder && !hasOver && !bttsYes) {
		score += 3
	}

	if avgTotal > 0 {
		if sport == models.SportFootball {
			if hasOver && avgTotal >= 2.5 {
				score += 2
			}
			if hasUnder && avgTotal < 2.0 {
				score += 2
			}
		} else if ouLines > 0 {
			line := ouLineSum / float64(ouLines)
			if hasOver && avgTotal > line {
				score += 2
			}
			if hasUnder && avgTotal < line {
				score += 2
			}
		}
	}

	if score > 10 {
		return 10
	}
	return score
}

// backingAccuracy averages the historical win rate of the sources backing the
// favored side. Sources without enough decided picks are skipped.
func backingAccuracy(rates map[string]float64, slugs []string, sport string) (float64, bool) {
	var sum float64
	var n int
	for _, slug := range slugs {
		if v, ok := accuracyFor(rates, slug, sport); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func favoriteTeamID(r storage.ScoringRow, side string) int64 {
	switch side {
	case models.SideHome:
		return r.Prediction.HomeTeamID
	case models.SideAway:
		return r.Prediction.AwayTeamID
	default:
		return 0
	}
}

func pickLabel(r storage.ScoringRow, side string) string {
	switch side {
	case models.SideHome:
		return r.HomeTeamName + " (moneyline)"
	case models.SideAway:
		return r.AwayTeamName + " (moneyline)"
	case models.SideDraw:
		return "Draw (moneyline)"
	default:
		return side
	}
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}
