package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tipline/tipline/internal/pkg/models"
)

// ScoringRow is a prediction joined with its match and team names, the input
// shape of the scoring engine.
type ScoringRow struct {
	Prediction   models.Prediction
	HomeTeamName string
	AwayTeamName string
	GameDate     string
	GameTime     string
}

// FormGame is one finished game from a team's perspective, newest first.
type FormGame struct {
	Won bool
}

// H2HGame is one finished meeting between two teams. WinnerTeamID is 0 on a draw.
type H2HGame struct {
	WinnerTeamID int64
}

// SplitRecord is a team's record in one venue role.
type SplitRecord struct {
	Games int
	Wins  int
}

// SourceAccuracyRow is the decided-pick record of one source in one sport.
type SourceAccuracyRow struct {
	SourceSlug string
	Sport      string
	Decided    int
	Wins       int
}

// AccuracyBucket summarizes grades for one (sport, pickType, source) group.
type AccuracyBucket struct {
	Sport      string `json:"sport"`
	PickType   string `json:"pick_type"`
	SourceSlug string `json:"source"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Pushes     int    `json:"pushes"`
	Voids      int    `json:"voids"`
}

// AccuracyDay is one day of grading history.
type AccuracyDay struct {
	Date   string `json:"date"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Pushes int    `json:"pushes"`
	Voids  int    `json:"voids"`
}

// GetRecentPredictions returns predictions whose match date is >= cutoff,
// optionally filtered by sport and exact date.
func (s *Postgres) GetRecentPredictions(ctx context.Context, sport, date string, cutoff time.Time) ([]ScoringRow, error) {
	query := `
	SELECT p.id, p.source_id, src.slug, p.match_id, p.sport, p.home_team_id, p.away_team_id,
		p.pick_type, p.side, p.value, p.picker_name, p.confidence, p.reasoning,
		p.dedup_key, p.fetched_at,
		ht.name, aw.name, TO_CHAR(m.game_date, 'YYYY-MM-DD'), m.game_time
	FROM predictions p
	JOIN sources src ON src.id = p.source_id
	JOIN matches m ON m.id = p.match_id
	JOIN teams ht ON ht.id = m.home_team_id
	JOIN teams aw ON aw.id = m.away_team_id
	WHERE m.game_date >= $1
		AND ($2 = '' OR p.sport = $2)
		AND (m.game_date = NULLIF($3, '')::date OR $3 = '')
	ORDER BY m.game_date, p.match_id
	`
	rows, err := s.db.QueryContext(ctx, query, cutoff.Format("2006-01-02"), sport, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent predictions: %w", err)
	}
	defer rows.Close()

	var out []ScoringRow
	for rows.Next() {
		var r ScoringRow
		var value sql.NullFloat64
		if err := rows.Scan(
			&r.Prediction.ID, &r.Prediction.SourceID, &r.Prediction.SourceSlug,
			&r.Prediction.MatchID, &r.Prediction.Sport,
			&r.Prediction.HomeTeamID, &r.Prediction.AwayTeamID,
			&r.Prediction.PickType, &r.Prediction.Side, &value,
			&r.Prediction.PickerName, &r.Prediction.Confidence, &r.Prediction.Reasoning,
			&r.Prediction.DedupKey, &r.Prediction.FetchedAt,
			&r.HomeTeamName, &r.AwayTeamName, &r.GameDate, &r.GameTime,
		); err != nil {
			return nil, err
		}
		if value.Valid {
			v := value.Float64
			r.Prediction.Value = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetSourceAccuracy returns per-(source, sport) decided-pick records for the
// value factor. Cross-sport aggregates are computed by the caller.
func (s *Postgres) GetSourceAccuracy(ctx context.Context) ([]SourceAccuracyRow, error) {
	query := `
	SELECT src.slug, p.sport,
		COUNT(*) FILTER (WHERE p.grade IN ('win','loss')),
		COUNT(*) FILTER (WHERE p.grade = 'win')
	FROM predictions p
	JOIN sources src ON src.id = p.source_id
	WHERE p.grade IS NOT NULL
	GROUP BY src.slug, p.sport
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get source accuracy: %w", err)
	}
	defer rows.Close()

	var out []SourceAccuracyRow
	for rows.Next() {
		var r SourceAccuracyRow
		if err := rows.Scan(&r.SourceSlug, &r.Sport, &r.Decided, &r.Wins); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetTeamForm returns a team's last finished games, newest first.
func (s *Postgres) GetTeamForm(ctx context.Context, teamID int64, limit int) ([]FormGame, error) {
	query := `
	SELECT CASE
		WHEN m.home_team_id = $1 THEN r.home_score > r.away_score
		ELSE r.away_score > r.home_score
	END
	FROM match_results r
	JOIN matches m ON m.id = r.match_id
	WHERE r.status = 'final' AND (m.home_team_id = $1 OR m.away_team_id = $1)
	ORDER BY m.game_date DESC
	LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get team form: %w", err)
	}
	defer rows.Close()

	var out []FormGame
	for rows.Next() {
		var g FormGame
		if err := rows.Scan(&g.Won); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetH2HResults returns up to limit finished meetings between two teams, newest first.
func (s *Postgres) GetH2HResults(ctx context.Context, teamA, teamB int64, limit int) ([]H2HGame, error) {
	query := `
	SELECT CASE
		WHEN r.home_score > r.away_score THEN m.home_team_id
		WHEN r.away_score > r.home_score THEN m.away_team_id
		ELSE 0
	END
	FROM match_results r
	JOIN matches m ON m.id = r.match_id
	WHERE r.status = 'final'
		AND ((m.home_team_id = $1 AND m.away_team_id = $2) OR (m.home_team_id = $2 AND m.away_team_id = $1))
	ORDER BY m.game_date DESC
	LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, teamA, teamB, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get h2h results: %w", err)
	}
	defer rows.Close()

	var out []H2HGame
	for rows.Next() {
		var g H2HGame
		if err := rows.Scan(&g.WinnerTeamID); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetHomeSplit returns the team's record when playing at home.
func (s *Postgres) GetHomeSplit(ctx context.Context, teamID int64) (SplitRecord, error) {
	return s.venueSplit(ctx, teamID, true)
}

// GetAwaySplit returns the team's record when playing away.
func (s *Postgres) GetAwaySplit(ctx context.Context, teamID int64) (SplitRecord, error) {
	return s.venueSplit(ctx, teamID, false)
}

func (s *Postgres) venueSplit(ctx context.Context, teamID int64, home bool) (SplitRecord, error) {
	var query string
	if home {
		query = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE r.home_score > r.away_score)
		FROM match_results r JOIN matches m ON m.id = r.match_id
		WHERE r.status = 'final' AND m.home_team_id = $1`
	} else {
		query = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE r.away_score > r.home_score)
		FROM match_results r JOIN matches m ON m.id = r.match_id
		WHERE r.status = 'final' AND m.away_team_id = $1`
	}
	var rec SplitRecord
	if err := s.db.QueryRowContext(ctx, query, teamID).Scan(&rec.Games, &rec.Wins); err != nil {
		return rec, fmt.Errorf("failed to get venue split: %w", err)
	}
	return rec, nil
}

// GetAccuracyStats summarizes grades grouped by (sport, pick_type, source).
func (s *Postgres) GetAccuracyStats(ctx context.Context, sport, pickType string) ([]AccuracyBucket, error) {
	query := `
	SELECT p.sport, p.pick_type, src.slug,
		COUNT(*) FILTER (WHERE p.grade = 'win'),
		COUNT(*) FILTER (WHERE p.grade = 'loss'),
		COUNT(*) FILTER (WHERE p.grade = 'push'),
		COUNT(*) FILTER (WHERE p.grade = 'void')
	FROM predictions p
	JOIN sources src ON src.id = p.source_id
	WHERE p.grade IS NOT NULL
		AND ($1 = '' OR p.sport = $1)
		AND ($2 = '' OR p.pick_type = $2)
	GROUP BY p.sport, p.pick_type, src.slug
	ORDER BY p.sport, p.pick_type, src.slug
	`
	rows, err := s.db.QueryContext(ctx, query, sport, pickType)
	if err != nil {
		return nil, fmt.Errorf("failed to get accuracy stats: %w", err)
	}
	defer rows.Close()

	var out []AccuracyBucket
	for rows.Next() {
		var b AccuracyBucket
		if err := rows.Scan(&b.Sport, &b.PickType, &b.SourceSlug, &b.Wins, &b.Losses, &b.Pushes, &b.Voids); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetAccuracyHistory summarizes grades per game date over the last N days.
func (s *Postgres) GetAccuracyHistory(ctx context.Context, days int) ([]AccuracyDay, error) {
	query := `
	SELECT TO_CHAR(m.game_date, 'YYYY-MM-DD'),
		COUNT(*) FILTER (WHERE p.grade = 'win'),
		COUNT(*) FILTER (WHERE p.grade = 'loss'),
		COUNT(*) FILTER (WHERE p.grade = 'push'),
		COUNT(*) FILTER (WHERE p.grade = 'void')
	FROM predictions p
	JOIN matches m ON m.id = p.match_id
	WHERE p.grade IS NOT NULL AND m.game_date >= CURRENT_DATE - $1::int
	GROUP BY m.game_date
	ORDER BY m.game_date DESC
	`
	rows, err := s.db.QueryContext(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get accuracy history: %w", err)
	}
	defer rows.Close()

	var out []AccuracyDay
	for rows.Next() {
		var d AccuracyDay
		if err := rows.Scan(&d.Date, &d.Wins, &d.Losses, &d.Pushes, &d.Voids); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// StatsTotal is one row of the /predictions/stats breakdown.
type StatsTotal struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// GetPredictionTotals returns counts grouped by one dimension: sport, source or pick_type.
func (s *Postgres) GetPredictionTotals(ctx context.Context, dimension string) ([]StatsTotal, error) {
	var query string
	switch dimension {
	case "sport":
		query = `SELECT p.sport, COUNT(*) FROM predictions p GROUP BY p.sport ORDER BY p.sport`
	case "source":
		query = `SELECT src.slug, COUNT(*) FROM predictions p JOIN sources src ON src.id = p.source_id GROUP BY src.slug ORDER BY src.slug`
	case "pick_type":
		query = `SELECT p.pick_type, COUNT(*) FROM predictions p GROUP BY p.pick_type ORDER BY p.pick_type`
	default:
		return nil, fmt.Errorf("unknown stats dimension %q", dimension)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction totals: %w", err)
	}
	defer rows.Close()

	var out []StatsTotal
	for rows.Next() {
		var t StatsTotal
		if err := rows.Scan(&t.Key, &t.Count); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TipBreakdown summarizes one (pickType, side) bucket within a match.
type TipBreakdown struct {
	PickType       string   `json:"pick_type"`
	Side           string   `json:"side"`
	Count          int      `json:"count"`
	BestConfidence string   `json:"best_confidence"`
	AvgValue       *float64 `json:"avg_value,omitempty"`
}

// MatchSummary is one row of /predictions/matches.
type MatchSummary struct {
	MatchID      int64          `json:"match_id"`
	Sport        string         `json:"sport"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	GameDate     string         `json:"game_date"`
	GameTime     string         `json:"game_time,omitempty"`
	Predictions  int            `json:"predictions"`
	TipBreakdown []TipBreakdown `json:"tips"`
}

// ListMatchSummaries returns matches with prediction counts and a per
// (pickType, side) tips breakdown.
func (s *Postgres) ListMatchSummaries(ctx context.Context, sport, date, source string) ([]MatchSummary, error) {
	query := `
	SELECT m.id, m.sport, ht.name, aw.name, TO_CHAR(m.game_date, 'YYYY-MM-DD'), m.game_time,
		p.pick_type, p.side, COUNT(*),
		MIN(CASE p.confidence
			WHEN 'best_bet' THEN 1 WHEN 'high' THEN 2 WHEN 'medium' THEN 3 WHEN 'low' THEN 4 ELSE 5 END),
		AVG(p.value)
	FROM predictions p
	JOIN matches m ON m.id = p.match_id
	JOIN teams ht ON ht.id = m.home_team_id
	JOIN teams aw ON aw.id = m.away_team_id
	JOIN sources src ON src.id = p.source_id
	WHERE ($1 = '' OR m.sport = $1)
		AND (m.game_date = NULLIF($2, '')::date OR $2 = '')
		AND ($3 = '' OR src.slug = $3)
	GROUP BY m.id, m.sport, ht.name, aw.name, m.game_date, m.game_time, p.pick_type, p.side
	ORDER BY m.game_date, m.id, p.pick_type, p.side
	`
	rows, err := s.db.QueryContext(ctx, query, sport, date, source)
	if err != nil {
		return nil, fmt.Errorf("failed to list match summaries: %w", err)
	}
	defer rows.Close()

	confNames := map[int]string{1: models.ConfidenceBestBet, 2: models.ConfidenceHigh, 3: models.ConfidenceMedium, 4: models.ConfidenceLow, 5: ""}

	byMatch := map[int64]*MatchSummary{}
	var order []int64
	for rows.Next() {
		var (
			id                       int64
			sportCol, home, away     string
			gameDate, gameTime       string
			pickType, side           string
			count, bestConfRank      int
			avgValue                 sql.NullFloat64
		)
		if err := rows.Scan(&id, &sportCol, &home, &away, &gameDate, &gameTime,
			&pickType, &side, &count, &bestConfRank, &avgValue); err != nil {
			return nil, err
		}
		ms, ok := byMatch[id]
		if !ok {
			ms = &MatchSummary{
				MatchID: id, Sport: sportCol, HomeTeam: home, AwayTeam: away,
				GameDate: gameDate, GameTime: gameTime,
			}
			byMatch[id] = ms
			order = append(order, id)
		}
		tb := TipBreakdown{PickType: pickType, Side: side, Count: count, BestConfidence: confNames[bestConfRank]}
		if avgValue.Valid {
			v := avgValue.Float64
			tb.AvgValue = &v
		}
		ms.TipBreakdown = append(ms.TipBreakdown, tb)
		ms.Predictions += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]MatchSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byMatch[id])
	}
	return out, nil
}

// ListPredictions returns raw prediction rows with optional filters.
func (s *Postgres) ListPredictions(ctx context.Context, sport, date, source string, matchID int64) ([]ScoringRow, error) {
	query := `
	SELECT p.id, p.source_id, src.slug, p.match_id, p.sport, p.home_team_id, p.away_team_id,
		p.pick_type, p.side, p.value, p.picker_name, p.confidence, p.reasoning,
		p.dedup_key, p.fetched_at,
		ht.name, aw.name, TO_CHAR(m.game_date, 'YYYY-MM-DD'), m.game_time
	FROM predictions p
	JOIN sources src ON src.id = p.source_id
	JOIN matches m ON m.id = p.match_id
	JOIN teams ht ON ht.id = m.home_team_id
	JOIN teams aw ON aw.id = m.away_team_id
	WHERE ($1 = '' OR p.sport = $1)
		AND (m.game_date = NULLIF($2, '')::date OR $2 = '')
		AND ($3 = '' OR src.slug = $3)
		AND ($4 = 0 OR p.match_id = $4)
	ORDER BY p.fetched_at DESC
	LIMIT 500
	`
	rows, err := s.db.QueryContext(ctx, query, sport, date, source, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var out []ScoringRow
	for rows.Next() {
		var r ScoringRow
		var value sql.NullFloat64
		if err := rows.Scan(
			&r.Prediction.ID, &r.Prediction.SourceID, &r.Prediction.SourceSlug,
			&r.Prediction.MatchID, &r.Prediction.Sport,
			&r.Prediction.HomeTeamID, &r.Prediction.AwayTeamID,
			&r.Prediction.PickType, &r.Prediction.Side, &value,
			&r.Prediction.PickerName, &r.Prediction.Confidence, &r.Prediction.Reasoning,
			&r.Prediction.DedupKey, &r.Prediction.FetchedAt,
			&r.HomeTeamName, &r.AwayTeamName, &r.GameDate, &r.GameTime,
		); err != nil {
			return nil, err
		}
		if value.Valid {
			v := value.Float64
			r.Prediction.Value = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListOpenMatchKeys returns natural keys of matches that still have ungraded
// predictions, for the grader to target.
type OpenMatch struct {
	MatchID    int64
	Sport      string
	HomeTeamID int64
	AwayTeamID int64
	GameDate   string
}

func (s *Postgres) ListOpenMatches(ctx context.Context, sport string) ([]OpenMatch, error) {
	query := `
	SELECT DISTINCT m.id, m.sport, m.home_team_id, m.away_team_id, TO_CHAR(m.game_date, 'YYYY-MM-DD')
	FROM matches m
	JOIN predictions p ON p.match_id = m.id
	WHERE p.grade IS NULL AND m.sport = $1 AND m.game_date <= CURRENT_DATE
	`
	rows, err := s.db.QueryContext(ctx, query, sport)
	if err != nil {
		return nil, fmt.Errorf("failed to list open matches: %w", err)
	}
	defer rows.Close()

	var out []OpenMatch
	for rows.Next() {
		var m OpenMatch
		if err := rows.Scan(&m.MatchID, &m.Sport, &m.HomeTeamID, &m.AwayTeamID, &m.GameDate); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetAvgTotal returns the average combined final score across the recent
// finished games involving either team, 0 when neither has results yet.
func (s *Postgres) GetAvgTotal(ctx context.Context, teamA, teamB int64, limit int) (float64, error) {
	query := `
	SELECT COALESCE(AVG(total), 0) FROM (
		SELECT (r.home_score + r.away_score)::float AS total
		FROM match_results r
		JOIN matches m ON m.id = r.match_id
		WHERE r.status = 'final'
			AND (m.home_team_id IN ($1, $2) OR m.away_team_id IN ($1, $2))
		ORDER BY m.game_date DESC
		LIMIT $3
	) t
	`
	var avg float64
	if err := s.db.QueryRowContext(ctx, query, teamA, teamB, limit).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to get average total: %w", err)
	}
	return avg, nil
}
