package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/tipline/tipline/internal/pkg/config"
	"github.com/tipline/tipline/internal/pkg/models"
)

// Postgres is the persistence layer. All writes are idempotent via natural-key
// conflict clauses; see initSchema for the constraints.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(cfg *config.PostgresConfig) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &Postgres{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL storage initialized successfully")
	return s, nil
}

func (s *Postgres) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS sources (
		id SERIAL PRIMARY KEY,
		slug VARCHAR(100) NOT NULL UNIQUE,
		name VARCHAR(200) NOT NULL,
		base_url VARCHAR(500) NOT NULL,
		fetch_method VARCHAR(20) NOT NULL DEFAULT 'http',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		last_fetched_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS teams (
		id SERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		abbreviation VARCHAR(200) NOT NULL,
		sport VARCHAR(50) NOT NULL,
		UNIQUE (abbreviation, sport)
	);

	CREATE TABLE IF NOT EXISTS team_aliases (
		team_id INTEGER NOT NULL REFERENCES teams(id),
		alias VARCHAR(200) NOT NULL,
		UNIQUE (alias, team_id)
	);
	CREATE INDEX IF NOT EXISTS idx_team_aliases_alias ON team_aliases(alias);

	CREATE TABLE IF NOT EXISTS matches (
		id SERIAL PRIMARY KEY,
		sport VARCHAR(50) NOT NULL,
		home_team_id INTEGER NOT NULL REFERENCES teams(id),
		away_team_id INTEGER NOT NULL REFERENCES teams(id),
		game_date DATE NOT NULL,
		game_time VARCHAR(10) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE (sport, home_team_id, away_team_id, game_date)
	);
	CREATE INDEX IF NOT EXISTS idx_matches_game_date ON matches(game_date);

	CREATE TABLE IF NOT EXISTS predictions (
		id SERIAL PRIMARY KEY,
		source_id INTEGER NOT NULL REFERENCES sources(id),
		match_id INTEGER NOT NULL REFERENCES matches(id),
		sport VARCHAR(50) NOT NULL,
		home_team_id INTEGER NOT NULL,
		away_team_id INTEGER NOT NULL,
		pick_type VARCHAR(20) NOT NULL,
		side VARCHAR(10) NOT NULL,
		value DOUBLE PRECISION,
		picker_name VARCHAR(200) NOT NULL DEFAULT '',
		confidence VARCHAR(20) NOT NULL DEFAULT '',
		reasoning TEXT NOT NULL DEFAULT '',
		dedup_key VARCHAR(64) NOT NULL UNIQUE,
		fetched_at TIMESTAMP NOT NULL,
		grade VARCHAR(10),
		graded_at TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_predictions_match ON predictions(match_id);
	CREATE INDEX IF NOT EXISTS idx_predictions_sport ON predictions(sport);

	CREATE TABLE IF NOT EXISTS match_results (
		match_id INTEGER NOT NULL UNIQUE REFERENCES matches(id),
		home_score INTEGER NOT NULL,
		away_score INTEGER NOT NULL,
		status VARCHAR(20) NOT NULL,
		result_source VARCHAR(100) NOT NULL,
		settled_at TIMESTAMP NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// --- sources ---

// UpsertSource seeds or refreshes a source row, keyed by slug.
func (s *Postgres) UpsertSource(ctx context.Context, src *models.Source) (int64, error) {
	query := `
	INSERT INTO sources (slug, name, base_url, fetch_method, is_active)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (slug) DO UPDATE SET
		name = EXCLUDED.name,
		base_url = EXCLUDED.base_url,
		fetch_method = EXCLUDED.fetch_method,
		is_active = EXCLUDED.is_active
	RETURNING id
	`
	var id int64
	err := s.db.QueryRowContext(ctx, query, src.Slug, src.Name, src.BaseURL, src.FetchMethod, src.IsActive).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert source %s: %w", src.Slug, err)
	}
	return id, nil
}

func (s *Postgres) GetSourceBySlug(ctx context.Context, slug string) (*models.Source, error) {
	query := `SELECT id, slug, name, base_url, fetch_method, is_active, last_fetched_at FROM sources WHERE slug = $1`
	var src models.Source
	var last sql.NullTime
	err := s.db.QueryRowContext(ctx, query, slug).Scan(
		&src.ID, &src.Slug, &src.Name, &src.BaseURL, &src.FetchMethod, &src.IsActive, &last)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source %s: %w", slug, err)
	}
	if last.Valid {
		src.LastFetchedAt = &last.Time
	}
	return &src, nil
}

func (s *Postgres) UpdateSourceLastFetched(ctx context.Context, slug string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sources SET last_fetched_at = $2 WHERE slug = $1`, slug, at)
	if err != nil {
		return fmt.Errorf("failed to update last_fetched_at for %s: %w", slug, err)
	}
	return nil
}

// --- teams and aliases ---

// CreateTeamWithAlias upserts a team on (abbreviation, sport) and seeds one
// alias. Safe under concurrent callers: both statements are conflict-tolerant.
func (s *Postgres) CreateTeamWithAlias(ctx context.Context, name, abbreviation, sport, alias string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var teamID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO teams (name, abbreviation, sport)
		VALUES ($1, $2, $3)
		ON CONFLICT (abbreviation, sport) DO UPDATE SET name = teams.name
		RETURNING id
	`, name, abbreviation, sport).Scan(&teamID)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert team %s: %w", name, err)
	}

	if alias != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO team_aliases (team_id, alias)
			VALUES ($1, $2)
			ON CONFLICT (alias, team_id) DO NOTHING
		`, teamID, alias)
		if err != nil {
			return 0, fmt.Errorf("failed to insert alias %s: %w", alias, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit team upsert: %w", err)
	}
	return teamID, nil
}

func (s *Postgres) AddAlias(ctx context.Context, teamID int64, alias string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO team_aliases (team_id, alias)
		VALUES ($1, $2)
		ON CONFLICT (alias, team_id) DO NOTHING
	`, teamID, alias)
	if err != nil {
		return fmt.Errorf("failed to add alias %s: %w", alias, err)
	}
	return nil
}

// FindTeamIDByAlias does a case-insensitive exact alias lookup filtered by sport.
func (s *Postgres) FindTeamIDByAlias(ctx context.Context, alias, sport string) (int64, error) {
	query := `
	SELECT t.id FROM team_aliases a
	JOIN teams t ON t.id = a.team_id
	WHERE LOWER(a.alias) = LOWER($1) AND t.sport = $2
	LIMIT 1
	`
	var id int64
	err := s.db.QueryRowContext(ctx, query, alias, sport).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up alias %q: %w", alias, err)
	}
	return id, nil
}

func (s *Postgres) FindTeamIDByAbbreviation(ctx context.Context, abbreviation, sport string) (int64, error) {
	query := `SELECT id FROM teams WHERE LOWER(abbreviation) = LOWER($1) AND sport = $2 LIMIT 1`
	var id int64
	err := s.db.QueryRowContext(ctx, query, abbreviation, sport).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up abbreviation %q: %w", abbreviation, err)
	}
	return id, nil
}

// ListAliasesBySport returns all (alias, teamID) pairs for substring matching.
func (s *Postgres) ListAliasesBySport(ctx context.Context, sport string) ([]models.TeamAlias, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.team_id, LOWER(a.alias) FROM team_aliases a
		JOIN teams t ON t.id = a.team_id
		WHERE t.sport = $1
	`, sport)
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases for %s: %w", sport, err)
	}
	defer rows.Close()

	var out []models.TeamAlias
	for rows.Next() {
		var a models.TeamAlias
		if err := rows.Scan(&a.TeamID, &a.Alias); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Postgres) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	var t models.Team
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, abbreviation, sport FROM teams WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Abbreviation, &t.Sport)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return &t, nil
}

// MergeAliases repoints all aliases and predictions of one team onto another.
// Operator tooling for football spelling-variant cleanup.
func (s *Postgres) MergeAliases(ctx context.Context, fromTeamID, toTeamID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO team_aliases (team_id, alias)
		SELECT $2, alias FROM team_aliases WHERE team_id = $1
		ON CONFLICT (alias, team_id) DO NOTHING
	`, fromTeamID, toTeamID); err != nil {
		return fmt.Errorf("failed to copy aliases: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM team_aliases WHERE team_id = $1`, fromTeamID); err != nil {
		return fmt.Errorf("failed to delete old aliases: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE predictions SET home_team_id = $2 WHERE home_team_id = $1`, fromTeamID, toTeamID); err != nil {
		return fmt.Errorf("failed to repoint home predictions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE predictions SET away_team_id = $2 WHERE away_team_id = $1`, fromTeamID, toTeamID); err != nil {
		return fmt.Errorf("failed to repoint away predictions: %w", err)
	}
	return tx.Commit()
}

// --- matches ---

// FindOrCreateMatch upserts on the natural key and returns the match id.
func (s *Postgres) FindOrCreateMatch(ctx context.Context, sport string, homeTeamID, awayTeamID int64, gameDate, gameTime string) (int64, error) {
	query := `
	INSERT INTO matches (sport, home_team_id, away_team_id, game_date, game_time)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (sport, home_team_id, away_team_id, game_date) DO UPDATE SET
		game_time = CASE WHEN matches.game_time = '' THEN EXCLUDED.game_time ELSE matches.game_time END
	RETURNING id
	`
	var id int64
	err := s.db.QueryRowContext(ctx, query, sport, homeTeamID, awayTeamID, gameDate, gameTime).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to find or create match: %w", err)
	}
	return id, nil
}

// --- predictions ---

// InsertPrediction inserts one normalized prediction. Returns false when the
// dedup key already exists (a normal duplicate, not an error).
func (s *Postgres) InsertPrediction(ctx context.Context, p *models.Prediction) (bool, error) {
	query := `
	INSERT INTO predictions (
		source_id, match_id, sport, home_team_id, away_team_id,
		pick_type, side, value, picker_name, confidence, reasoning,
		dedup_key, fetched_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (dedup_key) DO NOTHING
	RETURNING id
	`
	var id int64
	err := s.db.QueryRowContext(ctx, query,
		p.SourceID, p.MatchID, p.Sport, p.HomeTeamID, p.AwayTeamID,
		p.PickType, p.Side, nullFloat(p.Value), p.PickerName, p.Confidence, p.Reasoning,
		p.DedupKey, p.FetchedAt,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil // duplicate
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert prediction: %w", err)
	}
	p.ID = id
	return true, nil
}

// GetUngradedPredictions returns open predictions for a match. Graded rows are
// excluded, which is what makes re-grading a no-op.
func (s *Postgres) GetUngradedPredictions(ctx context.Context, matchID int64) ([]models.Prediction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.source_id, s.slug, p.match_id, p.sport, p.home_team_id, p.away_team_id,
			p.pick_type, p.side, p.value, p.picker_name, p.confidence, p.reasoning,
			p.dedup_key, p.fetched_at
		FROM predictions p
		JOIN sources s ON s.id = p.source_id
		WHERE p.match_id = $1 AND p.grade IS NULL
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ungraded predictions: %w", err)
	}
	defer rows.Close()
	return scanPredictions(rows)
}

func (s *Postgres) UpdatePredictionGrade(ctx context.Context, predictionID int64, grade string, gradedAt time.Time) error {
	// grade is immutable once set
	_, err := s.db.ExecContext(ctx, `
		UPDATE predictions SET grade = $2, graded_at = $3
		WHERE id = $1 AND grade IS NULL
	`, predictionID, grade, gradedAt)
	if err != nil {
		return fmt.Errorf("failed to update grade for prediction %d: %w", predictionID, err)
	}
	return nil
}

// --- match results ---

// InsertMatchResult upserts a final score keyed by match id. Re-writes update
// scores and settled_at.
func (s *Postgres) InsertMatchResult(ctx context.Context, r *models.MatchResult) error {
	query := `
	INSERT INTO match_results (match_id, home_score, away_score, status, result_source, settled_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (match_id) DO UPDATE SET
		home_score = EXCLUDED.home_score,
		away_score = EXCLUDED.away_score,
		status = EXCLUDED.status,
		result_source = EXCLUDED.result_source,
		settled_at = EXCLUDED.settled_at
	`
	_, err := s.db.ExecContext(ctx, query,
		r.MatchID, r.HomeScore, r.AwayScore, r.Status, r.ResultSource, r.SettledAt)
	if err != nil {
		return fmt.Errorf("failed to insert match result: %w", err)
	}
	return nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func scanPredictions(rows *sql.Rows) ([]models.Prediction, error) {
	var out []models.Prediction
	for rows.Next() {
		var p models.Prediction
		var value sql.NullFloat64
		if err := rows.Scan(
			&p.ID, &p.SourceID, &p.SourceSlug, &p.MatchID, &p.Sport, &p.HomeTeamID, &p.AwayTeamID,
			&p.PickType, &p.Side, &value, &p.PickerName, &p.Confidence, &p.Reasoning,
			&p.DedupKey, &p.FetchedAt,
		); err != nil {
			return nil, err
		}
		if value.Valid {
			v := value.Float64
			p.Value = &v
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
