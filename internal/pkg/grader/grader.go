package grader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tipline/tipline/internal/pkg/config"
	"github.com/tipline/tipline/internal/pkg/models"
	"github.com/tipline/tipline/internal/pkg/resolver"
	"github.com/tipline/tipline/internal/pkg/storage"
)

// Store is the persistence slice the grading loop needs.
type Store interface {
	ListOpenMatches(ctx context.Context, sport string) ([]storage.OpenMatch, error)
	InsertMatchResult(ctx context.Context, r *models.MatchResult) error
	GetUngradedPredictions(ctx context.Context, matchID int64) ([]models.Prediction, error)
	UpdatePredictionGrade(ctx context.Context, predictionID int64, grade string, gradedAt time.Time) error
}

// Grader periodically settles open matches: pull final scores, match them to
// open fixtures, persist results and grade each ungraded prediction. Re-runs
// are no-ops because graded predictions are excluded at query time.
type Grader struct {
	cfg      *config.GraderConfig
	store    Store
	resolver *resolver.Resolver
	source   ResultSource
	logger   *slog.Logger
}

func New(cfg *config.GraderConfig, store Store, res *resolver.Resolver, source ResultSource, logger *slog.Logger) *Grader {
	return &Grader{cfg: cfg, store: store, resolver: res, source: source, logger: logger}
}

// Run blocks, grading once immediately and then on the configured interval.
func (g *Grader) Run(ctx context.Context) {
	g.runOnce(ctx)

	ticker := time.NewTicker(g.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.runOnce(ctx)
		}
	}
}

func (g *Grader) runOnce(ctx context.Context) {
	for _, sport := range g.cfg.Sports {
		if err := g.gradeSport(ctx, sport); err != nil {
			g.logger.Error("Grading pass failed", "sport", sport, "error", err)
		}
	}
}

func (g *Grader) gradeSport(ctx context.Context, sport string) error {
	open, err := g.store.ListOpenMatches(ctx, sport)
	if err != nil {
		return fmt.Errorf("list open matches: %w", err)
	}
	if len(open) == 0 {
		return nil
	}

	// Index open fixtures by natural key, and collect the dates we need
	// scores for so we query the scoreboard once per date.
	byKey := make(map[string]storage.OpenMatch, len(open))
	dates := map[string]bool{}
	for _, m := range open {
		byKey[models.MatchKey(m.Sport, m.HomeTeamID, m.AwayTeamID, m.GameDate)] = m
		dates[m.GameDate] = true
	}

	var graded, settled int
	for date := range dates {
		games, err := g.source.FinalScores(ctx, sport, date)
		if err != nil {
			g.logger.Warn("Scoreboard fetch failed", "sport", sport, "date", date, "error", err)
			continue
		}

		for _, game := range games {
			m, ok := g.matchFor(ctx, sport, date, game, byKey)
			if !ok {
				continue
			}

			result := &models.MatchResult{
				MatchID:      m.MatchID,
				HomeScore:    game.HomeScore,
				AwayScore:    game.AwayScore,
				Status:       game.Status,
				ResultSource: g.source.Name(),
				SettledAt:    time.Now().UTC(),
			}
			if err := g.store.InsertMatchResult(ctx, result); err != nil {
				g.logger.Error("Failed to persist match result", "match_id", m.MatchID, "error", err)
				continue
			}
			settled++

			n, err := g.gradeMatch(ctx, m.MatchID, result)
			if err != nil {
				g.logger.Error("Failed to grade match", "match_id", m.MatchID, "error", err)
				continue
			}
			graded += n
		}
	}

	if settled > 0 {
		g.logger.Info("Grading pass complete", "sport", sport, "settled", settled, "graded", graded)
	}
	return nil
}

// matchFor resolves scoreboard team names against our alias tables and looks
// the fixture up among open matches. Unmatched games are normal: the feed
// covers every game, we only carry the ones someone predicted on.
func (g *Grader) matchFor(ctx context.Context, sport, date string, game ScoreboardGame, byKey map[string]storage.OpenMatch) (storage.OpenMatch, bool) {
	homeID, err := g.resolver.ResolveTeamID(ctx, game.HomeTeam, sport)
	if err != nil || homeID == 0 {
		g.logger.Debug("Unresolved scoreboard home team", "team", game.HomeTeam, "sport", sport, "error", err)
		return storage.OpenMatch{}, false
	}
	awayID, err := g.resolver.ResolveTeamID(ctx, game.AwayTeam, sport)
	if err != nil || awayID == 0 {
		g.logger.Debug("Unresolved scoreboard away team", "team", game.AwayTeam, "sport", sport, "error", err)
		return storage.OpenMatch{}, false
	}

	m, ok := byKey[models.MatchKey(sport, homeID, awayID, date)]
	if !ok {
		g.logger.Debug("Scoreboard game has no open match",
			"home", game.HomeTeam, "away", game.AwayTeam, "date", date)
	}
	return m, ok
}

func (g *Grader) gradeMatch(ctx context.Context, matchID int64, result *models.MatchResult) (int, error) {
	preds, err := g.store.GetUngradedPredictions(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("get ungraded predictions: %w", err)
	}

	now := time.Now().UTC()
	var graded int
	for i := range preds {
		grade := Grade(&preds[i], result)
		if err := g.store.UpdatePredictionGrade(ctx, preds[i].ID, grade, now); err != nil {
			g.logger.Error("Failed to persist grade", "prediction_id", preds[i].ID, "error", err)
			continue
		}
		graded++
	}
	return graded, nil
}
