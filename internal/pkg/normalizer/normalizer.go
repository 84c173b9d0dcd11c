// Package normalizer turns adapter output into persisted prediction rows:
// team resolution, match identity, dedup insert.
package normalizer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tipline/tipline/internal/pkg/models"
	"github.com/tipline/tipline/internal/pkg/resolver"
)

// Store is the persistence surface the normalizer needs.
type Store interface {
	GetSourceBySlug(ctx context.Context, slug string) (*models.Source, error)
	FindOrCreateMatch(ctx context.Context, sport string, homeTeamID, awayTeamID int64, gameDate, gameTime string) (int64, error)
	InsertPrediction(ctx context.Context, p *models.Prediction) (bool, error)
}

type Normalizer struct {
	store    Store
	resolver *resolver.Resolver
	logger   *slog.Logger

	mu        sync.Mutex
	sourceIDs map[string]int64
}

func New(store Store, res *resolver.Resolver, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		store:     store,
		resolver:  res,
		logger:    logger,
		sourceIDs: make(map[string]int64),
	}
}

// Normalize resolves one raw prediction and inserts it. Returns true when a
// new row was written, false when either team could not be resolved or the
// dedup key already exists.
func (n *Normalizer) Normalize(ctx context.Context, raw *models.RawPrediction) (bool, error) {
	if !raw.Valid() {
		return false, fmt.Errorf("invalid raw prediction from %s", raw.SourceSlug)
	}

	sourceID, err := n.sourceID(ctx, raw.SourceSlug)
	if err != nil {
		return false, err
	}

	homeID, err := n.resolver.ResolveTeamID(ctx, raw.HomeTeamRaw, raw.Sport)
	if err != nil {
		return false, fmt.Errorf("resolve home team: %w", err)
	}
	awayID, err := n.resolver.ResolveTeamID(ctx, raw.AwayTeamRaw, raw.Sport)
	if err != nil {
		return false, fmt.Errorf("resolve away team: %w", err)
	}
	if homeID == 0 || awayID == 0 {
		n.logger.Debug("Dropping prediction with unresolved team",
			"source", raw.SourceSlug, "sport", raw.Sport,
			"home", raw.HomeTeamRaw, "away", raw.AwayTeamRaw)
		return false, nil
	}

	matchID, err := n.store.FindOrCreateMatch(ctx, raw.Sport, homeID, awayID, raw.GameDate, raw.GameTime)
	if err != nil {
		return false, err
	}

	p := &models.Prediction{
		SourceID:   sourceID,
		SourceSlug: raw.SourceSlug,
		MatchID:    matchID,
		Sport:      raw.Sport,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		PickType:   raw.PickType,
		Side:       raw.Side,
		Value:      raw.Value,
		PickerName: raw.PickerName,
		Confidence: raw.Confidence,
		Reasoning:  raw.Reasoning,
		DedupKey:   models.DedupKey(raw.SourceSlug, matchID, raw.PickerName, raw.PickType, raw.Side, raw.Value, raw.GameDate),
		FetchedAt:  raw.FetchedAt,
	}
	return n.store.InsertPrediction(ctx, p)
}

func (n *Normalizer) sourceID(ctx context.Context, slug string) (int64, error) {
	n.mu.Lock()
	if id, ok := n.sourceIDs[slug]; ok {
		n.mu.Unlock()
		return id, nil
	}
	n.mu.Unlock()

	src, err := n.store.GetSourceBySlug(ctx, slug)
	if err != nil {
		return 0, fmt.Errorf("look up source %s: %w", slug, err)
	}
	if src == nil {
		return 0, fmt.Errorf("unknown source %s, adapter not seeded", slug)
	}

	n.mu.Lock()
	n.sourceIDs[slug] = src.ID
	n.mu.Unlock()
	return src.ID, nil
}
