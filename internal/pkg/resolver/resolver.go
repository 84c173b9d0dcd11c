// Package resolver maps raw team names from tipster pages onto stable team ids.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tipline/tipline/internal/pkg/models"
)

// TeamStore is the slice of persistence the resolver needs. *storage.Postgres
// satisfies it; tests use an in-memory fake.
type TeamStore interface {
	FindTeamIDByAlias(ctx context.Context, alias, sport string) (int64, error)
	FindTeamIDByAbbreviation(ctx context.Context, abbreviation, sport string) (int64, error)
	ListAliasesBySport(ctx context.Context, sport string) ([]models.TeamAlias, error)
	CreateTeamWithAlias(ctx context.Context, name, abbreviation, sport, alias string) (int64, error)
}

type Resolver struct {
	store TeamStore
}

func New(store TeamStore) *Resolver {
	return &Resolver{store: store}
}

// ResolveTeamID resolves a raw team name to a team id. Lookup order: exact
// alias, abbreviation, substring. For sports with an unbounded team universe
// (football) an unknown name creates a new team; for curated sports it
// returns 0 and the caller drops the prediction.
func (r *Resolver) ResolveTeamID(ctx context.Context, rawName, sport string) (int64, error) {
	name := Normalize(rawName)
	if name == "" {
		return 0, nil
	}

	id, err := r.store.FindTeamIDByAlias(ctx, name, sport)
	if err != nil {
		return 0, fmt.Errorf("alias lookup: %w", err)
	}
	if id != 0 {
		return id, nil
	}

	id, err = r.store.FindTeamIDByAbbreviation(ctx, name, sport)
	if err != nil {
		return 0, fmt.Errorf("abbreviation lookup: %w", err)
	}
	if id != 0 {
		return id, nil
	}

	id, err = r.substringMatch(ctx, name, sport)
	if err != nil {
		return 0, err
	}
	if id != 0 {
		return id, nil
	}

	if models.CuratedSports[sport] {
		slog.Debug("Unresolved team for curated sport", "raw", rawName, "sport", sport)
		return 0, nil
	}

	// Unbounded team space: create on first sight, alias = normalized raw.
	// Idempotent under concurrent callers via the (abbreviation, sport) upsert.
	id, err = r.store.CreateTeamWithAlias(ctx, rawName, rawName, sport, name)
	if err != nil {
		return 0, fmt.Errorf("auto-create team: %w", err)
	}
	return id, nil
}

// substringMatch finds the largest alias that contains, or is contained in,
// the normalized raw name. Ties go to the longer alias.
func (r *Resolver) substringMatch(ctx context.Context, name, sport string) (int64, error) {
	aliases, err := r.store.ListAliasesBySport(ctx, sport)
	if err != nil {
		return 0, fmt.Errorf("list aliases: %w", err)
	}

	var best models.TeamAlias
	for _, a := range aliases {
		if !strings.Contains(name, a.Alias) && !strings.Contains(a.Alias, name) {
			continue
		}
		if len(a.Alias) > len(best.Alias) {
			best = a
		}
	}
	return best.TeamID, nil
}

// Normalize lower-cases, trims and collapses whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
