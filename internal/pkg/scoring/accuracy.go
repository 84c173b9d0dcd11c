package scoring

import (
	"context"
	"sync"
	"time"
)

const (
	accuracyTTL   = 30 * time.Minute
	minDecided    = 10
	crossSportKey = "*"
)

// accuracyCache holds per-source win rates in memory. Both sport-specific and
// cross-sport aggregates are precomputed on load; only sources with at least
// minDecided decided picks count.
type accuracyCache struct {
	mu       sync.Mutex
	loadedAt time.Time
	rates    map[string]float64 // "slug|sport" and "slug|*" → win rate percent
}

func (c *accuracyCache) get(ctx context.Context, e *Engine) (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rates != nil && time.Since(c.loadedAt) < accuracyTTL {
		return c.rates, nil
	}

	rows, err := e.store.GetSourceAccuracy(ctx)
	if err != nil {
		if c.rates != nil {
			return c.rates, nil // stale beats absent
		}
		return nil, err
	}

	rates := make(map[string]float64)
	type agg struct{ decided, wins int }
	cross := make(map[string]*agg)
	for _, r := range rows {
		if r.Decided >= minDecided {
			rates[r.SourceSlug+"|"+r.Sport] = float64(r.Wins) / float64(r.Decided) * 100
		}
		a, ok := cross[r.SourceSlug]
		if !ok {
			a = &agg{}
			cross[r.SourceSlug] = a
		}
		a.decided += r.Decided
		a.wins += r.Wins
	}
	for slug, a := range cross {
		if a.decided >= minDecided {
			rates[slug+"|"+crossSportKey] = float64(a.wins) / float64(a.decided) * 100
		}
	}

	c.rates = rates
	c.loadedAt = time.Now()
	return rates, nil
}

// accuracyFor returns a source's win rate, preferring the sport-specific
// record and falling back to the cross-sport aggregate.
func accuracyFor(rates map[string]float64, slug, sport string) (float64, bool) {
	if v, ok := rates[slug+"|"+sport]; ok {
		return v, true
	}
	v, ok := rates[slug+"|"+crossSportKey]
	return v, ok
}
