package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PerSource enforces a minimum gap between fetches of the same source,
// shared across all fetch workers. Sub-URL fetches use the parent's bucket.
type PerSource struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewPerSource() *PerSource {
	return &PerSource{limiters: make(map[string]*rate.Limiter)}
}

// Acquire blocks until the source's rate-limit token is available or the
// context is cancelled. The first call per source never blocks.
func (p *PerSource) Acquire(ctx context.Context, sourceSlug string, minGap time.Duration) error {
	if minGap <= 0 {
		return nil
	}
	p.mu.Lock()
	lim, ok := p.limiters[sourceSlug]
	if !ok {
		lim = rate.NewLimiter(rate.Every(minGap), 1)
		p.limiters[sourceSlug] = lim
	}
	p.mu.Unlock()

	return lim.Wait(ctx)
}
