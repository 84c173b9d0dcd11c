package worker

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/tipline/tipline/internal/pkg/adapters"
	"github.com/tipline/tipline/internal/pkg/normalizer"
	"github.com/tipline/tipline/internal/pkg/queue"
	"github.com/tipline/tipline/internal/pkg/scoring"
	"github.com/tipline/tipline/internal/pkg/snapshot"
	"github.com/tipline/tipline/internal/pkg/storage"
)

// Parser consumes parse jobs: reload the snapshot, run the adapter's parser,
// normalize each row. A row that fails to normalize is logged and skipped;
// one bad row never aborts the batch.
type Parser struct {
	parseQ  *queue.Queue
	snaps   *snapshot.Store
	norm    *normalizer.Normalizer
	kv      *storage.KV
	enabled map[string]*adapters.Adapter
	logger  *slog.Logger
}

func NewParser(parseQ *queue.Queue, snaps *snapshot.Store, norm *normalizer.Normalizer, kv *storage.KV, enabled []*adapters.Adapter, logger *slog.Logger) *Parser {
	byID := make(map[string]*adapters.Adapter, len(enabled))
	for _, a := range enabled {
		byID[a.Config.ID] = a
	}
	return &Parser{
		parseQ:  parseQ,
		snaps:   snaps,
		norm:    norm,
		kv:      kv,
		enabled: byID,
		logger:  logger,
	}
}

func (p *Parser) Run(ctx context.Context, workers int) {
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.loop(ctx)
		}()
	}
	wg.Wait()
}

func (p *Parser) loop(ctx context.Context) {
	for ctx.Err() == nil {
		var job queue.ParseJob
		ok, err := p.parseQ.Dequeue(ctx, &job, dequeueTimeout)
		if err != nil {
			if ctx.Err() == nil {
				p.logger.Error("Parse dequeue failed", "error", err)
				time.Sleep(time.Second)
			}
			continue
		}
		if !ok {
			continue
		}
		p.process(ctx, job)
	}
}

func (p *Parser) process(ctx context.Context, job queue.ParseJob) {
	logger := p.logger.With("adapter", job.AdapterID, "sport", job.Sport, "url", job.URL)

	a, ok := p.enabled[job.AdapterID]
	if !ok {
		logger.Warn("Dropping parse job for unknown or disabled adapter")
		return
	}

	body, err := p.snaps.Load(job.SnapshotPath)
	if err != nil {
		logger.Error("Failed to load snapshot", "path", job.SnapshotPath, "error", err)
		return
	}

	rows := a.Parse(body, job.Sport, job.FetchedAt)
	if len(rows) == 0 {
		logger.Warn("Adapter yielded no predictions", "bytes", len(body))
		return
	}

	var inserted, duplicates, dropped int
	touchedSports := map[string]bool{}
	for i := range rows {
		ok, err := p.norm.Normalize(ctx, &rows[i])
		if err != nil {
			logger.Debug("Failed to normalize prediction",
				"home", rows[i].HomeTeamRaw, "away", rows[i].AwayTeamRaw, "error", err)
			dropped++
			continue
		}
		if !ok {
			duplicates++
			continue
		}
		inserted++
		touchedSports[rows[i].Sport] = true
	}

	logger.Info("Parsed snapshot",
		"parsed", len(rows), "inserted", inserted, "duplicates", duplicates, "dropped", dropped)

	// New rows make cached scored responses stale.
	for _, pattern := range invalidationPatterns(touchedSports) {
		if n, err := p.kv.DeleteByPattern(ctx, pattern); err != nil {
			logger.Warn("Failed to invalidate scored cache", "pattern", pattern, "error", err)
		} else if n > 0 {
			logger.Debug("Invalidated scored cache", "pattern", pattern, "keys", n)
		}
	}
}

// invalidationPatterns lists the scored-cache patterns made stale by inserts
// into the given sports. The unfiltered API views are cached under the "all"
// pseudo-sport, so any insert also invalidates those keys.
func invalidationPatterns(touched map[string]bool) []string {
	if len(touched) == 0 {
		return nil
	}
	sports := make([]string, 0, len(touched))
	for sport := range touched {
		sports = append(sports, sport)
	}
	sort.Strings(sports)

	patterns := make([]string, 0, len(sports)+1)
	for _, sport := range sports {
		patterns = append(patterns, scoring.CachePattern(sport))
	}
	return append(patterns, scoring.CachePattern("all"))
}
