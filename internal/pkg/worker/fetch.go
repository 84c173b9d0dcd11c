// Package worker runs the fetch and parse stages of the pipeline, consuming
// the durable queues.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tipline/tipline/internal/pkg/adapters"
	"github.com/tipline/tipline/internal/pkg/fetch"
	"github.com/tipline/tipline/internal/pkg/models"
	"github.com/tipline/tipline/internal/pkg/queue"
	"github.com/tipline/tipline/internal/pkg/ratelimit"
	"github.com/tipline/tipline/internal/pkg/robots"
	"github.com/tipline/tipline/internal/pkg/snapshot"
)

const dequeueTimeout = 5 * time.Second

// SourceStore is the persistence slice the fetch stage needs.
type SourceStore interface {
	UpdateSourceLastFetched(ctx context.Context, slug string, at time.Time) error
}

// Fetcher runs N goroutines consuming fetch jobs: robots check, rate limit,
// fetch, snapshot to disk, then hand off to the parse queue. Index pages with
// a DiscoverURLs hook fan out into sub-URL fetch jobs instead of parse jobs.
type Fetcher struct {
	fetchQ   *queue.Queue
	parseQ   *queue.Queue
	http     *fetch.HTTPFetcher
	renderer fetch.Renderer
	robots   *robots.Checker
	limits   *ratelimit.PerSource
	snaps    *snapshot.Store
	store    SourceStore
	enabled  map[string]*adapters.Adapter
	logger   *slog.Logger
}

func NewFetcher(
	fetchQ, parseQ *queue.Queue,
	httpFetcher *fetch.HTTPFetcher,
	renderer fetch.Renderer,
	robotsChecker *robots.Checker,
	limits *ratelimit.PerSource,
	snaps *snapshot.Store,
	store SourceStore,
	enabled []*adapters.Adapter,
	logger *slog.Logger,
) *Fetcher {
	byID := make(map[string]*adapters.Adapter, len(enabled))
	for _, a := range enabled {
		byID[a.Config.ID] = a
	}
	return &Fetcher{
		fetchQ:   fetchQ,
		parseQ:   parseQ,
		http:     httpFetcher,
		renderer: renderer,
		robots:   robotsChecker,
		limits:   limits,
		snaps:    snaps,
		store:    store,
		enabled:  byID,
		logger:   logger,
	}
}

// Run blocks until ctx ends, consuming with `workers` goroutines.
func (f *Fetcher) Run(ctx context.Context, workers int) {
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.loop(ctx)
		}()
	}
	wg.Wait()
}

func (f *Fetcher) loop(ctx context.Context) {
	for ctx.Err() == nil {
		var job queue.FetchJob
		ok, err := f.fetchQ.Dequeue(ctx, &job, dequeueTimeout)
		if err != nil {
			if ctx.Err() == nil {
				f.logger.Error("Fetch dequeue failed", "error", err)
				time.Sleep(time.Second)
			}
			continue
		}
		if !ok {
			continue
		}
		f.process(ctx, job)
	}
}

func (f *Fetcher) process(ctx context.Context, job queue.FetchJob) {
	logger := f.logger.With("adapter", job.AdapterID, "sport", job.Sport, "url", job.URL)

	a, ok := f.enabled[job.AdapterID]
	if !ok {
		logger.Warn("Dropping job for unknown or disabled adapter")
		return
	}
	if !job.Deadline.IsZero() && time.Now().After(job.Deadline) {
		logger.Warn("Dropping stale fetch job", "deadline", job.Deadline)
		return
	}

	allowed, err := f.robots.Allowed(ctx, job.URL)
	if err != nil {
		logger.Warn("Robots check failed, proceeding", "error", err)
	}
	if !allowed {
		// Disallowed is a terminal success: no fetch, no retry.
		logger.Info("Skipping robots-disallowed URL")
		return
	}

	if err := f.limits.Acquire(ctx, job.AdapterID, a.Config.RateLimit); err != nil {
		return // ctx cancelled while waiting
	}

	fetchedAt := time.Now().UTC()
	body, status, err := f.fetch(ctx, a, job.URL)
	if err != nil {
		f.handleFetchError(ctx, a, job, err, logger)
		return
	}

	path, err := f.snaps.Save(models.SnapshotMeta{
		SourceSlug:  job.AdapterID,
		Sport:       job.Sport,
		URL:         job.URL,
		FetchMethod: a.Config.FetchMethod,
		HTTPStatus:  status,
		FetchedAt:   fetchedAt,
	}, body)
	if err != nil {
		logger.Error("Failed to store snapshot", "error", err)
		return
	}

	if err := f.store.UpdateSourceLastFetched(ctx, job.AdapterID, fetchedAt); err != nil {
		logger.Warn("Failed to record last fetch time", "error", err)
	}

	// Two-stage sources: fan the index page out into article fetches. The
	// index still goes to parse; some landing pages carry picks directly.
	if a.DiscoverURLs != nil && !job.IsSubURL {
		urls := a.DiscoverURLs(body, job.Sport)
		logger.Info("Discovered article URLs", "count", len(urls))
		for _, u := range urls {
			sub := queue.NewFetchJob(job.AdapterID, job.Sport, job.Path, u)
			sub.IsSubURL = true
			sub.Deadline = job.Deadline
			if err := f.fetchQ.Enqueue(ctx, sub); err != nil {
				logger.Error("Failed to enqueue sub-URL fetch", "sub_url", u, "error", err)
			}
		}
	}

	parseJob := queue.ParseJob{
		ID:           job.ID,
		AdapterID:    job.AdapterID,
		Sport:        job.Sport,
		URL:          job.URL,
		SnapshotPath: path,
		FetchedAt:    fetchedAt,
	}
	if err := f.parseQ.Enqueue(ctx, parseJob); err != nil {
		logger.Error("Failed to enqueue parse job", "error", err)
		return
	}
	logger.Info("Fetched and snapshotted", "status", status, "bytes", len(body))
}

func (f *Fetcher) fetch(ctx context.Context, a *adapters.Adapter, url string) ([]byte, int, error) {
	timeout := a.Config.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if a.Config.FetchMethod == models.FetchBrowser {
		html, err := f.renderer.Render(fctx, url, a.BrowserActions)
		if err != nil {
			return nil, 0, err
		}
		return []byte(html), 200, nil
	}
	return f.http.Fetch(fctx, url)
}

func (f *Fetcher) handleFetchError(ctx context.Context, a *adapters.Adapter, job queue.FetchJob, err error, logger *slog.Logger) {
	if !fetch.Retryable(err) {
		logger.Error("Fetch failed permanently", "error", err, "attempt", job.Attempt)
		return
	}
	if job.Attempt >= a.Config.MaxRetries {
		logger.Error("Fetch failed, retries exhausted", "error", err, "attempt", job.Attempt)
		return
	}

	delay := a.RetryDelay(job.Attempt)
	job.Attempt++
	if err2 := f.fetchQ.EnqueueAt(ctx, job, time.Now().Add(delay)); err2 != nil {
		logger.Error("Failed to schedule retry", "error", err2)
		return
	}
	logger.Warn("Fetch failed, retry scheduled", "error", err, "attempt", job.Attempt, "delay", delay)
}
