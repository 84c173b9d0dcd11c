// Package scheduler fires cron-driven fetch jobs onto the durable queue.
// Multiple pipeline replicas may run; a redis lease elects one enqueuer.
package scheduler

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tipline/tipline/internal/pkg/adapters"
	"github.com/tipline/tipline/internal/pkg/config"
	"github.com/tipline/tipline/internal/pkg/queue"
	"github.com/tipline/tipline/internal/pkg/storage"
)

// Fetch jobs not picked up within this window are dropped by the worker; a
// fresher scheduled fetch of the same page has superseded them by then.
const fetchJobTTL = 30 * time.Minute

type Scheduler struct {
	cfg      *config.SchedulerConfig
	kv       *storage.KV
	fetchQ   *queue.Queue
	adapters []*adapters.Adapter
	logger   *slog.Logger

	cron     *cron.Cron
	holder   string
	isLeader atomic.Bool
}

func New(cfg *config.SchedulerConfig, kv *storage.KV, fetchQ *queue.Queue, ads []*adapters.Adapter, logger *slog.Logger) *Scheduler {
	host, _ := os.Hostname()
	return &Scheduler{
		cfg:      cfg,
		kv:       kv,
		fetchQ:   fetchQ,
		adapters: ads,
		logger:   logger,
		cron:     cron.New(cron.WithSeconds()),
		holder:   host + "-" + time.Now().Format("150405"),
	}
}

// Start registers every adapter's cron entry and begins the leadership loop.
// Entries fire on all replicas but only the lease holder enqueues.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, a := range s.adapters {
		a := a
		_, err := s.cron.AddFunc(a.Config.Cron, func() {
			s.fire(ctx, a)
		})
		if err != nil {
			return err
		}
		s.logger.Info("Scheduled adapter", "adapter", a.Config.ID, "cron", a.Config.Cron)
	}

	go s.leaseLoop(ctx)
	s.cron.Start()

	go func() {
		<-ctx.Done()
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
	}()
	return nil
}

func (s *Scheduler) fire(ctx context.Context, a *adapters.Adapter) {
	if !s.isLeader.Load() {
		return
	}
	for sport, path := range a.Config.Paths {
		url, ok := a.URLFor(sport)
		if !ok {
			continue
		}
		job := newFetchJob(a.Config.ID, sport, path, url, time.Now())
		if err := s.fetchQ.Enqueue(ctx, job); err != nil {
			s.logger.Error("Failed to enqueue fetch job",
				"adapter", a.Config.ID, "sport", sport, "error", err)
			continue
		}
		s.logger.Info("Enqueued fetch job", "adapter", a.Config.ID, "sport", sport, "url", url)
	}
}

func newFetchJob(adapterID, sport, path, url string, now time.Time) queue.FetchJob {
	job := queue.NewFetchJob(adapterID, sport, path, url)
	job.Deadline = now.Add(fetchJobTTL)
	return job
}

// leaseLoop renews (or tries to take) the leadership lease at a third of its
// TTL, so a crashed leader is replaced within one TTL.
func (s *Scheduler) leaseLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.LeaseTTL / 3)
	defer ticker.Stop()

	s.tryLease(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tryLease(ctx)
		}
	}
}

func (s *Scheduler) tryLease(ctx context.Context) {
	ok, err := s.kv.AcquireLease(ctx, s.cfg.LeaseKey, s.holder, s.cfg.LeaseTTL)
	if err != nil {
		s.logger.Warn("Lease acquisition failed", "error", err)
		s.isLeader.Store(false)
		return
	}
	if ok && !s.isLeader.Load() {
		s.logger.Info("Acquired scheduler leadership", "holder", s.holder)
	}
	if !ok && s.isLeader.Load() {
		s.logger.Info("Lost scheduler leadership", "holder", s.holder)
	}
	s.isLeader.Store(ok)
}
