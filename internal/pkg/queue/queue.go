package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Queue is a durable work queue on a redis list, with a sorted-set side
// channel for delayed (retry backoff) jobs. Jobs survive process restart.
type Queue struct {
	client *redis.Client
	name   string
}

func New(client *redis.Client, name string) *Queue {
	return &Queue{client: client, name: "tipline:queue:" + name}
}

func (q *Queue) delayedKey() string { return q.name + ":delayed" }

// Enqueue pushes a job for immediate consumption.
func (q *Queue) Enqueue(ctx context.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// EnqueueAt schedules a job to become consumable at a future time.
func (q *Queue) EnqueueAt(ctx context.Context, payload any, at time.Time) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	err = q.client.ZAdd(ctx, q.delayedKey(), redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: data,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to schedule delayed job: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next job and unmarshals it into dest.
// Returns false when the timeout elapsed with no job.
func (q *Queue) Dequeue(ctx context.Context, dest any, timeout time.Duration) (bool, error) {
	res, err := q.client.BRPop(ctx, timeout, q.name).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to dequeue: %w", err)
	}
	// BRPop returns [key, value]
	if err := json.Unmarshal([]byte(res[1]), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return true, nil
}

// PumpDelayed moves due delayed jobs onto the main list. Run it periodically
// from one goroutine per process; the ZRem guard makes concurrent pumps safe.
func (q *Queue) PumpDelayed(ctx context.Context) error {
	now := float64(time.Now().UnixMilli())
	members, err := q.client.ZRangeByScore(ctx, q.delayedKey(), &redis.ZRangeBy{
		Min: "-inf", Max: fmt.Sprintf("%f", now), Count: 100,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to read delayed jobs: %w", err)
	}
	for _, m := range members {
		removed, err := q.client.ZRem(ctx, q.delayedKey(), m).Result()
		if err != nil {
			return fmt.Errorf("failed to claim delayed job: %w", err)
		}
		if removed == 0 {
			continue // another pump claimed it
		}
		if err := q.client.LPush(ctx, q.name, m).Err(); err != nil {
			return fmt.Errorf("failed to move delayed job: %w", err)
		}
	}
	return nil
}

// StartDelayedPump runs PumpDelayed on an interval until the context ends.
func (q *Queue) StartDelayedPump(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := q.PumpDelayed(ctx); err != nil && ctx.Err() == nil {
					slog.Warn("Delayed job pump failed", "queue", q.name, "error", err)
				}
			}
		}
	}()
}

// Len returns the number of immediately consumable jobs.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.name).Result()
}

// FetchJob is one scheduled page fetch.
type FetchJob struct {
	ID        string    `json:"id"`
	AdapterID string    `json:"adapter_id"`
	Sport     string    `json:"sport"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	IsSubURL  bool      `json:"is_sub_url,omitempty"`
	Attempt   int       `json:"attempt,omitempty"`
	Deadline  time.Time `json:"deadline,omitempty"`
}

// ParseJob hands a stored snapshot to the parse stage.
type ParseJob struct {
	ID           string    `json:"id"`
	AdapterID    string    `json:"adapter_id"`
	Sport        string    `json:"sport"`
	URL          string    `json:"url"`
	SnapshotPath string    `json:"snapshot_path"`
	FetchedAt    time.Time `json:"fetched_at"`
}

func NewFetchJob(adapterID, sport, path, url string) FetchJob {
	return FetchJob{
		ID:        uuid.NewString(),
		AdapterID: adapterID,
		Sport:     sport,
		Path:      path,
		URL:       url,
	}
}
