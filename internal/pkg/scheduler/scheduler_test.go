package scheduler

import (
	"testing"
	"time"

	"github.com/tipline/tipline/internal/pkg/models"
)

func TestNewFetchJobCarriesDeadline(t *testing.T) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	job := newFetchJob("covers", models.SportBasketball, "/picks/nba", "https://www.covers.example/picks/nba", now)

	if job.Deadline.IsZero() {
		t.Fatal("scheduled fetch jobs must carry a drop deadline")
	}
	if got, want := job.Deadline, now.Add(fetchJobTTL); !got.Equal(want) {
		t.Fatalf("deadline = %v, want %v", got, want)
	}
	if job.ID == "" || job.AdapterID != "covers" || job.Sport != models.SportBasketball {
		t.Fatalf("bad job: %+v", job)
	}
	if job.IsSubURL || job.Attempt != 0 {
		t.Fatalf("fresh job must start clean: %+v", job)
	}
}
