package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAcquireSpacesFetches(t *testing.T) {
	p := NewPerSource()
	ctx := context.Background()
	gap := 50 * time.Millisecond

	// First token is free.
	start := time.Now()
	if err := p.Acquire(ctx, "covers", gap); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > gap {
		t.Fatalf("first acquire blocked for %v", elapsed)
	}

	// The next two must each wait out the gap.
	start = time.Now()
	for i := 0; i < 2; i++ {
		if err := p.Acquire(ctx, "covers", gap); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 2*gap-10*time.Millisecond {
		t.Fatalf("two follow-up acquires took %v, want about %v", elapsed, 2*gap)
	}
}

func TestAcquireIndependentSources(t *testing.T) {
	p := NewPerSource()
	ctx := context.Background()
	gap := time.Hour

	if err := p.Acquire(ctx, "covers", gap); err != nil {
		t.Fatal(err)
	}

	// A different source has its own bucket and must not wait.
	done := make(chan error, 1)
	go func() { done <- p.Acquire(ctx, "pickswise", gap) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("acquire for an unrelated source blocked")
	}
}

func TestAcquireZeroGap(t *testing.T) {
	p := NewPerSource()
	for i := 0; i < 100; i++ {
		if err := p.Acquire(context.Background(), "covers", 0); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAcquireHonorsCancellation(t *testing.T) {
	p := NewPerSource()
	if err := p.Acquire(context.Background(), "covers", time.Hour); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Acquire(ctx, "covers", time.Hour); err == nil {
		t.Fatal("expected context error while waiting for the bucket")
	}
}
