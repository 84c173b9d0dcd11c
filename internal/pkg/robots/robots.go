package robots

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

const cacheTTL = 6 * time.Hour

// Checker fetches and caches robots.txt per base URL. A fetch failure is
// treated as allow-all: robots gating must not take the pipeline down.
type Checker struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
}

func NewChecker(userAgent string, timeout time.Duration) *Checker {
	return &Checker{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		cache:     make(map[string]cacheEntry),
	}
}

// Allowed reports whether the given URL path may be fetched for our agent.
func (c *Checker) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("failed to parse url: %w", err)
	}
	base := u.Scheme + "://" + u.Host

	data, err := c.robotsFor(ctx, base)
	if err != nil {
		slog.Debug("robots.txt unavailable, allowing fetch", "base", base, "error", err)
		return true, nil
	}
	if data == nil {
		return true, nil
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, c.userAgent), nil
}

func (c *Checker) robotsFor(ctx context.Context, base string) (*robotstxt.RobotsData, error) {
	c.mu.Lock()
	entry, ok := c.cache[base]
	c.mu.Unlock()
	if ok && time.Since(entry.fetchedAt) < cacheTTL {
		return entry.data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/robots.txt", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil, err
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[base] = cacheEntry{data: data, fetchedAt: time.Now()}
	c.mu.Unlock()
	return data, nil
}
