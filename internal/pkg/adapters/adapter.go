package adapters

import (
	"time"

	"github.com/tipline/tipline/internal/pkg/fetch"
	"github.com/tipline/tipline/internal/pkg/models"
)

// Backoff describes the retry policy for a source.
type Backoff struct {
	Type  string        // "exponential"
	Delay time.Duration // base delay, doubled per attempt
}

// Config is the static description of one tipster source.
type Config struct {
	ID          string
	Name        string
	BaseURL     string
	FetchMethod string            // models.FetchHTTP or models.FetchBrowser
	Paths       map[string]string // sport → URL path
	Cron        string            // 6-field cron expression, seconds precision
	RateLimit   time.Duration     // min gap between fetches of this source
	MaxRetries  int
	Backoff     Backoff
	Timeout     time.Duration // per-fetch deadline; 0 = fetcher default
}

// An Adapter turns one site's pages into RawPredictions. It is a tagged record:
// config plus closures, no interface hierarchy. Adapters must be pure with
// respect to the input bytes and tolerant of partial DOM — emit fewer rows
// rather than raise. Invalid rows are silently dropped.
type Adapter struct {
	Config Config

	// DiscoverURLs extracts article sub-URLs from an index page. Nil for
	// single-stage sources.
	DiscoverURLs func(body []byte, sport string) []string

	// Parse extracts predictions from fetched bytes (HTML or JSON).
	Parse func(body []byte, sport string, fetchedAt time.Time) []models.RawPrediction

	// BrowserActions runs in the rendered page before capture, when
	// FetchMethod is browser. Must never abort capture; timeouts are
	// swallowed by the renderer.
	BrowserActions fetch.Actions
}

// URLFor joins the base URL with the configured path for a sport.
func (a *Adapter) URLFor(sport string) (string, bool) {
	path, ok := a.Config.Paths[sport]
	if !ok {
		return "", false
	}
	return a.Config.BaseURL + path, true
}

// RetryDelay returns the backoff delay before the given attempt (0-based).
func (a *Adapter) RetryDelay(attempt int) time.Duration {
	delay := a.Config.Backoff.Delay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return delay * (1 << attempt)
}
