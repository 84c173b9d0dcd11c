package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// Actions is a post-navigation callback run inside the rendered page (wait for
// selector, scroll, inject JS). Errors from actions are swallowed by the
// renderer: parsing proceeds on whatever HTML was captured.
type Actions func(ctx context.Context) error

// Renderer renders a URL in a headless browser and returns the final HTML.
// A test implementation returns fixed HTML.
type Renderer interface {
	Render(ctx context.Context, url string, actions Actions) (string, error)
	Close()
}

// BrowserRenderer is a chromedp-backed Renderer with a bounded pool of browser
// contexts. Each render gets its own tab context, so a page crash is isolated
// to the one job.
type BrowserRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	slots       chan struct{}
	userAgent   string
	chromeDir   string
}

func NewBrowserRenderer(userAgent string, contexts int) (*BrowserRenderer, error) {
	if contexts <= 0 {
		contexts = 2
	}

	chromeDir, err := os.MkdirTemp("", "tipline_chrome_")
	if err != nil {
		return nil, fmt.Errorf("create chrome temp dir: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserDataDir(chromeDir),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	slots := make(chan struct{}, contexts)
	for i := 0; i < contexts; i++ {
		slots <- struct{}{}
	}

	return &BrowserRenderer{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		slots:       slots,
		userAgent:   userAgent,
		chromeDir:   chromeDir,
	}, nil
}

// Render leases a browser slot, navigates, runs the optional actions and
// returns the fully rendered HTML.
func (r *BrowserRenderer) Render(ctx context.Context, url string, actions Actions) (string, error) {
	select {
	case <-r.slots:
	case <-ctx.Done():
		return "", fmt.Errorf("%w: waiting for browser slot", ErrTimeout)
	}
	defer func() { r.slots <- struct{}{} }()

	tabCtx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		tabCtx, cancel = context.WithDeadline(tabCtx, deadline)
		defer cancel()
	}

	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		if tabCtx.Err() != nil {
			return "", fmt.Errorf("%w: browser navigate %s", ErrTimeout, url)
		}
		return "", fmt.Errorf("%w: browser navigate: %v", ErrNetwork, err)
	}

	if actions != nil {
		if err := actions(tabCtx); err != nil {
			// Selector-wait timeouts are expected on slow pages; capture what we have.
			slog.Debug("Browser actions failed, proceeding with captured HTML", "url", url, "error", err)
		}
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("%w: browser capture: %v", ErrNetwork, err)
	}
	return html, nil
}

func (r *BrowserRenderer) Close() {
	r.allocCancel()
	os.RemoveAll(r.chromeDir)
}

// WaitVisible returns an action that waits for a CSS selector with its own
// timeout, independent of the page deadline.
func WaitVisible(selector string, timeout time.Duration) Actions {
	return func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	}
}

// ScrollToBottom returns an action that scrolls the page to trigger lazy loads.
func ScrollToBottom(settle time.Duration) Actions {
	return func(ctx context.Context) error {
		return chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(settle),
		)
	}
}

// Chain runs actions in order, continuing past failures.
func Chain(actions ...Actions) Actions {
	return func(ctx context.Context) error {
		var lastErr error
		for _, a := range actions {
			if err := a(ctx); err != nil {
				lastErr = err
			}
		}
		return lastErr
	}
}
