package fetcher

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/fitcrawl/fitcrawl/model"
)

// Renderer fetches pages through a headless Chrome so content that only
// materializes after JavaScript runs is visible to the extractor. It
// satisfies Fetcher, so the controller treats rendered and plain fetches
// identically; rendering fidelity itself is Chrome's problem, not ours.
//
// A Renderer owns one browser process; each Fetch opens a fresh tab, so
// concurrent workers can share a single Renderer.
type Renderer struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
	timeout    time.Duration
	waitAfter  time.Duration
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithRenderTimeout bounds each page render, navigation included.
func WithRenderTimeout(d time.Duration) RendererOption {
	return func(r *Renderer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithWaitAfterLoad adds a fixed pause after the page reports ready, for
// sites that keep populating the DOM after the load event.
func WithWaitAfterLoad(d time.Duration) RendererOption {
	return func(r *Renderer) {
		if d > 0 {
			r.waitAfter = d
		}
	}
}

// NewRenderer starts a headless browser. Callers must Close it when done.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(r)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	r.browserCtx = browserCtx
	r.cancels = []context.CancelFunc{browserCancel, allocCancel}
	return r
}

// Fetch renders one URL in a new tab and returns the post-JavaScript HTML.
// The status code is reported as 200 because the DevTools protocol does not
// surface it on the navigation action; pages that fail to render return a
// classified *Error like the plain client.
func (r *Renderer) Fetch(ctx context.Context, url string) (*model.RawPage, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()

	timeoutCtx, cancelTimeout := context.WithTimeout(tabCtx, r.timeout)
	defer cancelTimeout()

	// Tie the tab to the caller's cancellation as well.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	tasks := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if r.waitAfter > 0 {
		tasks = append(tasks, chromedp.Sleep(r.waitAfter))
	}

	var pageHTML, finalURL string
	tasks = append(tasks,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &pageHTML),
	)

	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		kind := KindNetwork
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			kind = KindTimeout
		}
		return nil, &Error{URL: url, Kind: kind, Err: err}
	}

	if finalURL == "" {
		finalURL = url
	}

	return &model.RawPage{
		URL:         url,
		FinalURL:    finalURL,
		StatusCode:  200,
		ContentType: "text/html",
		Body:        []byte(pageHTML),
		FetchedAt:   time.Now(),
	}, nil
}

// Close shuts down the browser process.
func (r *Renderer) Close() {
	for _, cancel := range r.cancels {
		cancel()
	}
}
