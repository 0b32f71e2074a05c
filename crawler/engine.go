package crawler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fitcrawl/fitcrawl/config"
	"github.com/fitcrawl/fitcrawl/extractor"
	"github.com/fitcrawl/fitcrawl/fetcher"
	"github.com/fitcrawl/fitcrawl/filter"
	"github.com/fitcrawl/fitcrawl/logging"
	"github.com/fitcrawl/fitcrawl/model"
	"github.com/fitcrawl/fitcrawl/render"
	"github.com/fitcrawl/fitcrawl/sitemap"
)

// State describes where a run is in its lifecycle. Transitions are strictly
// Idle -> Running -> Completed or Aborted; a finished engine can start a new
// run, which moves it back through Running.
type State string

const (
	// StateIdle means no run has started or the previous one finished.
	StateIdle State = "idle"

	// StateRunning means a run is in progress.
	StateRunning State = "running"

	// StateCompleted means the last run drained its frontier or exhausted
	// its page budget normally.
	StateCompleted State = "completed"

	// StateAborted means the last run was cut short by context
	// cancellation. Results collected before the abort remain valid.
	StateAborted State = "aborted"
)

// ErrAlreadyRunning is returned when a run is started on an engine that is
// still executing a previous run.
var ErrAlreadyRunning = errors.New("crawler: a run is already in progress")

// Report summarizes one traversal run.
type Report struct {
	// Seed is the URL the run started from.
	Seed string

	// State is the run's terminal state, Completed or Aborted.
	State State

	// Results holds one entry per processed page, in completion order.
	Results []*model.CrawlResult

	// Started and Finished bound the run in wall-clock time.
	Started  time.Time
	Finished time.Time
}

// Engine executes crawl runs. One engine can be reused across runs, but
// only one run may be active at a time.
//
// Design decision: We call it "Engine" rather than "Crawler" because:
//  1. Distinguishes the component from the package name
//  2. Clearer in code: crawler.New() returning an Engine
//  3. It drives more than crawling: filtering and rendering included
type Engine struct {
	cfg       *config.Config
	fetch     fetcher.Fetcher
	resolver  *sitemap.Resolver
	extract   *extractor.Extractor
	density   *filter.Density
	relevance *filter.Relevance
	hosts     *hostPolicy
	logger    *slog.Logger

	mu    sync.Mutex
	state State
}

// Option configures an Engine.
type Option func(*Engine)

// WithFetcher replaces the default HTTP fetcher. Pass a fetcher.Renderer to
// crawl JavaScript-rendered pages, or a stub in tests.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(e *Engine) {
		e.fetch = f
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithSitemapResolver replaces the default sitemap resolver.
func WithSitemapResolver(r *sitemap.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// New creates an Engine for the given configuration. A nil config uses the
// defaults. An invalid config is the one fatal error class: it is returned
// here, before any request is made.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		extract:   extractor.New(),
		density:   filter.NewDensity(cfg.PruningThreshold, filter.Mode(cfg.PruningMode), cfg.MinWordThreshold),
		relevance: filter.NewRelevance(cfg.Query, cfg.QueryThreshold),
		hosts:     newHostPolicy(cfg),
		state:     StateIdle,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.New(os.Stderr, false)
	}
	if e.fetch == nil {
		e.fetch = fetcher.NewClient(
			fetcher.WithTimeout(cfg.RequestTimeout),
			fetcher.WithMaxBodySize(cfg.MaxBodySize),
			fetcher.WithUserAgent(cfg.UserAgent),
			fetcher.WithHeaders(cfg.Headers),
		)
	}
	if e.resolver == nil {
		e.resolver = sitemap.NewResolver(
			sitemap.WithTimeout(cfg.RequestTimeout),
			sitemap.WithUserAgent(cfg.UserAgent),
			sitemap.WithLogger(e.logger),
		)
	}

	return e, nil
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// begin transitions the engine to Running, rejecting concurrent runs.
func (e *Engine) begin() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning {
		return ErrAlreadyRunning
	}
	e.state = StateRunning
	return nil
}

// finish records the run's terminal state.
func (e *Engine) finish(aborted bool) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if aborted {
		e.state = StateAborted
	} else {
		e.state = StateCompleted
	}
	return e.state
}

// RunSingle processes one page and returns its result. The only error
// returns are an unusable seed URL and a busy engine; fetch and extraction
// failures are reported on the result itself.
func (e *Engine) RunSingle(ctx context.Context, seedURL string) (*model.CrawlResult, error) {
	target, err := model.NewTarget(seedURL, 0)
	if err != nil {
		return nil, err
	}
	if err := e.begin(); err != nil {
		return nil, err
	}

	res := e.processPage(ctx, target)
	e.finish(ctx.Err() != nil)
	return res, nil
}

// RunBatch processes a list of URLs independently at depth 0, up to
// Concurrency at a time. Results come back in input order. An entry that
// fails, including one that is not even a valid URL, yields a failed
// result in its slot rather than stopping the batch.
func (e *Engine) RunBatch(ctx context.Context, urls []string) ([]*model.CrawlResult, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}

	e.logger.Info("starting batch run", "total_urls", len(urls), "concurrency", e.cfg.Concurrency)

	// Pre-allocated so each goroutine writes only its own slot.
	results := make([]*model.CrawlResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	for i, raw := range urls {
		i, raw := i, raw
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			target, err := model.NewTarget(raw, 0)
			if err != nil {
				results[i] = &model.CrawlResult{
					URL:          raw,
					Status:       model.StatusFailed,
					Reason:       "invalid url",
					ErrorMessage: err.Error(),
				}
				return nil
			}

			results[i] = e.processPage(gctx, target)
			return nil
		})
	}

	err := g.Wait()
	e.finish(err != nil)

	// Drop slots never reached before an abort.
	out := make([]*model.CrawlResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, err
}

// RunDeepCrawl traverses the link graph from a seed URL, honoring the
// configured depth and page budget, and returns a report with every
// processed page. Cancellation aborts the run; the report then carries the
// partial results alongside the context's error.
func (e *Engine) RunDeepCrawl(ctx context.Context, seedURL string) (*Report, error) {
	return e.RunDeepCrawlWithCallback(ctx, seedURL, nil)
}

// RunDeepCrawlWithCallback is RunDeepCrawl with a per-page callback,
// invoked from the coordinator as each result completes. This is useful
// for streaming results from long crawls. The callback runs on the
// coordinator goroutine, so it must not block for long.
func (e *Engine) RunDeepCrawlWithCallback(ctx context.Context, seedURL string, callback func(*model.CrawlResult)) (*Report, error) {
	seed, err := model.NewTarget(seedURL, 0)
	if err != nil {
		return nil, err
	}
	if err := e.begin(); err != nil {
		return nil, err
	}

	report := &Report{Seed: seedURL, Started: time.Now()}
	seedHost := model.Host(seedURL)

	f := newFrontier(e.cfg.BreadthFirst)
	f.Admit(seed)

	e.logger.Info("starting deep crawl",
		"seed", seedURL,
		"max_depth", e.cfg.MaxDepth,
		"max_pages", e.cfg.MaxPages,
		"breadth_first", e.cfg.BreadthFirst,
	)

	jobs := make(chan model.CrawlTarget)
	outcomes := make(chan *model.CrawlResult)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < e.cfg.Concurrency; i++ {
		g.Go(func() error {
			for t := range jobs {
				select {
				case outcomes <- e.processPage(gctx, t):
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	// collect records one finished page and feeds its links back into the
	// frontier. Only the coordinator calls it, so the frontier stays
	// single-owner.
	collect := func(res *model.CrawlResult, expand bool) {
		report.Results = append(report.Results, res)
		if callback != nil {
			callback(res)
		}
		if !expand || !res.Succeeded() || res.Depth >= e.cfg.MaxDepth {
			return
		}

		batch := make([]model.CrawlTarget, 0, len(res.Links))
		for _, link := range res.Links {
			t, err := model.NewTarget(link, res.Depth+1)
			if err != nil {
				continue
			}
			if !e.cfg.IncludeExternal && model.Host(t.URL) != seedHost {
				continue
			}
			batch = append(batch, t)
		}
		f.AdmitBatch(batch)
	}

	var (
		dispatched int
		inflight   int
		aborted    bool
	)

coordinate:
	for {
		if ctx.Err() != nil {
			aborted = true
			break
		}

		var (
			jobCh chan model.CrawlTarget
			next  model.CrawlTarget
		)
		if dispatched < e.cfg.MaxPages {
			if t, ok := f.Peek(); ok {
				next, jobCh = t, jobs
			}
		}
		if jobCh == nil && inflight == 0 {
			break
		}

		select {
		case jobCh <- next:
			f.Pop()
			dispatched++
			inflight++
		case res := <-outcomes:
			inflight--
			collect(res, true)
		case <-ctx.Done():
			aborted = true
			break coordinate
		}
	}

	close(jobs)

	// Workers still mid-page at shutdown finish or bail on the cancelled
	// context; drain their outcomes so partial results are not lost.
	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	for {
		select {
		case res := <-outcomes:
			collect(res, false)
			continue
		case <-done:
		}
		break
	}

	report.Finished = time.Now()
	report.State = e.finish(aborted)

	e.logger.Info("deep crawl finished",
		"seed", seedURL,
		"state", string(report.State),
		"pages", len(report.Results),
		"elapsed", report.Finished.Sub(report.Started),
	)

	if aborted {
		return report, ctx.Err()
	}
	return report, nil
}

// RunSitemapCrawl resolves the site's sitemaps and batch-processes the
// advertised pages at depth 0, truncated to the page budget. When no
// sitemap can be found the root URL itself is crawled, so the run always
// yields at least one result.
func (e *Engine) RunSitemapCrawl(ctx context.Context, rootURL string) ([]*model.CrawlResult, error) {
	urls, err := e.resolver.Resolve(ctx, rootURL)
	if err != nil {
		return nil, err
	}

	if len(urls) == 0 {
		e.logger.Warn("no sitemap URLs resolved, crawling root only", "root", rootURL)
		urls = []string{rootURL}
	}
	if len(urls) > e.cfg.MaxPages {
		e.logger.Info("sitemap exceeds page budget, truncating",
			"advertised", len(urls),
			"budget", e.cfg.MaxPages,
		)
		urls = urls[:e.cfg.MaxPages]
	}

	return e.RunBatch(ctx, urls)
}

// processPage runs one target through the full pipeline: politeness wait,
// fetch, extraction, both render passes. Every failure mode maps to a
// result status; this function never returns an error because page-local
// problems must not abort the run.
func (e *Engine) processPage(ctx context.Context, t model.CrawlTarget) *model.CrawlResult {
	res := &model.CrawlResult{URL: t.URL, Depth: t.Depth}
	host := model.Host(t.URL)

	if err := e.hosts.Acquire(ctx, host); err != nil {
		res.Status = model.StatusFailed
		res.Reason = "aborted"
		res.ErrorMessage = err.Error()
		return res
	}

	page, err := e.fetch.Fetch(ctx, t.URL)
	if err != nil {
		e.hosts.RecordFailure(host)
		res.Status = model.StatusFailed
		res.Reason = failureReason(err)
		res.ErrorMessage = err.Error()
		e.logger.Warn("fetch failed", "url", t.URL, "depth", t.Depth, "reason", res.Reason)
		return res
	}
	e.hosts.RecordSuccess(host)

	res.FinalURL = page.FinalURL
	res.FetchedAt = page.FetchedAt

	if !page.IsHTML() {
		res.Status = model.StatusSkipped
		res.Reason = "non-html"
		e.logger.Debug("page skipped", "url", t.URL, "content_type", page.ContentType)
		return res
	}

	doc, err := e.extract.Extract(page)
	if err != nil {
		res.Status = model.StatusFailed
		res.Reason = failureReason(err)
		res.ErrorMessage = err.Error()
		return res
	}

	res.Title = doc.Title
	res.Links = doc.Links

	res.RawMarkdown, err = render.Markdown(doc)
	if err != nil {
		res.Status = model.StatusFailed
		res.Reason = "render"
		res.ErrorMessage = err.Error()
		return res
	}

	fit := e.relevance.Filter(e.density.Prune(doc))
	res.FitMarkdown, err = render.Markdown(fit)
	if err != nil {
		res.Status = model.StatusFailed
		res.Reason = "render"
		res.ErrorMessage = err.Error()
		return res
	}

	if len(fit.Blocks) == 0 {
		e.logger.Debug("page yielded no fit content", "url", t.URL, "raw_blocks", len(doc.Blocks))
	}

	res.Status = model.StatusSuccess
	return res
}

// failureReason maps a pipeline error to the short reason recorded on the
// result. The reason is stable and machine-readable; the full error text
// goes in ErrorMessage.
func failureReason(err error) string {
	var fe *fetcher.Error
	if errors.As(err, &fe) {
		return fe.Kind.String()
	}
	var ee *extractor.Error
	if errors.As(err, &ee) {
		return ee.Kind.String()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}
