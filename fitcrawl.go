// Package fitcrawl is the top-level convenience API for the crawl engine.
//
// It wires together the config, fetcher, sitemap, extractor, filter,
// render, and crawler packages behind four one-call entry points. Callers
// needing more control (custom fetchers, streaming callbacks, engine
// reuse) should use the crawler package directly.
package fitcrawl

import (
	"context"

	"github.com/fitcrawl/fitcrawl/config"
	"github.com/fitcrawl/fitcrawl/crawler"
	"github.com/fitcrawl/fitcrawl/model"
)

// Convenience aliases so simple callers only import this package.
type (
	// Config holds all tunables for a run. See config.New for defaults.
	Config = config.Config

	// Result is the outcome of processing one page.
	Result = model.CrawlResult

	// Report summarizes a deep crawl run.
	Report = crawler.Report
)

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return config.New()
}

// RunSingle fetches and processes one page. A nil config uses defaults.
func RunSingle(ctx context.Context, url string, cfg *Config) (*Result, error) {
	e, err := crawler.New(cfg)
	if err != nil {
		return nil, err
	}
	return e.RunSingle(ctx, url)
}

// RunBatch processes a list of URLs independently, in input order.
// A nil config uses defaults.
func RunBatch(ctx context.Context, urls []string, cfg *Config) ([]*Result, error) {
	e, err := crawler.New(cfg)
	if err != nil {
		return nil, err
	}
	return e.RunBatch(ctx, urls)
}

// RunDeepCrawl traverses the link graph from a seed URL within the
// configured depth and page budget. A nil config uses defaults.
func RunDeepCrawl(ctx context.Context, seedURL string, cfg *Config) (*Report, error) {
	e, err := crawler.New(cfg)
	if err != nil {
		return nil, err
	}
	return e.RunDeepCrawl(ctx, seedURL)
}

// RunSitemapCrawl discovers a site's sitemap and processes the advertised
// pages. A nil config uses defaults.
func RunSitemapCrawl(ctx context.Context, rootURL string, cfg *Config) ([]*Result, error) {
	e, err := crawler.New(cfg)
	if err != nil {
		return nil, err
	}
	return e.RunSitemapCrawl(ctx, rootURL)
}
