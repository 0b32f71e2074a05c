// Package crawler coordinates crawl runs: it owns the traversal frontier,
// the page budget, per-host politeness, and the worker pool that drives
// pages through the fetch, extract, filter, and render stages.
//
// The Engine is the package's entry point. A single coordinator goroutine
// owns all traversal state (frontier, visited set, budget) and exchanges
// work with a fixed pool of workers over channels, so no traversal state is
// ever shared between goroutines. Page-local failures are recorded on the
// page's result and never abort a run; only an invalid configuration or
// context cancellation ends a run early.
package crawler
