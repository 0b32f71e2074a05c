// Package fetcher retrieves raw HTML for single URLs. It is the only part
// of the engine that touches the network.
//
// Two implementations are provided: Client, a plain net/http fetcher with
// bounded redirects and a per-request timeout, and Renderer, which drives a
// headless Chrome via chromedp for pages that only materialize after
// JavaScript runs. Both satisfy the Fetcher interface and are safe for use
// from multiple concurrent workers.
//
// Fetch failures are classified into three kinds (timeout, network, HTTP
// status) so the controller can decide what is retryable and what to record
// on the page's result.
package fetcher
