package model

import "time"

// Status classifies the outcome of processing one page.
type Status string

// Page outcome statuses. A failed page never aborts the run; callers inspect
// per-result status rather than relying on a run-level error.
const (
	// StatusSuccess means the page was fetched and processed. The fit
	// markdown may still be empty when every block was pruned (low yield).
	StatusSuccess Status = "success"

	// StatusSkipped means the page was fetched but not processed, for
	// example because the content type was not HTML.
	StatusSkipped Status = "skipped"

	// StatusFailed means fetching or extraction failed. Reason holds the
	// error kind and ErrorMessage the detail.
	StatusFailed Status = "failed"
)

// CrawlResult is the final artifact for one page. It is created once at
// pipeline completion and immutable thereafter; persistence is left to the
// caller.
type CrawlResult struct {
	// URL is the URL as it was enqueued.
	URL string `json:"url"`

	// FinalURL is the URL after redirects. Empty when the fetch failed.
	FinalURL string `json:"final_url,omitempty"`

	// Depth is the link distance from the seed at which the page was found.
	Depth int `json:"depth"`

	// Status is the page outcome.
	Status Status `json:"status"`

	// Reason is the short error kind for skipped/failed pages
	// ("timeout", "network", "http status", "unparsable", "empty", ...).
	Reason string `json:"reason,omitempty"`

	// ErrorMessage is the full error text for failed pages.
	ErrorMessage string `json:"error_message,omitempty"`

	// Title is the extracted page title.
	Title string `json:"title,omitempty"`

	// RawMarkdown is the page content rendered to Markdown before any
	// filtering. Useful as a fallback when filtering prunes everything.
	RawMarkdown string `json:"raw_markdown,omitempty"`

	// FitMarkdown is the density- and relevance-filtered Markdown.
	FitMarkdown string `json:"fit_markdown,omitempty"`

	// Links are the outbound links discovered on the page.
	Links []string `json:"links,omitempty"`

	// FetchedAt is the time the page was fetched. Zero for failed fetches.
	FetchedAt time.Time `json:"fetched_at,omitzero"`
}

// Succeeded reports whether the page produced usable content.
func (r *CrawlResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
