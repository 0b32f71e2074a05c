package model

import (
	"fmt"
	"net/url"
	"strings"
)

// CrawlTarget is a URL scheduled for fetching, together with its canonical
// form and its distance from the seed. Targets are immutable once created
// and are consumed exactly once by the crawl controller.
type CrawlTarget struct {
	// URL is the original URL as discovered, used for the actual fetch.
	URL string

	// Canonical is the normalized form used for deduplication.
	// See CanonicalURL for the normalization rules.
	Canonical string

	// Depth is the number of link hops from the seed URL.
	// Seeds and batch-mode URLs are always depth 0.
	Depth int
}

// NewTarget builds a CrawlTarget from a raw URL at the given depth.
// It returns an error if the URL cannot be parsed or is not HTTP(S).
func NewTarget(rawURL string, depth int) (CrawlTarget, error) {
	canonical, err := CanonicalURL(rawURL)
	if err != nil {
		return CrawlTarget{}, err
	}
	return CrawlTarget{URL: rawURL, Canonical: canonical, Depth: depth}, nil
}

// CanonicalURL normalizes a URL for deduplication.
//
// Design decision: We normalize rather than compare raw strings because:
//  1. The same page is commonly reachable under several spellings
//  2. Fragments (#anchor) never change server-side content
//  3. Query parameter order is not significant to almost all servers
//
// Rules: scheme and host are lowercased, the fragment is dropped, query
// parameters are sorted by key, and an empty path becomes "/".
func CanonicalURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q in URL %q", u.Scheme, rawURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in URL %q", rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.Path == "" {
		u.Path = "/"
	}

	// url.Values.Encode sorts by key, which gives us the stable query order.
	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}

	return u.String(), nil
}

// Host returns the lowercased host (including port) of a URL, or an empty
// string if the URL does not parse. Used for per-host politeness tracking.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
