package sitemap

import (
	"bufio"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrorKind classifies sitemap diagnostics. They are logged, not returned:
// sitemap discovery never fails a run.
type ErrorKind int

const (
	// KindUnreachable means a sitemap candidate could not be fetched.
	KindUnreachable ErrorKind = iota + 1

	// KindMalformed means a fetched sitemap could not be parsed.
	KindMalformed
)

// String returns the kind's name for log output.
func (k ErrorKind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error records one failed sitemap candidate. Resolve collects these as
// diagnostics rather than propagating them.
type Error struct {
	Kind ErrorKind
	URL  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("sitemap %s: %s: %v", e.URL, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Well-known sitemap locations tried when robots.txt names none. The list
// covers the spellings seen in the wild, not just the standard one.
var fallbackPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap.txt",
	"/sitemap/sitemap.xml",
	"/sitemapindex.xml",
}

// defaultMaxSitemaps bounds how many sitemap files one resolution will
// fetch. Index-of-index chains on large sites can reference thousands of
// shards; the crawl budget makes fetching them all pointless.
const defaultMaxSitemaps = 50

// Resolver discovers candidate page URLs for a site root. Resolving again
// re-fetches, so the produced sequence is restartable by re-resolution.
type Resolver struct {
	hc          *http.Client
	timeout     time.Duration
	maxSitemaps int
	userAgent   string
	logger      *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ResolverOption {
	return func(r *Resolver) {
		if hc != nil {
			r.hc = hc
		}
	}
}

// WithTimeout bounds each sitemap fetch.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMaxSitemaps bounds how many sitemap files are fetched per resolution.
func WithMaxSitemaps(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxSitemaps = n
		}
	}
}

// WithUserAgent sets the User-Agent for sitemap fetches.
func WithUserAgent(ua string) ResolverOption {
	return func(r *Resolver) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver with the given options applied.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		hc:          &http.Client{},
		timeout:     10 * time.Second,
		maxSitemaps: defaultMaxSitemaps,
		userAgent:   "fitcrawl/1.0 (+https://github.com/fitcrawl/fitcrawl)",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Resolve returns the page URLs advertised by the site's sitemaps, in
// discovery order with duplicates removed. The only error it returns is an
// unusable root URL; every per-sitemap failure is logged and skipped.
func (r *Resolver) Resolve(ctx context.Context, rootURL string) ([]string, error) {
	root, err := url.Parse(rootURL)
	if err != nil {
		return nil, fmt.Errorf("invalid root URL %q: %w", rootURL, err)
	}
	if root.Scheme == "" || root.Host == "" {
		return nil, fmt.Errorf("root URL %q must be absolute", rootURL)
	}
	base := root.Scheme + "://" + root.Host

	// robots.txt directives first; well-known locations only as fallback.
	candidates := r.robotsSitemaps(ctx, base)
	if len(candidates) == 0 {
		for _, p := range fallbackPaths {
			candidates = append(candidates, base+p)
		}
	}

	// Explicit work list with a seen guard: index files may reference each
	// other, and naive recursion would loop on cyclic references.
	var pages []string
	seenPages := make(map[string]bool)
	seenMaps := make(map[string]bool)
	fetched := 0

	queue := candidates
	for len(queue) > 0 && fetched < r.maxSitemaps {
		if ctx.Err() != nil {
			break
		}

		smURL := queue[0]
		queue = queue[1:]
		if seenMaps[smURL] {
			continue
		}
		seenMaps[smURL] = true
		fetched++

		body, contentType, err := r.get(ctx, smURL)
		if err != nil {
			r.logger.Debug("sitemap candidate skipped", "error", err)
			continue
		}

		urls, children, err := parseSitemap(body, contentType, smURL)
		if err != nil {
			r.logger.Warn("sitemap candidate skipped", "error", err)
			continue
		}

		queue = append(queue, children...)
		for _, u := range urls {
			if !seenPages[u] {
				seenPages[u] = true
				pages = append(pages, u)
			}
		}
	}

	return pages, nil
}

// robotsSitemaps fetches robots.txt and returns its Sitemap directives.
func (r *Resolver) robotsSitemaps(ctx context.Context, base string) []string {
	body, _, err := r.get(ctx, base+"/robots.txt")
	if err != nil {
		r.logger.Debug("robots.txt not available", "error", err)
		return nil
	}

	var sitemaps []string
	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) < 8 || !strings.EqualFold(line[:8], "sitemap:") {
			continue
		}
		if loc := strings.TrimSpace(line[8:]); loc != "" {
			sitemaps = append(sitemaps, loc)
		}
	}
	return sitemaps
}

// get fetches one URL with the resolver's timeout, returning body bytes and
// the bare content type. Non-2xx responses count as unreachable.
func (r *Resolver) get(ctx context.Context, fetchURL string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, "", &Error{Kind: KindUnreachable, URL: fetchURL, Err: err}
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.hc.Do(req)
	if err != nil {
		return nil, "", &Error{Kind: KindUnreachable, URL: fetchURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &Error{
			Kind: KindUnreachable,
			URL:  fetchURL,
			Err:  fmt.Errorf("http status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, "", &Error{Kind: KindUnreachable, URL: fetchURL, Err: err}
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// sitemapFile decodes both flavors of sitemap XML: <urlset> entries carry
// page URLs, <sitemapindex> entries carry child sitemap URLs.
type sitemapFile struct {
	XMLName  xml.Name
	URLs     []sitemapLoc `xml:"url"`
	Sitemaps []sitemapLoc `xml:"sitemap"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// parseSitemap returns the page URLs and child sitemap URLs in one file.
// Plain-text sitemaps (one URL per line) are supported alongside XML.
func parseSitemap(body []byte, contentType, srcURL string) (pages, children []string, err error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, nil, &Error{Kind: KindMalformed, URL: srcURL, Err: fmt.Errorf("empty sitemap")}
	}

	isXML := strings.Contains(contentType, "xml") || strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<")
	if !isXML {
		// Plain-text sitemap: one absolute URL per line.
		scanner := bufio.NewScanner(strings.NewReader(trimmed))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
				pages = append(pages, line)
			}
		}
		if len(pages) == 0 {
			return nil, nil, &Error{Kind: KindMalformed, URL: srcURL, Err: fmt.Errorf("no URLs in text sitemap")}
		}
		return pages, nil, nil
	}

	var sf sitemapFile
	if err := xml.Unmarshal(body, &sf); err != nil {
		return nil, nil, &Error{Kind: KindMalformed, URL: srcURL, Err: err}
	}

	switch sf.XMLName.Local {
	case "urlset":
		for _, u := range sf.URLs {
			if loc := strings.TrimSpace(u.Loc); loc != "" {
				pages = append(pages, loc)
			}
		}
	case "sitemapindex":
		for _, s := range sf.Sitemaps {
			if loc := strings.TrimSpace(s.Loc); loc != "" {
				children = append(children, loc)
			}
		}
	default:
		return nil, nil, &Error{
			Kind: KindMalformed,
			URL:  srcURL,
			Err:  fmt.Errorf("unexpected root element %q", sf.XMLName.Local),
		}
	}

	return pages, children, nil
}
