package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/fitcrawl/fitcrawl/model"
)

// Fetcher retrieves the raw page behind one URL. Implementations must be
// safe to invoke from multiple concurrent workers and must bound every
// request with a timeout.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.RawPage, error)
}

// Default limits applied when no option overrides them.
const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRedirects = 5
	defaultMaxBodySize  = 5 * 1024 * 1024
	defaultUserAgent    = "fitcrawl/1.0 (+https://github.com/fitcrawl/fitcrawl)"
)

// Client fetches pages over plain HTTP. It holds no mutable state of its
// own; the underlying http.Client is already safe for concurrent use.
type Client struct {
	hc           *http.Client
	timeout      time.Duration
	maxRedirects int
	maxBodySize  int64
	userAgent    string
	headers      map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxRedirects bounds redirect chains. Requests exceeding the bound
// fail with a network-kind error.
func WithMaxRedirects(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRedirects = n
		}
	}
}

// WithMaxBodySize caps how many response bytes are read per page.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeaders sets caller-supplied headers sent on every request. The
// client forwards them verbatim; cookies and authorization stay the
// caller's responsibility.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) {
		c.headers = h
	}
}

// WithHTTPClient replaces the underlying transport. Used in tests and by
// callers that need proxies or custom TLS settings. The redirect policy is
// still installed on top of it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// NewClient creates a Client with the given options applied over defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout:      defaultTimeout,
		maxRedirects: defaultMaxRedirects,
		maxBodySize:  defaultMaxBodySize,
		userAgent:    defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.hc == nil {
		c.hc = &http.Client{}
	}
	maxRedirects := c.maxRedirects
	c.hc.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}

	return c
}

// Fetch retrieves one URL and returns the raw page, or a classified *Error.
// Non-2xx responses are errors: the controller records them as failed pages
// rather than feeding error pages into extraction.
func (c *Client) Fetch(ctx context.Context, url string) (*model.RawPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Kind: KindNetwork, Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Kind: classifyTransportError(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{URL: url, Kind: KindHTTPStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, &Error{URL: url, Kind: classifyTransportError(err), Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}

	return &model.RawPage{
		URL:         url,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
		FetchedAt:   time.Now(),
	}, nil
}

// classifyTransportError separates deadline expiry from everything else the
// transport can report (DNS, refused connections, TLS).
func classifyTransportError(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}
