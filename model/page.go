package model

import (
	"strings"
	"time"
)

// RawPage is the result of fetching a single URL. It is owned transiently by
// the per-page pipeline and discarded once extraction has run.
type RawPage struct {
	// URL is the URL that was requested.
	URL string

	// FinalURL is the URL after following redirects. Equal to URL when no
	// redirect occurred.
	FinalURL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// ContentType is the MIME type from the Content-Type header, without
	// parameters such as charset.
	ContentType string

	// Body is the response body, capped at the fetcher's body size limit.
	Body []byte

	// FetchedAt is the time the response was received.
	FetchedAt time.Time
}

// IsHTML reports whether the page looks like an HTML document.
// Content types carry optional parameters ("text/html; charset=utf-8"),
// so we match on the prefix.
func (p *RawPage) IsHTML() bool {
	ct := strings.ToLower(strings.TrimSpace(p.ContentType))
	return strings.HasPrefix(ct, "text/html") ||
		strings.HasPrefix(ct, "application/xhtml+xml")
}
