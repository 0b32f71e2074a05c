package fetcher

import "fmt"

// ErrorKind classifies fetch failures. The controller records the kind on
// the failed page's result and uses it for retry/backoff decisions.
type ErrorKind int

const (
	// KindTimeout means the request exceeded its deadline. Retryable.
	KindTimeout ErrorKind = iota + 1

	// KindNetwork covers DNS failures, refused connections, and transport
	// errors. Distinct from HTTP errors because the server never answered.
	KindNetwork

	// KindHTTPStatus means the server answered with a non-2xx status.
	// Recoverable from the run's point of view: the caller may retry.
	KindHTTPStatus
)

// String returns the short name used as a result's failure reason.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http status"
	default:
		return "unknown"
	}
}

// Error is a classified fetch failure for one URL.
type Error struct {
	// URL is the URL that failed to fetch.
	URL string

	// Kind classifies the failure.
	Kind ErrorKind

	// StatusCode is set for KindHTTPStatus failures.
	StatusCode int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTPStatus:
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether retrying the same URL could plausibly succeed.
// Timeouts and 5xx responses are transient; 4xx responses are not.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTimeout:
		return true
	case KindHTTPStatus:
		return e.StatusCode >= 500
	case KindNetwork:
		return false
	default:
		return false
	}
}
