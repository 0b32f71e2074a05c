package config

import "errors"

// Configuration validation errors returned by Config.Validate.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic handling while still providing human-readable messages.
// Validation errors are fatal: they abort a run before any fetch occurs.
var (
	// ErrInvalidPruningThreshold is returned when the pruning threshold is
	// outside [0, 1]. Both pruning modes interpret the value on that scale.
	ErrInvalidPruningThreshold = errors.New("invalid pruning threshold: must be between 0.0 and 1.0")

	// ErrInvalidPruningMode is returned for a pruning mode other than
	// "fixed" or "dynamic".
	ErrInvalidPruningMode = errors.New(`invalid pruning mode: must be "fixed" or "dynamic"`)

	// ErrInvalidMinWordThreshold is returned when the minimum word count is
	// negative. Use 0 to retain blocks of any length.
	ErrInvalidMinWordThreshold = errors.New("invalid min word threshold: must be non-negative")

	// ErrInvalidQueryThreshold is returned when the BM25 cutoff is negative.
	ErrInvalidQueryThreshold = errors.New("invalid query threshold: must be non-negative")

	// ErrInvalidMaxDepth is returned when the traversal depth bound is
	// negative. Depth 0 means only the seed page itself.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	// A budget of zero would mean no crawling at all.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidConcurrency is returned when the worker pool size is not
	// positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidPerHostDelay is returned when the per-host delay is
	// negative. Use 0 to disable politeness spacing.
	ErrInvalidPerHostDelay = errors.New("invalid per-host delay: must be non-negative")

	// ErrInvalidRequestTimeout is returned when the per-fetch timeout is
	// not positive. Every network call must be timeout-bounded.
	ErrInvalidRequestTimeout = errors.New("invalid request timeout: must be positive")

	// ErrInvalidBackoffPolicy is returned for a backoff policy other than
	// "constant" or "exponential".
	ErrInvalidBackoffPolicy = errors.New(`invalid backoff policy: must be "constant" or "exponential"`)

	// ErrInvalidMaxBodySize is returned when the response body cap is
	// negative. Use 0 to apply the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
