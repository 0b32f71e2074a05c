package config

import "time"

// PruningMode selects how the density filter derives its cutoff.
type PruningMode string

const (
	// PruningFixed drops every block whose density score falls below the
	// configured threshold.
	PruningFixed PruningMode = "fixed"

	// PruningDynamic computes the cutoff per document as a percentile of
	// all block scores, then applies the same drop rule. This adapts to
	// documents that are uniformly sparse or dense, where a fixed cutoff
	// would drop everything or nothing.
	PruningDynamic PruningMode = "dynamic"
)

// BackoffPolicy selects how the per-host pause grows after repeated
// failures against the same host.
type BackoffPolicy string

const (
	// BackoffConstant pauses for a fixed interval once the failure
	// threshold is reached.
	BackoffConstant BackoffPolicy = "constant"

	// BackoffExponential doubles the pause for each failure beyond the
	// threshold, up to a cap.
	BackoffExponential BackoffPolicy = "exponential"
)

// Default configuration values. The filtering defaults mirror what works
// well for documentation-style sites; traversal defaults are deliberately
// conservative so a misconfigured run cannot hammer a host.
const (
	// DefaultPruningThreshold of 0.48 keeps roughly the denser half of a
	// typical content page while dropping navigation and footer blocks.
	DefaultPruningThreshold = 0.48

	// DefaultPruningMode is dynamic because fixed thresholds behave badly
	// on uniformly sparse pages (landing pages, galleries).
	DefaultPruningMode = PruningDynamic

	// DefaultMinWordThreshold of 5 filters out stray labels and button
	// captions that survive structural pruning.
	DefaultMinWordThreshold = 5

	// DefaultQueryThreshold is the minimum BM25 score a block must reach
	// when a query is supplied. BM25 scores are unbounded; 1.2 retains
	// blocks with at least one reasonably rare matching term.
	DefaultQueryThreshold = 1.2

	// DefaultMaxDepth of 2 explores the seed, its links, and their links.
	// Deeper crawls rarely add content worth the extra requests.
	DefaultMaxDepth = 2

	// DefaultMaxPages caps a run at 20 pages. This prevents runaway
	// crawling on large or infinitely-generating sites.
	DefaultMaxPages = 20

	// DefaultConcurrency of 4 workers saturates most small sites without
	// looking like an attack. Fetching is the only parallel stage.
	DefaultConcurrency = 4

	// DefaultPerHostDelay enforces one second between requests to the
	// same host. This is a politeness setting, not a correctness one.
	DefaultPerHostDelay = 1 * time.Second

	// DefaultRequestTimeout bounds every fetch. 30 seconds is generous
	// for slow origins while keeping a stuck run short.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultMaxRedirects bounds redirect chains per request.
	DefaultMaxRedirects = 5

	// DefaultMaxBodySize caps response bodies at 5MB. Larger responses
	// are truncated to prevent memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultFailureBackoffAfter is the number of consecutive failures
	// against one host that triggers a backoff pause.
	DefaultFailureBackoffAfter = 3

	// DefaultUserAgent identifies the engine in HTTP requests. A
	// descriptive User-Agent lets operators recognize crawler traffic.
	DefaultUserAgent = "fitcrawl/1.0 (+https://github.com/fitcrawl/fitcrawl)"
)

// Config holds all tunables for one crawl run.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FilterConfig, FetchConfig) for simplicity. The number of options is
// manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// PruningThreshold is the density filter cutoff in [0, 1]. In fixed
	// mode it is compared against block scores directly; in dynamic mode
	// it selects the percentile used as the cutoff.
	PruningThreshold float64 `yaml:"pruning_threshold"`

	// PruningMode selects fixed or dynamic threshold derivation.
	PruningMode PruningMode `yaml:"pruning_mode"`

	// MinWordThreshold is the minimum word count a block needs to ever be
	// retained, regardless of its density score.
	MinWordThreshold int `yaml:"min_word_threshold"`

	// Query is free text for the relevance filter. When empty the filter
	// is a pass-through.
	Query string `yaml:"query"`

	// QueryThreshold is the minimum BM25 score a block must reach to be
	// retained when Query is set.
	QueryThreshold float64 `yaml:"query_threshold"`

	// MaxDepth bounds traversal depth for deep crawls. Depth 0 fetches
	// only the seed page.
	MaxDepth int `yaml:"max_depth"`

	// MaxPages is the total page budget for a run, counting both
	// successful and failed pages.
	MaxPages int `yaml:"max_pages"`

	// IncludeExternal controls whether links to other hosts are enqueued
	// during deep crawls.
	IncludeExternal bool `yaml:"include_external"`

	// BreadthFirst switches deep crawls from the default depth-first
	// order to breadth-first.
	BreadthFirst bool `yaml:"breadth_first"`

	// Concurrency is the worker pool size. Only fetching is parallel;
	// extraction and filtering are per-page CPU transforms.
	Concurrency int `yaml:"concurrency"`

	// PerHostDelay is the minimum gap between requests to the same host.
	PerHostDelay time.Duration `yaml:"-"`

	// RequestTimeout bounds each individual fetch.
	RequestTimeout time.Duration `yaml:"-"`

	// BackoffPolicy selects how the pause grows after
	// FailureBackoffAfter consecutive failures against one host.
	BackoffPolicy BackoffPolicy `yaml:"backoff_policy"`

	// FailureBackoffAfter is the consecutive-failure count per host that
	// triggers a backoff pause. Zero uses the default.
	FailureBackoffAfter int `yaml:"failure_backoff_after"`

	// Headers are caller-supplied request headers passed through on every
	// fetch (cookies, authorization). The engine never inspects them.
	Headers map[string]string `yaml:"headers"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"user_agent"`

	// MaxBodySize caps response bodies in bytes. Zero uses the default.
	MaxBodySize int64 `yaml:"max_body_size"`
}

// New returns a Config populated with defaults.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero (thresholds, timeouts, budgets). The
// constructor also documents what the defaults are.
func New() *Config {
	return &Config{
		PruningThreshold:    DefaultPruningThreshold,
		PruningMode:         DefaultPruningMode,
		MinWordThreshold:    DefaultMinWordThreshold,
		QueryThreshold:      DefaultQueryThreshold,
		MaxDepth:            DefaultMaxDepth,
		MaxPages:            DefaultMaxPages,
		Concurrency:         DefaultConcurrency,
		PerHostDelay:        DefaultPerHostDelay,
		RequestTimeout:      DefaultRequestTimeout,
		BackoffPolicy:       BackoffConstant,
		FailureBackoffAfter: DefaultFailureBackoffAfter,
		MaxBodySize:         DefaultMaxBodySize,
		UserAgent:           DefaultUserAgent,
	}
}

// Validate checks the configuration and returns the first problem found.
// It is called once before a run transitions to Running, so a bad config
// aborts before any fetch occurs.
func (c *Config) Validate() error {
	if c.PruningThreshold < 0 || c.PruningThreshold > 1 {
		return ErrInvalidPruningThreshold
	}
	if c.PruningMode != PruningFixed && c.PruningMode != PruningDynamic {
		return ErrInvalidPruningMode
	}
	if c.MinWordThreshold < 0 {
		return ErrInvalidMinWordThreshold
	}
	if c.QueryThreshold < 0 {
		return ErrInvalidQueryThreshold
	}
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.PerHostDelay < 0 {
		return ErrInvalidPerHostDelay
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}
	if c.BackoffPolicy != BackoffConstant && c.BackoffPolicy != BackoffExponential {
		return ErrInvalidBackoffPolicy
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
