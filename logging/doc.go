// Package logging provides the slog handler used across the crawl engine.
// The engine passes caller-supplied headers (cookies, authorization) through
// to every fetch, so the handler redacts credential-bearing attributes
// before they reach log output, and truncates oversized values such as page
// snippets so one noisy page cannot flood the logs.
package logging
