// Package config defines the tunables for a crawl run: traversal bounds,
// content filtering thresholds, politeness settings, and network limits.
// A Config is created once per run, validated before any fetch happens, and
// read-only while the run is in progress.
package config
