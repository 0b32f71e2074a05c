// Package render converts extracted documents into Markdown artifacts.
//
// Rendering is the last stage of the page pipeline: the same renderer is
// applied once to the unfiltered document (raw Markdown) and once to the
// pruned and query-filtered document (fit Markdown), so the two artifacts
// differ only in which blocks survived filtering.
package render
