// Package extractor converts raw HTML into a structured document: an
// ordered sequence of content blocks with the attributes the filters score
// on (link density, word count, tag path). Boilerplate elements are removed
// by tag and by class/id heuristics before segmentation, but outbound links
// are collected first so navigation still drives traversal.
package extractor
