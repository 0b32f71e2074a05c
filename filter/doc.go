// Package filter reduces a structured document to its dense,
// query-relevant subset. Two independent stages are provided: a density
// filter that prunes structural boilerplate by a weighted score of link
// density, word count and nesting, and a relevance filter that ranks blocks
// against a caller query with BM25, using the page's own blocks as the
// reference corpus.
//
// Both stages are pure functions of the document plus configuration and
// both preserve document order, so repeated runs over the same input yield
// identical output.
package filter
