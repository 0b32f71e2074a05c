// Package sitemap discovers the URLs a site advertises for crawling. It
// reads Sitemap directives from robots.txt, falls back to the usual
// well-known locations, and expands sitemap index files recursively with a
// bounded work list. Discovery is best-effort by design: unreachable or
// malformed sitemaps degrade to fewer URLs and a diagnostic log line, never
// to a failed run.
package sitemap
