// Package model defines the core data types shared by the crawl engine:
// crawl targets and their canonical URL form, raw fetch results, extracted
// content blocks, and the final per-page crawl result handed to callers.
// Types in this package carry no behavior beyond derivation of values from
// their own fields, so they can be used freely across goroutines once built.
package model
