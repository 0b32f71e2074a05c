package model

import "strings"

// ContentBlock is a unit of extracted text with the attributes the density
// and relevance filters score on. Blocks are created by the extractor and
// never mutated afterwards.
type ContentBlock struct {
	// Text is the block's visible text with collapsed whitespace.
	Text string

	// Tag is the block-level element the text came from ("p", "h2", "li", ...).
	Tag string

	// TagPath is the element path from the document root to the block,
	// joined with ">" (for example "html>body>main>article>p").
	TagPath string

	// LinkDensity is the fraction of the block's text that sits inside
	// anchor elements, in [0, 1]. Navigation boilerplate scores near 1.
	LinkDensity float64

	// WordCount is the number of whitespace-separated words in Text.
	WordCount int

	// Offset is the block's position in document order, starting at 0.
	Offset int
}

// PathDepth returns the number of elements on the block's tag path.
// Deeply nested blocks tend to be boilerplate (widgets, footers in
// wrapper divs), so the density scorer penalizes depth mildly.
func (b ContentBlock) PathDepth() int {
	if b.TagPath == "" {
		return 0
	}
	return strings.Count(b.TagPath, ">") + 1
}

// Document is an ordered sequence of content blocks extracted from one page.
// Order is document order and is semantically meaningful: the filters must
// preserve it so the rendered Markdown reads naturally.
type Document struct {
	// URL is the final URL the document was extracted from.
	URL string

	// Title is the page title, if any.
	Title string

	// Blocks are the content blocks in document order.
	Blocks []ContentBlock

	// Links are all outbound links discovered on the page, resolved to
	// absolute URLs, in document order with duplicates removed. Collected
	// before boilerplate removal so navigation links still drive traversal.
	Links []string
}
