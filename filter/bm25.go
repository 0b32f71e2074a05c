package filter

import (
	"math"
	"strings"

	"github.com/fitcrawl/fitcrawl/model"
)

// Standard BM25 parameters. k1 controls term-frequency saturation, b the
// strength of length normalization.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// Relevance retains the blocks of a document that score against a query.
// The reference corpus is the document's own blocks: inverse document
// frequency is computed over the page, not over the whole crawl, so each
// page's filtering is independent and deterministic.
type Relevance struct {
	queryTerms []string
	threshold  float64
}

// NewRelevance creates a relevance filter. An empty or whitespace query
// disables it entirely.
func NewRelevance(query string, threshold float64) *Relevance {
	return &Relevance{
		queryTerms: Tokenize(strings.TrimSpace(query)),
		threshold:  threshold,
	}
}

// Enabled reports whether a usable query was supplied.
func (r *Relevance) Enabled() bool {
	return len(r.queryTerms) > 0
}

// Filter returns the document blocks scoring at or above the threshold.
// Without a query it is a pass-through. Retained blocks keep document
// order: ties and score magnitudes never reorder output, so the rendered
// Markdown reads top-to-bottom like the page did.
func (r *Relevance) Filter(doc *model.Document) *model.Document {
	if !r.Enabled() {
		return doc
	}

	out := &model.Document{URL: doc.URL, Title: doc.Title, Links: doc.Links}
	if len(doc.Blocks) == 0 {
		return out
	}

	blockTerms := make([][]string, len(doc.Blocks))
	totalLen := 0
	for i, b := range doc.Blocks {
		blockTerms[i] = Tokenize(b.Text)
		totalLen += len(blockTerms[i])
	}
	avgLen := float64(totalLen) / float64(len(doc.Blocks))
	if avgLen == 0 {
		return out
	}

	// Document frequency per query term across the page's blocks.
	df := make(map[string]int, len(r.queryTerms))
	for _, terms := range blockTerms {
		present := make(map[string]bool)
		for _, t := range terms {
			present[t] = true
		}
		for _, q := range r.queryTerms {
			if present[q] {
				df[q]++
			}
		}
	}

	n := float64(len(doc.Blocks))
	for i, b := range doc.Blocks {
		if r.score(blockTerms[i], df, n, avgLen) >= r.threshold {
			out.Blocks = append(out.Blocks, b)
		}
	}
	return out
}

// Score computes a single block's BM25 score against the query, given the
// rest of the document for corpus statistics. Exposed for observability;
// Filter is the primary entry point.
func (r *Relevance) Score(doc *model.Document, idx int) float64 {
	if !r.Enabled() || idx < 0 || idx >= len(doc.Blocks) {
		return 0
	}

	blockTerms := make([][]string, len(doc.Blocks))
	totalLen := 0
	for i, b := range doc.Blocks {
		blockTerms[i] = Tokenize(b.Text)
		totalLen += len(blockTerms[i])
	}
	avgLen := float64(totalLen) / float64(len(doc.Blocks))
	if avgLen == 0 {
		return 0
	}

	df := make(map[string]int, len(r.queryTerms))
	for _, terms := range blockTerms {
		present := make(map[string]bool)
		for _, t := range terms {
			present[t] = true
		}
		for _, q := range r.queryTerms {
			if present[q] {
				df[q]++
			}
		}
	}

	return r.score(blockTerms[idx], df, float64(len(doc.Blocks)), avgLen)
}

// score is the BM25 sum over query terms for one tokenized block.
func (r *Relevance) score(terms []string, df map[string]int, n, avgLen float64) float64 {
	if len(terms) == 0 {
		return 0
	}

	tf := make(map[string]int, len(terms))
	for _, t := range terms {
		tf[t]++
	}

	dl := float64(len(terms))
	var total float64
	for _, q := range r.queryTerms {
		f := float64(tf[q])
		if f == 0 {
			continue
		}
		idf := math.Log(1 + (n-float64(df[q])+0.5)/(float64(df[q])+0.5))
		total += idf * (f * (bm25K1 + 1)) / (f + bm25K1*(1-bm25B+bm25B*dl/avgLen))
	}
	return total
}
