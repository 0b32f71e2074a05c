package filter

import (
	"sort"

	"github.com/fitcrawl/fitcrawl/model"
)

// Mode selects how the density cutoff is derived.
type Mode string

const (
	// ModeFixed compares every block's score against the configured
	// threshold directly.
	ModeFixed Mode = "fixed"

	// ModeDynamic derives the cutoff per document as the score
	// distribution's percentile at the configured threshold, then applies
	// the same drop rule. A page that is uniformly sparse or dense keeps
	// a sensible fraction either way.
	ModeDynamic Mode = "dynamic"
)

// Score weighting. Link density and word count carry most of the signal;
// tag kind and nesting depth act as tie-breakers.
const (
	linkWeight  = 0.35
	wordWeight  = 0.35
	tagWeight   = 0.15
	depthWeight = 0.15

	// wordSaturation is the word count at which a block counts as fully
	// "wordy". Longer blocks gain nothing further.
	wordSaturation = 25.0

	// depthGrace is the nesting depth below which no penalty applies;
	// depthPenalty scales the penalty per level beyond it.
	depthGrace   = 3
	depthPenalty = 0.15
)

// tagWeights biases block kinds: headings and paragraphs are almost always
// content, table cells and list items are often navigation. Values are in
// [0, 1]; unknown tags get the neutral middle.
var tagWeights = map[string]float64{
	"h1": 1.0, "h2": 0.95, "h3": 0.9, "h4": 0.85, "h5": 0.8, "h6": 0.8,
	"p": 0.8, "blockquote": 0.7, "pre": 0.7, "figcaption": 0.6,
	"dd": 0.6, "dt": 0.6, "li": 0.55, "td": 0.45, "th": 0.45,
}

const neutralTagWeight = 0.5

// Density prunes structural boilerplate from documents. It is stateless
// and safe for concurrent use.
type Density struct {
	threshold float64
	mode      Mode
	minWords  int
}

// NewDensity creates a density filter. The threshold is interpreted per
// the mode; minWords is an absolute floor below which blocks are never
// retained.
func NewDensity(threshold float64, mode Mode, minWords int) *Density {
	return &Density{threshold: threshold, mode: mode, minWords: minWords}
}

// Score computes a block's density score in [0, 1]. The score is a pure
// function of the block alone, so it is deterministic for fixed input.
// Short, link-heavy, deeply nested blocks score low.
func (d *Density) Score(b model.ContentBlock) float64 {
	linkFactor := 1.0 - clamp01(b.LinkDensity)
	wordFactor := clamp01(float64(b.WordCount) / wordSaturation)

	tw, ok := tagWeights[b.Tag]
	if !ok {
		tw = neutralTagWeight
	}

	depthFactor := 1.0
	if depth := b.PathDepth(); depth > depthGrace {
		depthFactor = 1.0 / (1.0 + depthPenalty*float64(depth-depthGrace))
	}

	return linkWeight*linkFactor + wordWeight*wordFactor + tagWeight*tw + depthWeight*depthFactor
}

// Prune returns a new document containing the blocks that clear the
// cutoff, in their original order. A document where nothing clears the
// cutoff yields zero blocks, not an error; the controller records such
// pages as low-yield.
//
// Dynamic mode needs the full score distribution before any decision, so
// this is two explicit passes: score everything, then filter.
func (d *Density) Prune(doc *model.Document) *model.Document {
	out := &model.Document{URL: doc.URL, Title: doc.Title, Links: doc.Links}
	if len(doc.Blocks) == 0 {
		return out
	}

	scores := make([]float64, len(doc.Blocks))
	for i, b := range doc.Blocks {
		scores[i] = d.Score(b)
	}

	cutoff := d.threshold
	if d.mode == ModeDynamic {
		cutoff = percentile(scores, d.threshold)
	}

	for i, b := range doc.Blocks {
		if b.WordCount < d.minWords {
			continue
		}
		if scores[i] >= cutoff {
			out.Blocks = append(out.Blocks, b)
		}
	}
	return out
}

// percentile returns the value at quantile q of the given scores, with
// linear interpolation between ranks. q is clamped to [0, 1].
func percentile(scores []float64, q float64) float64 {
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	q = clamp01(q)
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
