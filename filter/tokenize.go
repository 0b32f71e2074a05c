package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Tokenize splits text into normalized terms for BM25 scoring: words are
// split on non-alphanumeric runes, case-folded, and lightly stemmed by
// stripping a plural "s". The stemming is deliberately crude; queries like
// "widget" still need to hit blocks that only say "widgets", and anything
// heavier would drag in a full stemmer for marginal gain.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(fields) == 0 {
		return nil
	}

	folder := cases.Fold()
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := folder.String(f)
		tok = stripPlural(tok)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// stripPlural removes a trailing "s" from longer tokens. Words ending in
// "ss" ("class", "press") keep it.
func stripPlural(tok string) string {
	if len(tok) > 3 && strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss") {
		return tok[:len(tok)-1]
	}
	return tok
}
