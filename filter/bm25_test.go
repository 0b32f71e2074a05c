package filter

import (
	"reflect"
	"testing"

	"github.com/fitcrawl/fitcrawl/model"
)

func articleBlock() model.ContentBlock {
	return model.ContentBlock{
		Text:      "This article explains the history of widgets in detail.",
		Tag:       "p",
		TagPath:   "html>body>article>p",
		WordCount: 10,
		Offset:    0,
	}
}

func TestRelevanceFilter(t *testing.T) {
	t.Parallel()

	t.Run("matching query retains the block", func(t *testing.T) {
		t.Parallel()

		doc := &model.Document{Blocks: []model.ContentBlock{articleBlock()}}
		out := NewRelevance("widget history", 0.1).Filter(doc)

		if len(out.Blocks) != 1 {
			t.Fatalf("block containing both query terms should survive, got %d blocks", len(out.Blocks))
		}
	})

	t.Run("unrelated query empties the document", func(t *testing.T) {
		t.Parallel()

		doc := &model.Document{Blocks: []model.ContentBlock{articleBlock()}}
		out := NewRelevance("cooking", 0.1).Filter(doc)

		if len(out.Blocks) != 0 {
			t.Fatalf("block without query terms should be dropped, got %d blocks", len(out.Blocks))
		}
	})

	t.Run("empty query is a pass-through", func(t *testing.T) {
		t.Parallel()

		doc := &model.Document{Blocks: []model.ContentBlock{articleBlock()}}
		for _, q := range []string{"", "   ", "\t\n"} {
			out := NewRelevance(q, 99).Filter(doc)
			if !reflect.DeepEqual(out, doc) {
				t.Errorf("query %q should disable filtering entirely", q)
			}
		}
	})

	t.Run("plural and singular forms match", func(t *testing.T) {
		t.Parallel()

		doc := &model.Document{Blocks: []model.ContentBlock{articleBlock()}}
		// The block says "widgets"; the singular query must still hit.
		out := NewRelevance("widget", 0.1).Filter(doc)
		if len(out.Blocks) != 1 {
			t.Error("singular query should match plural text")
		}
	})

	t.Run("preserves document order not rank order", func(t *testing.T) {
		t.Parallel()

		doc := &model.Document{Blocks: []model.ContentBlock{
			{Text: "widgets mentioned once here among many other unrelated words entirely", Offset: 0},
			{Text: "widgets widgets widgets", Offset: 1},
			{Text: "a closing note that also mentions widgets somewhere", Offset: 2},
		}}

		rel := NewRelevance("widgets", 0.01)
		out := rel.Filter(doc)

		if len(out.Blocks) != 3 {
			t.Fatalf("all blocks mention the term, got %d", len(out.Blocks))
		}

		// Block 1 outscores its neighbors, but output order must stay
		// document order.
		if rel.Score(doc, 1) <= rel.Score(doc, 0) {
			t.Fatal("test premise broken: repeated term should outscore single mention")
		}
		var offsets []int
		for _, b := range out.Blocks {
			offsets = append(offsets, b.Offset)
		}
		if !reflect.DeepEqual(offsets, []int{0, 1, 2}) {
			t.Errorf("output reordered by rank: %v", offsets)
		}
	})

	t.Run("threshold drops weak matches", func(t *testing.T) {
		t.Parallel()

		doc := &model.Document{Blocks: []model.ContentBlock{
			{Text: "widgets appear in this block", Offset: 0},
			{Text: "nothing relevant whatsoever in this one", Offset: 1},
		}}

		out := NewRelevance("widgets", 0.05).Filter(doc)
		if len(out.Blocks) != 1 || out.Blocks[0].Offset != 0 {
			t.Errorf("expected only the matching block, got %+v", out.Blocks)
		}
	})

	t.Run("empty document stays empty", func(t *testing.T) {
		t.Parallel()

		out := NewRelevance("anything", 0.1).Filter(&model.Document{URL: "u", Title: "t"})
		if len(out.Blocks) != 0 {
			t.Errorf("expected no blocks, got %d", len(out.Blocks))
		}
		if out.URL != "u" || out.Title != "t" {
			t.Error("document metadata should be preserved")
		}
	})
}

func TestRelevanceFilterIsDeterministic(t *testing.T) {
	t.Parallel()

	doc := &model.Document{Blocks: []model.ContentBlock{
		{Text: "widgets and sprockets compared", Offset: 0},
		{Text: "a long discussion of sprockets only", Offset: 1},
		{Text: "widgets revisited", Offset: 2},
	}}

	rel := NewRelevance("widget sprocket", 0.1)
	first := rel.Filter(doc)
	for i := 0; i < 5; i++ {
		if !reflect.DeepEqual(rel.Filter(doc), first) {
			t.Fatal("relevance filtering is not deterministic")
		}
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "lowercases and splits on punctuation",
			input: "Widget-History, explained!",
			want:  []string{"widget", "history", "explained"},
		},
		{
			name:  "strips plural s",
			input: "widgets gadgets",
			want:  []string{"widget", "gadget"},
		},
		{
			name:  "keeps double s",
			input: "class press",
			want:  []string{"class", "press"},
		},
		{
			name:  "short words keep their s",
			input: "is as gas",
			want:  []string{"is", "as", "gas"},
		},
		{
			name:  "numbers survive",
			input: "version 2 of api3",
			want:  []string{"version", "2", "of", "api3"},
		},
		{
			name:  "empty input",
			input: "  \t ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
