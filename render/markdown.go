package render

import (
	"bytes"
	"fmt"

	"github.com/nao1215/markdown"

	"github.com/fitcrawl/fitcrawl/model"
)

// Markdown renders a document as GitHub-flavored Markdown.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Consistent heading and list formatting
// 3. A builder that reports write failures once, at Build time
func Markdown(doc *model.Document) (string, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	if doc.Title != "" {
		md.H1(doc.Title)
		md.PlainText("")
	}

	for i := 0; i < len(doc.Blocks); i++ {
		b := doc.Blocks[i]
		switch b.Tag {
		case "h1":
			md.H1(b.Text)
		case "h2":
			md.H2(b.Text)
		case "h3":
			md.H3(b.Text)
		case "h4":
			md.H4(b.Text)
		case "h5":
			md.H5(b.Text)
		case "h6":
			md.H6(b.Text)
		case "li", "dt", "dd":
			// Fold consecutive list-ish blocks into one bullet list so the
			// output reads as the page's list did.
			items := []string{b.Text}
			for i+1 < len(doc.Blocks) && isListTag(doc.Blocks[i+1].Tag) {
				i++
				items = append(items, doc.Blocks[i].Text)
			}
			md.BulletList(items...)
		case "blockquote":
			md.Blockquote(b.Text)
		default:
			md.PlainText(b.Text)
		}
		md.PlainText("")
	}

	if err := md.Build(); err != nil {
		return "", fmt.Errorf("render markdown for %s: %w", doc.URL, err)
	}
	return buf.String(), nil
}

func isListTag(tag string) bool {
	return tag == "li" || tag == "dt" || tag == "dd"
}
