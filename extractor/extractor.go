package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/fitcrawl/fitcrawl/model"
)

// ErrorKind classifies extraction failures.
type ErrorKind int

const (
	// KindUnparsable means the markup could not be parsed at all.
	KindUnparsable ErrorKind = iota + 1

	// KindEmpty means the page body was empty or whitespace.
	KindEmpty
)

// String returns the short name used as a result's failure reason.
func (k ErrorKind) String() string {
	switch k {
	case KindUnparsable:
		return "unparsable"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Error is a per-page extraction failure. The controller records it on the
// page's result; it never aborts the run.
type Error struct {
	Kind ErrorKind
	URL  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.URL, e.Kind)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// removeSelector names elements that never carry readable content.
const removeSelector = "script, style, noscript, iframe, svg, form, template, nav, header, footer, aside"

// blockSelector names the block-level boundaries a document is segmented
// along. Containers (div, section, article) are not blocks themselves; the
// text inside them reaches us through these leaf-level elements.
const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, td, th, blockquote, pre, figcaption, dt, dd"

// boilerplateClassRe matches class/id values that mark navigational or
// promotional containers. Matching is deliberately loose: dropping a rare
// legitimate block is cheaper than keeping every cookie banner.
var boilerplateClassRe = regexp.MustCompile(`(?i)(^|[\s_-])(nav|navbar|menu|sidebar|breadcrumbs?|footer|header|banner|advert\w*|ads?|sponsor|promo|cookie|popup|modal|share|social|comments?)([\s_-]|$)`)

// whitespaceRe collapses runs of whitespace inside block text.
var whitespaceRe = regexp.MustCompile(`\s+`)

// skippedSchemes are href prefixes that never lead to crawlable pages.
var skippedSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// Extractor converts raw pages into structured documents. It is stateless
// and safe for concurrent use.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses a fetched page into a Document. It returns an *Error with
// kind "empty" for blank bodies and "unparsable" when no usable markup can
// be recovered.
func (e *Extractor) Extract(page *model.RawPage) (*model.Document, error) {
	if len(bytes.TrimSpace(page.Body)) == 0 {
		return nil, &Error{Kind: KindEmpty, URL: page.URL}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, &Error{Kind: KindUnparsable, URL: page.URL, Err: err}
	}

	baseURL := page.FinalURL
	if baseURL == "" {
		baseURL = page.URL
	}

	out := &model.Document{
		URL:   baseURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Links: collectLinks(doc, baseURL),
	}

	// Boilerplate removal happens after link collection so navigation
	// links still feed the frontier.
	doc.Find(removeSelector).Remove()
	doc.Find("[class], [id]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		id, _ := sel.Attr("id")
		if boilerplateClassRe.MatchString(class) || boilerplateClassRe.MatchString(id) {
			sel.Remove()
		}
	})

	offset := 0
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		// Nested boundaries (a list item holding paragraphs) are
		// represented by their leaves, not double-counted by the parent.
		if sel.Find(blockSelector).Length() > 0 {
			return
		}

		text := normalizeText(sel.Text())
		if text == "" {
			return
		}

		anchorLen := 0
		sel.Find("a").Each(func(_ int, a *goquery.Selection) {
			anchorLen += len(normalizeText(a.Text()))
		})
		// An anchor can itself be the block's only child; cap at 1.
		linkDensity := 0.0
		if len(text) > 0 {
			linkDensity = min(1.0, float64(anchorLen)/float64(len(text)))
		}

		node := sel.Get(0)
		out.Blocks = append(out.Blocks, model.ContentBlock{
			Text:        text,
			Tag:         node.Data,
			TagPath:     tagPath(node),
			LinkDensity: linkDensity,
			WordCount:   len(strings.Fields(text)),
			Offset:      offset,
		})
		offset++
	})

	return out, nil
}

// normalizeText trims and collapses whitespace.
func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// tagPath walks ancestors up to the document root and joins element names
// with ">".
func tagPath(n *html.Node) string {
	var parts []string
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode {
			parts = append(parts, cur.Data)
		}
	}
	// Reverse into root-first order.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ">")
}

// collectLinks gathers every anchor href, resolved against the page URL,
// in document order with duplicates removed.
func collectLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := resolveHref(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})
	return links
}

// resolveHref resolves one href against the base URL, dropping fragments,
// non-web schemes, and bare anchors.
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(strings.ToLower(href), scheme) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
