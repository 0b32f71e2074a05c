package crawler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fitcrawl/fitcrawl/model"
)

// SaveResults writes each successful result's Markdown under dir, grouped
// by host: dir/<host>/<name>.md, with names derived from the URL path and
// "index.md" for the root page. Results with empty fit Markdown fall back
// to the raw Markdown so every successful page leaves an artifact.
//
// Failed and skipped results are not written; their information lives on
// the result values themselves.
func SaveResults(results []*model.CrawlResult, dir string) error {
	for _, r := range results {
		if !r.Succeeded() {
			continue
		}

		content := r.FitMarkdown
		if strings.TrimSpace(content) == "" {
			content = r.RawMarkdown
		}

		full := filepath.Join(dir, filepath.FromSlash(model.ArtifactPath(r.URL)))
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			return fmt.Errorf("create artifact directory for %s: %w", r.URL, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			return fmt.Errorf("write artifact for %s: %w", r.URL, err)
		}
	}
	return nil
}
