package model

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// unsafeChars matches everything we strip from artifact file names.
// The allowed set is deliberately conservative so names are valid on
// every filesystem the caller might write to.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// ArtifactDir returns the directory name a result's artifact is grouped
// under: the URL's host with ":" replaced so ports stay representable.
// Returns "unknown" when the URL does not parse.
func ArtifactDir(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return strings.ReplaceAll(strings.ToLower(u.Host), ":", "_")
}

// ArtifactName derives the deterministic file name for a URL's artifact:
// path segments joined with "_", query and fragment dropped, unsafe
// characters removed, and "index" for an empty path. The name always ends
// in ".md" because results are Markdown.
func ArtifactName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "index.md"
	}

	name := strings.Trim(u.Path, "/")
	name = strings.ReplaceAll(name, "/", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" {
		name = "index"
	}
	return name + ".md"
}

// ArtifactPath joins ArtifactDir and ArtifactName with a forward slash.
// The engine never touches the filesystem itself; this is the relative
// key the output collaborator stores the artifact under.
func ArtifactPath(rawURL string) string {
	return path.Join(ArtifactDir(rawURL), ArtifactName(rawURL))
}
