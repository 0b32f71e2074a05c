package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerRedactsCredentialKeys(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, true)

	logger.Warn("fetching",
		"url", "https://example.com/private",
		"Authorization", "Bearer abc123secret",
		"cookie", "session=deadbeef",
	)

	out := buf.String()
	if strings.Contains(out, "abc123secret") {
		t.Error("authorization value leaked into log output")
	}
	if strings.Contains(out, "deadbeef") {
		t.Error("cookie value leaked into log output")
	}
	if !strings.Contains(out, redactedValue) {
		t.Error("expected redaction marker in output")
	}
	if !strings.Contains(out, "https://example.com/private") {
		t.Error("non-sensitive attributes should pass through")
	}
}

func TestHandlerTruncatesLongValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, true)

	long := strings.Repeat("x", 10*maxAttrLen)
	logger.Warn("snippet", "body", long)

	if strings.Contains(buf.String(), long) {
		t.Error("oversized attribute should have been truncated")
	}
	if !strings.Contains(buf.String(), "...") {
		t.Error("truncated value should carry an ellipsis")
	}
}

func TestHandlerSanitizesGroupsAndWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, true)

	logger.With("x-api-key", "topsecret").Warn("grouped",
		slog.Group("request", slog.String("set-cookie", "v=1")),
	)

	out := buf.String()
	if strings.Contains(out, "topsecret") {
		t.Error("WithAttrs value leaked into log output")
	}
	if strings.Contains(out, "v=1") {
		t.Error("grouped attribute leaked into log output")
	}
}

func TestVerboseControlsLevel(t *testing.T) {
	t.Parallel()

	var quiet bytes.Buffer
	New(&quiet, false).Info("should be dropped")
	if quiet.Len() != 0 {
		t.Errorf("non-verbose logger should drop info records, got %q", quiet.String())
	}

	var loud bytes.Buffer
	New(&loud, true).Debug("should appear")
	if loud.Len() == 0 {
		t.Error("verbose logger should emit debug records")
	}
}

func TestNewJSONRedacts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSON(&buf, true)
	logger.Error("fetch failed", "authorization", "Basic dXNlcg==")

	if strings.Contains(buf.String(), "dXNlcg==") {
		t.Error("authorization value leaked into JSON output")
	}
}
