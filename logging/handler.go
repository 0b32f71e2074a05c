package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// redactedValue replaces credential attribute values in log output.
const redactedValue = "***REDACTED***"

// maxAttrLen caps string attribute values. Page snippets and long URLs are
// cut at this length; the full data is always available on the CrawlResult.
const maxAttrLen = 256

// credentialKeys are attribute keys whose values are never logged. The
// engine forwards caller-supplied request headers verbatim, so any of these
// can carry live credentials.
var credentialKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
}

// Handler wraps an slog.Handler and sanitizes records before delegating.
//
// Design decision: We wrap a handler rather than building a custom logger
// because:
//  1. It composes with any underlying handler (text, JSON)
//  2. Components keep accepting a plain *slog.Logger
//  3. Sanitization stays in one place instead of at every call site
type Handler struct {
	inner slog.Handler
}

// NewHandler wraps the given handler. A nil handler falls back to
// slog.Default().Handler().
func NewHandler(inner slog.Handler) *Handler {
	if inner == nil {
		inner = slog.Default().Handler()
	}
	return &Handler{inner: inner}
}

// Enabled delegates to the wrapped handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it on.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitize(a))
		return true
	})
	return h.inner.Handle(ctx, sanitized)
}

// WithAttrs returns a handler with the given attributes added, sanitized.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = h.sanitize(a)
	}
	return &Handler{inner: h.inner.WithAttrs(clean)}
}

// WithGroup returns a handler with the given group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}

func (h *Handler) sanitize(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		clean := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			clean[i] = h.sanitize(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}

	if credentialKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redactedValue)
	}

	if a.Value.Kind() == slog.KindString {
		if v := a.Value.String(); len(v) > maxAttrLen {
			return slog.String(a.Key, v[:maxAttrLen]+"...")
		}
	}

	return a
}

// New creates a *slog.Logger writing text output to w. Verbose enables
// debug-level records; otherwise only warnings and errors are emitted,
// which keeps long crawls quiet by default.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewHandler(text))
}

// NewJSON is like New but emits JSON records, for log aggregation.
func NewJSON(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	j := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewHandler(j))
}
