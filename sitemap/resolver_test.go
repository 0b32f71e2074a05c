package sitemap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("uses robots.txt sitemap directives", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		var srvURL string
		mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "User-agent: *\nDisallow: /admin\nSitemap: %s/special-map.xml\n", srvURL)
		})
		mux.HandleFunc("/special-map.xml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, `<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/a</loc></url>
  <url><loc>https://example.com/b</loc></url>
</urlset>`)
		})
		// The default location must NOT be fetched when robots.txt names one.
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			t.Error("fallback sitemap.xml should not be fetched")
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()
		srvURL = srv.URL

		urls, err := NewResolver(WithLogger(discard())).Resolve(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 2 {
			t.Fatalf("expected 2 URLs, got %d: %v", len(urls), urls)
		}
		if urls[0] != "https://example.com/a" || urls[1] != "https://example.com/b" {
			t.Errorf("unexpected URLs in discovery order: %v", urls)
		}
	})

	t.Run("falls back to well-known locations", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, `<urlset><url><loc>https://example.com/page</loc></url></urlset>`)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		urls, err := NewResolver(WithLogger(discard())).Resolve(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 1 || urls[0] != "https://example.com/page" {
			t.Errorf("unexpected URLs: %v", urls)
		}
	})

	t.Run("expands sitemap index recursively", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		var srvURL string
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprintf(w, `<sitemapindex>
  <sitemap><loc>%s/shard-1.xml</loc></sitemap>
  <sitemap><loc>%s/shard-2.xml</loc></sitemap>
  <sitemap><loc>%s/sitemap.xml</loc></sitemap>
</sitemapindex>`, srvURL, srvURL, srvURL)
		})
		mux.HandleFunc("/shard-1.xml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, `<urlset><url><loc>https://example.com/one</loc></url></urlset>`)
		})
		mux.HandleFunc("/shard-2.xml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, `<urlset>
  <url><loc>https://example.com/two</loc></url>
  <url><loc>https://example.com/one</loc></url>
</urlset>`)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()
		srvURL = srv.URL

		// The index references itself; the seen guard must stop the cycle.
		urls, err := NewResolver(WithLogger(discard())).Resolve(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 2 {
			t.Fatalf("expected 2 deduplicated URLs, got %v", urls)
		}
		if urls[0] != "https://example.com/one" || urls[1] != "https://example.com/two" {
			t.Errorf("unexpected order: %v", urls)
		}
	})

	t.Run("plain text sitemap", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.txt", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, "https://example.com/x\nnot-a-url\nhttps://example.com/y\n")
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		urls, err := NewResolver(WithLogger(discard())).Resolve(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 2 {
			t.Errorf("expected 2 URLs from text sitemap, got %v", urls)
		}
	})

	t.Run("malformed sitemap yields empty result not error", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, `<urlset><url><loc>https://example.com/a</loc>`)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		urls, err := NewResolver(WithLogger(discard())).Resolve(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("malformed sitemaps must not fail resolution, got %v", err)
		}
		if len(urls) != 0 {
			t.Errorf("expected no URLs, got %v", urls)
		}
	})

	t.Run("site with nothing at all", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		urls, err := NewResolver(WithLogger(discard())).Resolve(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unreachable sitemaps must not fail resolution, got %v", err)
		}
		if len(urls) != 0 {
			t.Errorf("expected no URLs, got %v", urls)
		}
	})

	t.Run("rejects relative root URL", func(t *testing.T) {
		t.Parallel()

		if _, err := NewResolver(WithLogger(discard())).Resolve(context.Background(), "/no-host"); err == nil {
			t.Error("expected error for relative root URL")
		}
	})

	t.Run("bounds sitemap expansion", func(t *testing.T) {
		t.Parallel()

		// Every shard points to a fresh one; the resolver must stop at
		// its fetch bound instead of following forever.
		mux := http.NewServeMux()
		var srvURL string
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprintf(w, `<sitemapindex><sitemap><loc>%s%s/next</loc></sitemap></sitemapindex>`,
				srvURL, r.URL.Path)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()
		srvURL = srv.URL

		urls, err := NewResolver(WithLogger(discard()), WithMaxSitemaps(5)).Resolve(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 0 {
			t.Errorf("expected no page URLs, got %v", urls)
		}
	})
}

func TestParseSitemapRootElement(t *testing.T) {
	t.Parallel()

	_, _, err := parseSitemap([]byte(`<html><body>soft 404</body></html>`), "text/html", "u")
	if err == nil {
		t.Error("expected malformed error for non-sitemap XML root")
	}
}
