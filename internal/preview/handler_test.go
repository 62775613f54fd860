package preview

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func newTestHandler(t *testing.T, opts Options) *Handler {
	t.Helper()
	if opts.Site == nil {
		opts.Site = siteFS()
	}
	h, err := New(&opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandler_RequiresSite(t *testing.T) {
	if _, err := New(&Options{}); err == nil {
		t.Fatal("New accepted nil Site")
	}
}

func TestHandler_ServesIndex(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Result().Body)
	if string(body) != "<html>home</html>" {
		t.Fatalf("body = %q", body)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Fatalf("Cache-Control = %q", cc)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("Allow = %q", allow)
	}
}

func TestHandler_PrettyURLRedirect(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := get(t, h, "/about")
	if rec.Code != http.StatusPermanentRedirect {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/about/" {
		t.Fatalf("Location = %q", loc)
	}
}

func TestHandler_NotFound_PlainText(t *testing.T) {
	h := newTestHandler(t, Options{})

	rec := get(t, h, "/missing.html")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("Cache-Control = %q", cc)
	}
}

func TestHandler_NotFound_SitePage(t *testing.T) {
	fsys := siteFS()
	fsys["404.html"] = &fstest.MapFile{Data: []byte("<html>custom 404</html>")}
	h := newTestHandler(t, Options{Site: fsys})

	rec := get(t, h, "/missing.html")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Result().Body)
	if !strings.Contains(string(body), "custom 404") {
		t.Fatalf("body = %q", body)
	}
}

func TestHandler_MarkdownRaw(t *testing.T) {
	h := newTestHandler(t, Options{RenderMarkdown: false})

	rec := get(t, h, "/notes/todo.md")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Result().Body)
	if string(body) != "# todo" {
		t.Fatalf("body = %q", body)
	}
}

type renderCounter struct {
	outcomes []string
	observed int
}

func (c *renderCounter) IncRender(outcome string)             { c.outcomes = append(c.outcomes, outcome) }
func (c *renderCounter) ObserveRenderDuration(seconds float64) { c.observed++ }

func TestHandler_MarkdownRendered(t *testing.T) {
	counter := &renderCounter{}
	h := newTestHandler(t, Options{RenderMarkdown: true, Metrics: counter})

	rec := get(t, h, "/notes/todo.md")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(rec.Result().Body)
	if !strings.Contains(string(body), "<h1") {
		t.Fatalf("markdown not rendered: %q", body)
	}
	if len(counter.outcomes) != 1 || counter.outcomes[0] != "ok" {
		t.Fatalf("render outcomes = %v", counter.outcomes)
	}
	if counter.observed != 1 {
		t.Fatalf("durations observed = %d", counter.observed)
	}
}

func TestCacheControlForFile(t *testing.T) {
	opts := &Options{
		HTMLCacheControl:  "html-policy",
		AssetCacheControl: "asset-policy",
		OtherCacheControl: "other-policy",
	}

	cases := []struct {
		name string
		want string
	}{
		{"index.html", "html-policy"},
		{"readme.md", "html-policy"},
		{"noext", "html-policy"},
		{"site.css", "asset-policy"},
		{"app.js", "asset-policy"},
		{"logo.svg", "asset-policy"},
		{"data.json", "other-policy"},
	}
	for _, tc := range cases {
		if got := cacheControlForFile(tc.name, opts); got != tc.want {
			t.Fatalf("cacheControlForFile(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
