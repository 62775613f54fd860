// Package preview serves an embedded tree over HTTP the way it would look
// once baked into a binary, resolving file contents through the embeddir
// development strategy so edits show up on reload.
package preview

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type Handler struct {
	opts Options
	md   goldmark.Markdown
}

func New(opts *Options) (*Handler, error) {
	opts.setDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	h := &Handler{opts: *opts}
	if opts.RenderMarkdown {
		h.md = goldmark.New(goldmark.WithExtensions(extension.GFM))
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// GET/HEAD only; a preview site has nothing to POST to
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	file, redirectTo, found := resolvePath(r.URL.Path, h.opts.Site)
	if redirectTo != "" {
		// 308 keeps the method even though only GET/HEAD get this far
		http.Redirect(w, r, redirectTo, http.StatusPermanentRedirect)
		return
	}
	if !found {
		h.serveNotFound(w, r)
		return
	}

	if cc := cacheControlForFile(file, &h.opts); cc != "" {
		w.Header().Set("Cache-Control", cc)
	}

	if h.md != nil && strings.ToLower(path.Ext(file)) == ".md" {
		h.serveMarkdown(w, r, file)
		return
	}

	http.ServeFileFS(w, r, h.opts.Site, file)
}

func (h *Handler) serveNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	if existsFile(h.opts.Site, h.opts.Site404File) {
		serveFileWithStatus(w, r, http.StatusNotFound, h.opts.Site, h.opts.Site404File)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("404 page not found"))
}

// serveFileWithStatus serves a file but forces an HTTP status code.
// http.ServeFileFS writes its own status, so the first WriteHeader call is
// overridden through a wrapping ResponseWriter.
type statusOverrideWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusOverrideWriter) WriteHeader(code int) {
	if w.wroteHeader {
		w.ResponseWriter.WriteHeader(code)
		return
	}
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(w.status)
}

func serveFileWithStatus(w http.ResponseWriter, r *http.Request, status int, fsys fs.FS, name string) {
	sw := &statusOverrideWriter{ResponseWriter: w, status: status}
	http.ServeFileFS(sw, r, fsys, name)
}
