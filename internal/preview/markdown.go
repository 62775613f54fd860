package preview

import (
	"bytes"
	"fmt"
	"html"
	"io/fs"
	"net/http"
	"path"
)

// serveMarkdown renders a .md file to HTML. Render failures fall back to the
// raw file rather than erroring the request; this is a preview aid, not a
// publishing pipeline.
func (h *Handler) serveMarkdown(w http.ResponseWriter, r *http.Request, name string) {
	timer := startRenderTimer(h.opts.Metrics)

	src, err := fs.ReadFile(h.opts.Site, name)
	if err != nil {
		timer.done("read_error")
		h.opts.Logger.Error(r.Context(), err, "markdown read failed", "file", name)
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	var body bytes.Buffer
	if err := h.md.Convert(src, &body); err != nil {
		timer.done("render_error")
		h.opts.Logger.Warn(r.Context(), "markdown render failed, serving raw",
			"file", name, "error", err.Error())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(src)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, markdownShell, html.EscapeString(path.Base(name)), body.String())
	timer.done("ok")
}

// minimal readable shell around rendered markdown
const markdownShell = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>body{max-width:48rem;margin:2rem auto;padding:0 1rem;font-family:sans-serif;line-height:1.6}pre{background:#f4f4f4;padding:1rem;overflow-x:auto}code{font-family:monospace}</style>
</head>
<body>
%s</body>
</html>
`
