package preview

import (
	"errors"
	"io/fs"
	"time"

	"github.com/keithlinneman/embeddir/internal/log"
)

var ErrInvalidOptions = errors.New("preview: invalid options")

// RenderMetrics is implemented by the metrics package to observe markdown
// rendering.
type RenderMetrics interface {
	IncRender(outcome string)
	ObserveRenderDuration(seconds float64)
}

type Options struct {
	Logger log.Logger

	// Site is the embedded tree being previewed (normally embeddir.FS over a
	// live-scanned Dir).
	Site fs.FS

	// RenderMarkdown serves .md files as rendered HTML instead of raw text.
	RenderMarkdown bool

	// Site404File is looked up in Site before falling back to plain text.
	Site404File string // default: "404.html"

	// Cache policies applied by file extension.
	HTMLCacheControl  string // default: "no-cache"
	AssetCacheControl string // default: "no-cache"
	OtherCacheControl string // default: "no-cache"

	// Metrics receives render observability signals; optional.
	Metrics RenderMetrics
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = log.Nop()
	}
	if o.Site404File == "" {
		o.Site404File = "404.html"
	}
	// previews should never be cached by the browser; edits must show up on
	// the next reload
	if o.HTMLCacheControl == "" {
		o.HTMLCacheControl = "no-cache"
	}
	if o.AssetCacheControl == "" {
		o.AssetCacheControl = "no-cache"
	}
	if o.OtherCacheControl == "" {
		o.OtherCacheControl = "no-cache"
	}
}

func (o *Options) validate() error {
	if o.Site == nil {
		return errors.Join(ErrInvalidOptions, errors.New("Site is nil"))
	}
	return nil
}

// renderTimer is a tiny helper so ServeHTTP stays readable.
type renderTimer struct {
	start   time.Time
	metrics RenderMetrics
}

func startRenderTimer(m RenderMetrics) renderTimer {
	return renderTimer{start: time.Now(), metrics: m}
}

func (t renderTimer) done(outcome string) {
	if t.metrics == nil {
		return
	}
	t.metrics.IncRender(outcome)
	t.metrics.ObserveRenderDuration(time.Since(t.start).Seconds())
}
