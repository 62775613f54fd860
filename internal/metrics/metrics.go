// Package metrics holds the Prometheus registry and instruments for the
// preview server: HTTP request metrics, markdown render metrics, and gauges
// describing the embedded tree being served.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keithlinneman/embeddir/internal/version"
)

type ServerMetrics struct {
	reg     *prometheus.Registry
	handler http.Handler

	inflight       prometheus.Gauge
	reqTotal       *prometheus.CounterVec
	reqDur         *prometheus.HistogramVec
	respBytes      *prometheus.HistogramVec
	httpPanicTotal prometheus.Counter
	errorsTotal    *prometheus.CounterVec

	buildInfo            *prometheus.GaugeVec
	ratelimitDeniedTotal prometheus.Counter
	profilingActive      prometheus.Gauge

	// embedded tree metrics
	bundleInfo       *prometheus.GaugeVec
	treeFiles        prometheus.Gauge
	treeBytes        prometheus.Gauge
	scanDuration     prometheus.Histogram
	scannedTimestamp prometheus.Gauge

	// markdown rendering
	renderTotal    *prometheus.CounterVec
	renderDuration prometheus.Histogram
}

// New returns a fresh registry + standard collectors + HTTP metrics.
// Safe labels only (method, route, code) to avoid path/cardinality explosions.
func New() *ServerMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &ServerMetrics{
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests",
		}),
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		respBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Response size by method and route",
			Buckets: []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304, 16777216},
		}, []string{"method", "route"}),
		httpPanicTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_panic_total",
			Help: "Total number of recovered httpserver panics",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total 5xx HTTP server errors by method and route",
		}, []string{"method", "route"}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build metadata (value is always 1)",
		}, []string{"app", "component", "version", "commit", "commit_date", "build_id", "build_date", "vcs_dirty", "go_version"}),
		ratelimitDeniedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_requests_rate_limited_total",
			Help: "Total requests rejected by rate limiter",
		}),
		profilingActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "profiling_active",
			Help: "Whether continuous profiling is active (1) or disabled/failed (0)",
		}),
		bundleInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "embeddir_bundle_info",
			Help: "Currently served bundle (label carries identity, value is always 1)",
		}, []string{"bundle_id", "root"}),
		treeFiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "embeddir_tree_files",
			Help: "Number of files in the scanned tree",
		}),
		treeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "embeddir_tree_bytes",
			Help: "Total bytes across all files in the scanned tree",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "embeddir_scan_duration_seconds",
			Help:    "Time to walk and read the source directory",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		scannedTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "embeddir_scanned_timestamp_seconds",
			Help: "Unix timestamp of the last directory scan",
		}),
		renderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "embeddir_render_total",
			Help: "Markdown renders by outcome (ok, read_error, render_error)",
		}, []string{"outcome"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "embeddir_render_duration_seconds",
			Help:    "Markdown render latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
	reg.MustRegister(
		m.inflight,
		m.reqTotal,
		m.reqDur,
		m.respBytes,
		m.httpPanicTotal,
		m.errorsTotal,
		m.buildInfo,
		m.ratelimitDeniedTotal,
		m.profilingActive,
		m.bundleInfo,
		m.treeFiles,
		m.treeBytes,
		m.scanDuration,
		m.scannedTimestamp,
		m.renderTotal,
		m.renderDuration,
	)

	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	m.reg = reg
	return m
}

func (m *ServerMetrics) Handler() http.Handler {
	return m.handler
}

func (m *ServerMetrics) IncHttpPanic() {
	m.httpPanicTotal.Inc()
}

// set once at startup.
func (m *ServerMetrics) SetBuildInfoFromVersion(app, component string, vi *version.Info) {
	dirty := "unknown"
	if vi.VCSDirty != nil {
		dirty = strconv.FormatBool(*vi.VCSDirty)
	}
	m.buildInfo.With(prometheus.Labels{
		"app":         app,
		"component":   component,
		"version":     vi.Version,
		"commit":      vi.Commit,
		"commit_date": vi.CommitDate,
		"build_id":    vi.BuildId,
		"build_date":  vi.BuildDate,
		"go_version":  vi.GoVersion,
		"vcs_dirty":   dirty,
	}).Set(1)
}

func (m *ServerMetrics) IncRateLimitDenied() {
	m.ratelimitDeniedTotal.Inc()
}

func (m *ServerMetrics) SetProfilingActive(active bool) {
	if active {
		m.profilingActive.Set(1)
	} else {
		m.profilingActive.Set(0)
	}
}

// SetBundle records the identity of the tree currently being served.
func (m *ServerMetrics) SetBundle(bundleID, root string) {
	m.bundleInfo.Reset()
	m.bundleInfo.WithLabelValues(bundleID, root).Set(1)
}

func (m *ServerMetrics) SetTreeStats(files int, bytes int64) {
	m.treeFiles.Set(float64(files))
	m.treeBytes.Set(float64(bytes))
}

func (m *ServerMetrics) ObserveScanDuration(seconds float64) {
	m.scanDuration.Observe(seconds)
	m.scannedTimestamp.Set(float64(time.Now().Unix()))
}

// IncRender and ObserveRenderDuration satisfy preview.RenderMetrics.

func (m *ServerMetrics) IncRender(outcome string) {
	m.renderTotal.WithLabelValues(outcome).Inc()
}

func (m *ServerMetrics) ObserveRenderDuration(seconds float64) {
	m.renderDuration.Observe(seconds)
}
