// Command previewserver serves a directory the way it will look once baked
// into a binary with embedgen, resolving file contents from disk on every
// request so edits show up on reload.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keithlinneman/embeddir"
	"github.com/keithlinneman/embeddir/internal/cfg"
	"github.com/keithlinneman/embeddir/internal/gen"
	"github.com/keithlinneman/embeddir/internal/health"
	"github.com/keithlinneman/embeddir/internal/httpserver"
	"github.com/keithlinneman/embeddir/internal/log"
	"github.com/keithlinneman/embeddir/internal/metrics"
	"github.com/keithlinneman/embeddir/internal/opshttp"
	"github.com/keithlinneman/embeddir/internal/otelx"
	"github.com/keithlinneman/embeddir/internal/preview"
	"github.com/keithlinneman/embeddir/internal/prof"
	"github.com/keithlinneman/embeddir/internal/ratelimit"
	v "github.com/keithlinneman/embeddir/internal/version"
)

const appName = "embeddir-preview"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vi := v.Get()

	var conf cfg.App
	var showVersion bool

	cfg.Register(flag.CommandLine, &conf)
	flag.BoolVar(&showVersion, "V", false, "Print version+build information and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(appName, vi.String())
		os.Exit(0)
	}

	cfg.FillFromEnv(flag.CommandLine, "EMBEDDIR_", func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})

	if err := cfg.Validate(conf); err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	lvl, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %s: %v\n", conf.LogLevel, err)
		os.Exit(1)
	}
	stackLvl, err := log.ParseLevel(conf.StacktraceLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid stacktrace level %s: %v\n", conf.StacktraceLevel, err)
		os.Exit(1)
	}
	lg, err := log.New(log.Options{
		App:             appName,
		Level:           lvl,
		StacktraceLevel: &stackLvl,
		JsonFormat:      conf.LogJSON,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
		os.Exit(1)
	}
	defer lg.Sync()
	L := lg.With("component", "previewserver")
	ctx = log.WithContext(ctx, L)

	L.Info(ctx, "initializing",
		"version", vi.Version,
		"commit", vi.Commit,
		"go_version", vi.GoVersion,
		"root", conf.Root,
		"http_port", conf.HTTPPort,
		"admin_port", conf.AdminPort,
		"all_interfaces", conf.AllInterfaces,
		"render_markdown", conf.RenderMarkdown,
		"enable_pprof", conf.EnablePprof,
		"enable_tracing", conf.EnableTracing,
		"enable_pyroscope", conf.EnablePyroscope,
	)

	stopProf, profErr := prof.Start(ctx, prof.Options{
		Enabled:       conf.EnablePyroscope,
		AppName:       appName,
		ServerAddress: conf.PyroServer,
		TenantID:      conf.PyroTenantID,
		Tags: map[string]string{
			"app":     appName,
			"version": vi.Version,
			"commit":  vi.Commit,
		},
	})
	if profErr != nil {
		L.Error(ctx, profErr, "pyroscope start failed", "pyro_server", conf.PyroServer)
	}
	defer stopProf()

	// Insecure is fine: the collector, when enabled, is on localhost
	shutdownOTEL, err := otelx.Init(ctx, otelx.Options{
		Enabled:   conf.EnableTracing,
		Endpoint:  conf.OTLPEndpoint,
		Insecure:  true,
		Sample:    conf.TraceSample,
		Service:   "embeddir",
		Component: "previewserver",
		Version:   vi.Version,
	})
	if err != nil {
		L.Error(ctx, err, "otel init failed")
	}
	defer func() { _ = shutdownOTEL(context.Background()) }()

	m := metrics.New()
	m.SetBuildInfoFromVersion("embeddir", "previewserver", &vi)
	m.SetProfilingActive(conf.EnablePyroscope && profErr == nil)

	// Placeholder scan: structure only, contents come from disk per request.
	scanStart := time.Now()
	tree, err := gen.Scan(ctx, gen.ScanOptions{
		Logger:          L,
		Root:            conf.Root,
		Placeholder:     true,
		ReadConcurrency: conf.ReadConcurrency,
		ExcludeNames:    conf.ExcludeNames(),
	})
	if err != nil {
		L.Error(ctx, err, "scan failed", "root", conf.Root)
		os.Exit(1)
	}
	m.ObserveScanDuration(time.Since(scanStart).Seconds())
	m.SetBundle(tree.BundleID, tree.Root)
	m.SetTreeStats(tree.CountFiles(), tree.TotalBytes())

	L.Info(ctx, "scanned tree",
		"root", tree.Root,
		"bundle_id", tree.BundleID,
		"files", tree.CountFiles(),
		"bytes", tree.TotalBytes(),
	)

	site := embeddir.FS(tree.LiveDir(nil))

	previewHandler, err := preview.New(&preview.Options{
		Logger:         L,
		Site:           site,
		RenderMarkdown: conf.RenderMarkdown,
		Metrics:        m,
	})
	if err != nil {
		L.Error(ctx, err, "failed to create preview handler")
		os.Exit(1)
	}

	var gate health.ShutdownGate
	readiness := health.All(gate.Probe())

	srvOpts := &httpserver.Options{
		Logger:        L,
		Port:          conf.HTTPPort,
		AllInterfaces: conf.AllInterfaces,
		Site:          previewHandler,
		Health:        health.Fixed(true, ""),
		Readiness:     readiness,
		UseRecoverMW:  true,
		OnPanic:       m.IncHttpPanic,
		MetricsMW:     m.Middleware,
	}

	if conf.EnableRateLimit {
		limiter := ratelimit.New(ctx,
			ratelimit.WithRate(conf.RatePerSecond, conf.RateBurst),
			ratelimit.WithOnDenied(func(ip string) {
				m.IncRateLimitDenied()
			}),
			ratelimit.WithOnFirstDenied(func(ip string) {
				L.Warn(ctx, "rate limit triggered", "ip", ip)
			}),
		)
		srvOpts.RateLimitMW = limiter.Middleware
	}

	siteHTTPStop, err := httpserver.Start(ctx, srvOpts)
	if err != nil {
		L.Error(ctx, err, "failed to start http listener")
		os.Exit(1)
	}
	defer func() { _ = siteHTTPStop(context.Background()) }()

	opsHTTPStop, err := opshttp.Start(ctx, L, opshttp.Options{
		Port:        conf.AdminPort,
		Metrics:     m.Handler(),
		EnablePprof: conf.EnablePprof,
		Health:      health.Fixed(true, ""),
		Readiness:   readiness,
	})
	if err != nil {
		L.Error(ctx, err, "failed to start ops http listener")
		os.Exit(1)
	}
	defer func() { _ = opsHTTPStop(context.Background()) }()

	L.Info(ctx, "preview ready", "url", fmt.Sprintf("http://127.0.0.1:%d/", conf.HTTPPort))

	<-ctx.Done()

	L.Info(context.Background(), "shutdown signal received")
	gate.Set("draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := siteHTTPStop(shutdownCtx); err != nil {
		L.Error(context.Background(), err, "http server shutdown")
	}
	if err := opsHTTPStop(shutdownCtx); err != nil {
		L.Error(context.Background(), err, "ops http server shutdown")
	}
	L.Info(context.Background(), "shutdown complete")
}
