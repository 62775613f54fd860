// Command embedgen scans a directory and generates a Go source file with the
// embedded file tables, for baking static assets into a binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/keithlinneman/embeddir/internal/gen"
	"github.com/keithlinneman/embeddir/internal/log"
	v "github.com/keithlinneman/embeddir/internal/version"
)

const appName = "embedgen"

type genConfig struct {
	Root            string
	Out             string
	Package         string
	Var             string
	WithMetadata    bool
	Placeholder     bool
	Exclude         string
	ReadConcurrency int
	LogLevel        string
	LogJSON         bool
}

func registerFlags(fs *flag.FlagSet, c *genConfig) {
	fs.StringVar(&c.Root, "root", "", "directory to embed (required)")
	fs.StringVar(&c.Out, "out", "", "output .go file (required; \"-\" for stdout)")
	fs.StringVar(&c.Package, "package", "assets", "package name for the generated file")
	fs.StringVar(&c.Var, "var", "Assets", "exported variable name for the root table")
	fs.BoolVar(&c.WithMetadata, "metadata", false, "capture file modification times")
	fs.BoolVar(&c.Placeholder, "placeholder", false, "skip file contents (embeddev-only tables)")
	fs.StringVar(&c.Exclude, "exclude", ".git,node_modules", "comma-separated names to skip")
	fs.IntVar(&c.ReadConcurrency, "read-concurrency", 8, "parallel file reads (1..256)")
	fs.StringVar(&c.LogLevel, "log-level", "warn", "debug|info|warn|error")
	fs.BoolVar(&c.LogJSON, "log-json", false, "JSON logs (true) or logfmt (false)")
}

func excludeNames(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var conf genConfig
	var showVersion bool
	registerFlags(flag.CommandLine, &conf)
	flag.BoolVar(&showVersion, "V", false, "Print version+build information and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(appName, v.Get().String())
		os.Exit(0)
	}

	if conf.Root == "" || conf.Out == "" {
		fmt.Fprintln(os.Stderr, "usage: embedgen -root <dir> -out <file.go> [-package name] [-var Name]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	lvl, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %s: %v\n", conf.LogLevel, err)
		os.Exit(1)
	}
	lg, err := log.New(log.Options{
		App:        appName,
		Level:      lvl,
		JsonFormat: conf.LogJSON,
		Writer:     os.Stderr,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
		os.Exit(1)
	}
	defer lg.Sync()
	L := lg.With("component", appName)

	tree, err := gen.Scan(ctx, gen.ScanOptions{
		Logger:          L,
		Root:            conf.Root,
		WithMetadata:    conf.WithMetadata,
		Placeholder:     conf.Placeholder,
		ReadConcurrency: conf.ReadConcurrency,
		ExcludeNames:    excludeNames(conf.Exclude),
	})
	if err != nil {
		L.Error(ctx, err, "scan failed", "root", conf.Root)
		os.Exit(1)
	}

	src, err := gen.Emit(tree, gen.EmitOptions{
		PackageName: conf.Package,
		VarName:     conf.Var,
	})
	if err != nil {
		L.Error(ctx, err, "emit failed")
		os.Exit(1)
	}

	if conf.Out == "-" {
		if _, err := os.Stdout.Write(src); err != nil {
			L.Error(ctx, err, "write to stdout failed")
			os.Exit(1)
		}
		return
	}

	if err := os.WriteFile(conf.Out, src, 0o644); err != nil {
		L.Error(ctx, err, "write failed", "out", conf.Out)
		os.Exit(1)
	}

	L.Info(ctx, "generated",
		"out", conf.Out,
		"files", tree.CountFiles(),
		"bytes", tree.TotalBytes(),
		"bundle_id", tree.BundleID,
	)
}
