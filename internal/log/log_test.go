package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/keithlinneman/embeddir/internal/xerrors"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseLevel(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	L, err := New(Options{App: "embedtest", JsonFormat: true, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	L.Info(context.Background(), "scan complete", "files", 7)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "scan complete" {
		t.Fatalf("msg = %v", rec["msg"])
	}
	if rec["app"] != "embedtest" {
		t.Fatalf("app = %v", rec["app"])
	}
	if rec["files"] != float64(7) {
		t.Fatalf("files = %v", rec["files"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	L, err := New(Options{Level: slog.LevelWarn, JsonFormat: true, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	L.Debug(context.Background(), "hidden")
	L.Info(context.Background(), "hidden too")
	if buf.Len() != 0 {
		t.Fatalf("below-level records were written: %s", buf.String())
	}

	L.Warn(context.Background(), "visible")
	if buf.Len() == 0 {
		t.Fatal("warn record missing")
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	L, err := New(Options{JsonFormat: true, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	child := L.With("component", "gen")
	child.Info(context.Background(), "msg")

	if !strings.Contains(buf.String(), `"component":"gen"`) {
		t.Fatalf("With attr missing: %s", buf.String())
	}

	// parent unaffected
	buf.Reset()
	L.Info(context.Background(), "msg")
	if strings.Contains(buf.String(), "component") {
		t.Fatalf("parent logger gained child attrs: %s", buf.String())
	}
}

func TestLogger_ErrorStackEnrichment(t *testing.T) {
	var buf bytes.Buffer
	L, err := New(Options{JsonFormat: true, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	L.Error(context.Background(), xerrors.New("scan failed"), "generator error")

	out := buf.String()
	if !strings.Contains(out, `"stack"`) {
		t.Fatalf("no stack attached for xerrors error: %s", out)
	}
	if !strings.Contains(out, "scan failed") {
		t.Fatalf("error message missing: %s", out)
	}
}

// An explicit info stacktrace level must stick, even though info is the
// slog.Level zero value.
func TestLogger_StacktraceLevelInfo(t *testing.T) {
	var buf bytes.Buffer
	lvl := slog.LevelInfo
	L, err := New(Options{JsonFormat: true, Writer: &buf, StacktraceLevel: &lvl})
	if err != nil {
		t.Fatal(err)
	}

	L.Info(context.Background(), "note", "err", xerrors.New("soft failure"))
	if !strings.Contains(buf.String(), `"stack"`) {
		t.Fatalf("info-level stacktrace setting not honored: %s", buf.String())
	}

	// default stays error-only
	buf.Reset()
	D, err := New(Options{JsonFormat: true, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	D.Info(context.Background(), "note", "err", xerrors.New("soft failure"))
	if strings.Contains(buf.String(), `"stack"`) {
		t.Fatalf("default attached a stack below error: %s", buf.String())
	}
}

func TestFromContext_Fallback(t *testing.T) {
	if L := FromContext(context.Background()); L == nil {
		t.Fatal("FromContext returned nil for empty context")
	}
}

func TestFromContext_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	L, err := New(Options{JsonFormat: true, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(context.Background(), L)
	FromContext(ctx).Info(ctx, "via context")
	if !strings.Contains(buf.String(), "via context") {
		t.Fatalf("context logger not used: %s", buf.String())
	}
}

func TestNop_Safe(t *testing.T) {
	L := Nop()
	ctx := context.Background()
	L.Debug(ctx, "x")
	L.Info(ctx, "x")
	L.Warn(ctx, "x")
	L.Error(ctx, nil, "x")
	if err := L.Sync(); err != nil {
		t.Fatalf("Sync() = %v", err)
	}
	if L.With("k", "v") == nil {
		t.Fatal("With returned nil")
	}
}
