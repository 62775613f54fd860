package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/keithlinneman/embeddir/internal/version"
)

func gather(t *testing.T, m *ServerMetrics) map[string]*dto.MetricFamily {
	t.Helper()
	fams, err := m.reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(fams))
	for _, f := range fams {
		out[f.GetName()] = f
	}
	return out
}

func TestNew_RegistersCoreInstruments(t *testing.T) {
	m := New()
	m.IncHttpPanic()
	m.IncRateLimitDenied()

	fams := gather(t, m)
	for _, name := range []string{
		"http_panic_total",
		"http_requests_rate_limited_total",
		"go_goroutines",
	} {
		if _, ok := fams[name]; !ok {
			t.Fatalf("metric %s not registered", name)
		}
	}
}

func TestSetBundle_SingleSeries(t *testing.T) {
	m := New()
	m.SetBundle("bundle-a", "/site")
	m.SetBundle("bundle-b", "/site")

	fams := gather(t, m)
	fam, ok := fams["embeddir_bundle_info"]
	if !ok {
		t.Fatal("embeddir_bundle_info not found")
	}
	if n := len(fam.GetMetric()); n != 1 {
		t.Fatalf("bundle_info has %d series, want 1 (old bundle not reset)", n)
	}

	var id string
	for _, lp := range fam.GetMetric()[0].GetLabel() {
		if lp.GetName() == "bundle_id" {
			id = lp.GetValue()
		}
	}
	if id != "bundle-b" {
		t.Fatalf("bundle_id = %q, want bundle-b", id)
	}
}

func TestSetTreeStats(t *testing.T) {
	m := New()
	m.SetTreeStats(12, 4096)

	fams := gather(t, m)
	if got := fams["embeddir_tree_files"].GetMetric()[0].GetGauge().GetValue(); got != 12 {
		t.Fatalf("tree_files = %v", got)
	}
	if got := fams["embeddir_tree_bytes"].GetMetric()[0].GetGauge().GetValue(); got != 4096 {
		t.Fatalf("tree_bytes = %v", got)
	}
}

func TestRenderMetrics(t *testing.T) {
	m := New()
	m.IncRender("ok")
	m.IncRender("ok")
	m.IncRender("render_error")
	m.ObserveRenderDuration(0.01)

	fams := gather(t, m)
	fam := fams["embeddir_render_total"]
	if fam == nil {
		t.Fatal("embeddir_render_total not found")
	}

	byOutcome := map[string]float64{}
	for _, mt := range fam.GetMetric() {
		for _, lp := range mt.GetLabel() {
			if lp.GetName() == "outcome" {
				byOutcome[lp.GetValue()] = mt.GetCounter().GetValue()
			}
		}
	}
	if byOutcome["ok"] != 2 || byOutcome["render_error"] != 1 {
		t.Fatalf("render counts = %v", byOutcome)
	}

	if got := fams["embeddir_render_duration_seconds"].GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("render duration samples = %d", got)
	}
}

func TestSetBuildInfoFromVersion(t *testing.T) {
	m := New()
	vi := version.Get()
	m.SetBuildInfoFromVersion("embeddir", "previewserver", &vi)

	fams := gather(t, m)
	fam, ok := fams["build_info"]
	if !ok {
		t.Fatal("build_info not found")
	}
	if got := fam.GetMetric()[0].GetGauge().GetValue(); got != 1 {
		t.Fatalf("build_info value = %v", got)
	}
}
