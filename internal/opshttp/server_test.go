package opshttp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/keithlinneman/embeddir/internal/health"
)

func TestHealthzHandler(t *testing.T) {
	cases := []struct {
		name     string
		probe    health.Probe
		wantCode int
		wantBody string
	}{
		{"healthy", health.Fixed(true, ""), http.StatusOK, "ok"},
		{"unhealthy", health.Fixed(false, "tree unreadable"), http.StatusServiceUnavailable, "tree unreadable"},
		{"nil probe", nil, http.StatusOK, "ok"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthzHandler(tc.probe).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/-/healthy", nil))

			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestReadyzHandler_DrainFlip(t *testing.T) {
	var gate health.ShutdownGate
	h := ReadyzHandler(gate.Probe())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/-/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("before drain: status = %d", rec.Code)
	}

	gate.Set("shutting down")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/-/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("during drain: status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "shutting down") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestNewMux_MetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics"))
	})
	mux := NewMux(Options{Metrics: metrics})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "# metrics") {
		t.Fatalf("metrics route: code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestNewMux_PprofDisabledIs404(t *testing.T) {
	mux := NewMux(Options{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/heap", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("pprof disabled: status = %d, want 404", rec.Code)
	}
}

func TestNewMux_PprofEnabled(t *testing.T) {
	mux := NewMux(Options{EnablePprof: true})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("pprof index: status = %d, want 200", rec.Code)
	}
}
