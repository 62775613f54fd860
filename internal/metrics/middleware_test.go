package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	m := New()

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hello"))
	}))

	for range 3 {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/page", nil))
	}

	fams := gather(t, m)
	fam := fams["http_requests_total"]
	if fam == nil {
		t.Fatal("http_requests_total not found")
	}

	var total float64
	for _, mt := range fam.GetMetric() {
		if hasLabel(mt, "status", "200") && hasLabel(mt, "method", "GET") {
			total += mt.GetCounter().GetValue()
		}
	}
	if total != 3 {
		t.Fatalf("requests counted = %v, want 3", total)
	}
}

func TestMiddleware_Counts5xxAsErrors(t *testing.T) {
	m := New()

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

	fams := gather(t, m)
	fam := fams["http_errors_total"]
	if fam == nil {
		t.Fatal("http_errors_total not found")
	}
	if got := fam.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("errors_total = %v", got)
	}
}

func TestMiddleware_UsesChiRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/files/{name}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/files/a.txt", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/files/b.txt", nil))

	fams := gather(t, m)
	fam := fams["http_requests_total"]
	if fam == nil {
		t.Fatal("http_requests_total not found")
	}
	// both requests collapse into one route label
	if n := len(fam.GetMetric()); n != 1 {
		t.Fatalf("got %d series, want 1", n)
	}
	if !hasLabel(fam.GetMetric()[0], "route", "/files/{name}") {
		t.Fatalf("route label = %v", fam.GetMetric()[0].GetLabel())
	}
}

func TestMiddleware_DefaultStatus200(t *testing.T) {
	m := New()

	// handler never writes anything
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	fams := gather(t, m)
	for _, mt := range fams["http_requests_total"].GetMetric() {
		if !hasLabel(mt, "status", "200") {
			t.Fatalf("status label = %v", mt.GetLabel())
		}
	}
}

func hasLabel(mt *dto.Metric, name, value string) bool {
	for _, lp := range mt.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}
