// AngelaMos | 2026
// metrics_test.go

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matches(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matches(m *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, lp := range m.GetLabel() {
		if want, ok := labels[lp.GetName()]; ok {
			if lp.GetValue() != want {
				return false
			}
			found++
		}
	}
	return found == len(labels)
}

func TestRecordCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuth("password", "failure")
	c.RecordAuth("password", "failure")
	c.RecordNotification("news", "sent")
	c.RecordRateLimited("auth")

	if v := counterValue(t, reg, "borka_auth_attempts_total", map[string]string{"method": "password", "outcome": "failure"}); v != 2 {
		t.Errorf("auth failures = %v, want 2", v)
	}
	if v := counterValue(t, reg, "borka_notifications_total", map[string]string{"kind": "news", "outcome": "sent"}); v != 1 {
		t.Errorf("notifications = %v, want 1", v)
	}
	if v := counterValue(t, reg, "borka_rate_limited_total", map[string]string{"scope": "auth"}); v != 1 {
		t.Errorf("rate limited = %v, want 1", v)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/events/{eventID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/"+id, nil))
	}

	labels := map[string]string{"method": "GET", "route": "/events/{eventID}", "status": "404"}
	if v := counterValue(t, reg, "borka_http_requests_total", labels); v != 3 {
		t.Errorf("requests = %v, want 3", v)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAuth("register", "success")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `borka_auth_attempts_total{method="register",outcome="success"} 1`) {
		t.Errorf("metrics output missing counter:\n%s", body)
	}
}
