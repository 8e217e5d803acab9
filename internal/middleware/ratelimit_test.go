// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"last forwarded hop", "10.0.0.1, 192.168.1.9", "", "127.0.0.1:5000", "192.168.1.9"},
		{"real ip", "", "172.16.0.4", "127.0.0.1:5000", "172.16.0.4"},
		{"peer address", "", "", "127.0.0.1:5000", "127.0.0.1"},
		{"peer without port", "", "", "pipe", "pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}

			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyFuncs(t *testing.T) {
	r := httptest.NewRequest(http.MethodPut, "/api/events/3f2b8c1e-9a7d-4e21-b6c3-2d9f0a1b4c5e", nil)
	r.RemoteAddr = "192.168.1.9:4000"

	if got, want := KeyByIPAndEndpoint(r), "ip:192.168.1.9:PUT:/api/events/{id}"; got != want {
		t.Errorf("KeyByIPAndEndpoint() = %q, want %q", got, want)
	}

	if got := KeyByUser(r); got != "ip:192.168.1.9" {
		t.Errorf("anonymous KeyByUser() = %q", got)
	}

	r = r.WithContext(WithPrincipal(context.Background(), &Principal{UserID: "user_0123456789ab"}))
	if got := KeyByUser(r); got != "user:user_0123456789ab" {
		t.Errorf("KeyByUser() = %q", got)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := map[string]string{
		"/api/admin/users/user_0123456789ab/role": "/api/admin/users/{id}/role",
		"/api/news/42":                            "/api/news/{id}",
		"/api/auth/login":                         "/api/auth/login",
		"/api/calendar/event/user_xyz/ics":        "/api/calendar/event/user_xyz/ics",
	}

	for in, want := range tests {
		if got := normalizeEndpoint(in); got != want {
			t.Errorf("normalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBypassPaths(t *testing.T) {
	bypass := BypassPaths("/healthz", "/metrics")

	for path, want := range map[string]bool{"/healthz": true, "/metrics": true, "/api/events": false} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		if got := bypass(r); got != want {
			t.Errorf("bypass(%s) = %v, want %v", path, got, want)
		}
	}
}

func TestLocalLimiter(t *testing.T) {
	now := time.Date(2025, 1, 20, 18, 0, 0, 0, time.UTC)
	l := newLocalLimiter(func() time.Time { return now })
	limit := PerMinute(60, 2)

	for i := range 2 {
		res, err := l.allow("ip:1.2.3.4", limit)
		if err != nil || res.Allowed != 1 {
			t.Fatalf("request %d: allowed = %v, err = %v", i+1, res, err)
		}
	}

	res, err := l.allow("ip:1.2.3.4", limit)
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed != 0 || res.RetryAfter != time.Second {
		t.Errorf("third request = %+v, want denied with 1s retry", res)
	}

	if res, _ := l.allow("ip:5.6.7.8", limit); res.Allowed != 1 {
		t.Error("separate key shares a bucket")
	}

	now = now.Add(time.Second)
	if res, _ := l.allow("ip:1.2.3.4", limit); res.Allowed != 1 {
		t.Error("bucket did not refill after one interval")
	}

	now = now.Add(localEntryTTL + localSweepInterval)
	_, _ = l.allow("ip:9.9.9.9", limit)
	if len(l.buckets) != 1 {
		t.Errorf("buckets after sweep = %d, want 1", len(l.buckets))
	}
}

func TestLocalLimiterRejectsInvalidLimit(t *testing.T) {
	l := newLocalLimiter(time.Now)
	if _, err := l.allow("k", PerMinute(0, 1)); err == nil {
		t.Error("zero rate accepted")
	}
}
