package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var validTime = time.Date(2021, 10, 1, 9, 0, 0, 0, time.UTC)

func frozenNow() time.Time {
	return validTime
}

func newTestRateLimiter(t *testing.T, burst int) *RateLimiter {
	t.Helper()

	rl := New(
		WithNow(frozenNow),
		WithSourceIPLimitPerSecond(1),
		WithSourceIPBurstSize(burst),
	)
	rl.sourceIPBlockedCount = prometheus.NewCounter(prometheus.CounterOpts{Name: "blocked"})
	t.Cleanup(rl.Stop)

	return rl
}

func TestSourceIPAllowed(t *testing.T) {
	rl := newTestRateLimiter(t, 2)

	require.True(t, rl.SourceIPAllowed("10.0.0.1"))
	require.True(t, rl.SourceIPAllowed("10.0.0.1"))
	require.False(t, rl.SourceIPAllowed("10.0.0.1"), "burst exhausted")

	require.True(t, rl.SourceIPAllowed("10.0.0.2"), "other sources keep their own budget")

	rl.now = func() time.Time { return validTime.Add(time.Second) }
	require.True(t, rl.SourceIPAllowed("10.0.0.1"), "a token is earned after one second")
}

func TestSourceIPLimiterMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		proxied    bool
	}{
		{name: "direct", remoteAddr: "10.0.0.1:41000"},
		{name: "direct_without_port", remoteAddr: "10.0.0.1"},
		{name: "proxied", remoteAddr: "172.16.0.1:41000", forwarded: "10.0.0.1", proxied: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := newTestRateLimiter(t, 1)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})

			var h http.Handler = rl.SourceIPLimiter(next)
			if tt.proxied {
				h = handlers.ProxyHeaders(h)
			}

			serve := func() *httptest.ResponseRecorder {
				r := httptest.NewRequest(http.MethodGet, "http://gateway.example.com/maven/lib.jar", nil)
				r.RemoteAddr = tt.remoteAddr
				if tt.forwarded != "" {
					r.Header.Set(headerXForwardedFor, tt.forwarded)
				}

				w := httptest.NewRecorder()
				h.ServeHTTP(w, r)

				return w
			}

			require.Equal(t, http.StatusNoContent, serve().Code)

			w := serve()
			require.Equal(t, http.StatusTooManyRequests, w.Code)
			require.Contains(t, w.Body.String(), "Too many requests")
			require.Equal(t, float64(1), testutil.ToFloat64(rl.sourceIPBlockedCount))

			_, cached := rl.sourceIPCache.FindOrFetch("10.0.0.1", func() (*rate.Limiter, error) {
				t.Fatal("limiter for the source IP was not cached")
				return nil, nil
			})
			require.NoError(t, cached)
		})
	}
}
