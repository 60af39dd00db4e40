package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/artifact-gateway/internal/config"
)

type checkFunc func(context.Context) error

func (f checkFunc) Check(ctx context.Context) error {
	return f(ctx)
}

var next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Remote-Addr", r.RemoteAddr)
	w.WriteHeader(http.StatusNoContent)
})

func testConfig() *config.Config {
	return &config.Config{
		General: config.General{
			StatusPath:    "/@status",
			MaxURILength:  64,
			CustomHeaders: http.Header{"X-Served-By": {"gateway"}},
		},
		Log:     config.Log{Format: "text"},
	}
}

func serve(t *testing.T, h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	return w
}

func TestChain(t *testing.T) {
	h, err := Chain(testConfig(), next, false)
	require.NoError(t, err)

	w := serve(t, h, httptest.NewRequest(http.MethodGet, "/maven/lib.jar", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "gateway", w.Header().Get("X-Served-By"))

	w = serve(t, h, httptest.NewRequest(http.MethodGet, "/@status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "success\n", w.Body.String())

	w = serve(t, h, httptest.NewRequest(http.MethodGet, "/maven/"+strings.Repeat("a", 64), nil))
	require.Equal(t, http.StatusRequestURITooLong, w.Code)
}

func TestChainStatusFailure(t *testing.T) {
	h, err := Chain(testConfig(), next, false, checkFunc(func(context.Context) error {
		return errors.New("store unreachable")
	}))
	require.NoError(t, err)

	w := serve(t, h, httptest.NewRequest(http.MethodGet, "/@status", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChainRecoversPanics(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	h, err := Chain(testConfig(), panicking, false)
	require.NoError(t, err)

	w := serve(t, h, httptest.NewRequest(http.MethodGet, "/maven/lib.jar", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestChainProxyHeaders(t *testing.T) {
	for name, tc := range map[string]struct {
		proxied bool
		want    string
	}{
		"direct":  {proxied: false, want: "192.0.2.1:1234"},
		"proxied": {proxied: true, want: "10.0.0.7"},
	} {
		t.Run(name, func(t *testing.T) {
			h, err := Chain(testConfig(), next, tc.proxied)
			require.NoError(t, err)

			r := httptest.NewRequest(http.MethodGet, "/maven/lib.jar", nil)
			r.Header.Set("X-Forwarded-For", "10.0.0.7")

			w := serve(t, h, r)
			require.Equal(t, tc.want, w.Header().Get("X-Remote-Addr"))
		})
	}
}

func TestCorsHandler(t *testing.T) {
	for name, tc := range map[string]struct {
		disabled bool
		want     string
	}{
		"enabled":  {want: "*"},
		"disabled": {disabled: true},
	} {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/maven/lib.jar", nil)
			r.Header.Set("Origin", "https://example.com")

			w := serve(t, CorsHandler(tc.disabled, next), r)
			require.Equal(t, tc.want, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRatelimiter(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		h := Ratelimiter(next, &config.RateLimit{})

		for i := 0; i < 3; i++ {
			r := httptest.NewRequest(http.MethodGet, "/maven/lib.jar", nil)
			require.Equal(t, http.StatusNoContent, serve(t, h, r).Code)
		}
	})

	t.Run("rejected_by_ip", func(t *testing.T) {
		h := Ratelimiter(next, &config.RateLimit{SourceIPLimitPerSecond: 0.01, SourceIPBurst: 1})

		first := httptest.NewRequest(http.MethodGet, "/maven/lib.jar", nil)
		first.RemoteAddr = "10.0.0.1:1000"
		require.Equal(t, http.StatusNoContent, serve(t, h, first).Code)

		second := httptest.NewRequest(http.MethodGet, "/npm/pkg.tgz", nil)
		second.RemoteAddr = "10.0.0.1:1001"
		require.Equal(t, http.StatusTooManyRequests, serve(t, h, second).Code)

		other := httptest.NewRequest(http.MethodGet, "/npm/pkg.tgz", nil)
		other.RemoteAddr = "10.0.0.2:1000"
		require.Equal(t, http.StatusNoContent, serve(t, h, other).Code)
	})
}
