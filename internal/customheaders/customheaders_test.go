package customheaders_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/artifact-gateway/internal/customheaders"
)

func TestParseHeaderString(t *testing.T) {
	tests := []struct {
		name          string
		headerStrings []string
		want          http.Header
		wantErr       bool
	}{
		{
			name:          "Normal case",
			headerStrings: []string{"X-Test-String: Test"},
			want:          http.Header{"X-Test-String": {"Test"}},
		},
		{
			name:          "Whitespace trim case",
			headerStrings: []string{"   X-Test-String   :   Test  "},
			want:          http.Header{"X-Test-String": {"Test"}},
		},
		{
			name:          "Repeated header",
			headerStrings: []string{"Cache-Control: no-transform", "cache-control: private"},
			want:          http.Header{"Cache-Control": {"no-transform", "private"}},
		},
		{
			name:          "Invalid case",
			headerStrings: []string{"X-Test-String Test"},
			wantErr:       true,
		},
		{
			name:          "Empty header",
			headerStrings: []string{""},
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := customheaders.ParseHeaderString(tt.headerStrings)
			if tt.wantErr {
				require.ErrorIs(t, err, customheaders.ErrInvalidHeaderParameter)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNewMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	customheaders.NewMiddleware(next, http.Header{"X-Served-By": {"gateway"}}).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/maven/lib.jar", nil))

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "gateway", w.Header().Get("X-Served-By"))
}
