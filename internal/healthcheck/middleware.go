package healthcheck

import (
	"context"
	"net/http"
	"time"

	"gitlab.com/gitlab-org/labkit/log"
)

const checkTimeout = 5 * time.Second

// Checker reports whether a dependency of the gateway is usable
type Checker interface {
	Check(ctx context.Context) error
}

// NewMiddleware is serving the application status check on statusPath. The
// check fails with 503 when any checker reports an error.
func NewMiddleware(handler http.Handler, statusPath string, checkers ...Checker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if statusPath == "" || r.URL.Path != statusPath {
			handler.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		for _, checker := range checkers {
			if err := checker.Check(ctx); err != nil {
				log.WithError(err).Error("status check failed")

				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("failure\n"))
				return
			}
		}

		w.Write([]byte("success\n"))
	})
}
