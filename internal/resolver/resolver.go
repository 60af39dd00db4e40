// Package resolver turns a repository name into the handler serving it, by
// reading the repository configuration from a configuration store.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/log"

	"gitlab.com/gitlab-org/artifact-gateway/internal/errortracking"
	"gitlab.com/gitlab-org/artifact-gateway/internal/future"
	"gitlab.com/gitlab-org/artifact-gateway/internal/handler"
	"gitlab.com/gitlab-org/artifact-gateway/internal/response"
	"gitlab.com/gitlab-org/artifact-gateway/internal/storage"
	"gitlab.com/gitlab-org/artifact-gateway/metrics"
)

// ErrResolutionTimeout is logged when the configuration store does not answer
// within the resolution timeout
var ErrResolutionTimeout = errors.New("repository resolution timed out")

// Timeout answers every request with 504. It replaces a handler whose
// resolution did not finish in time.
var Timeout = handler.Func(func(string, handler.Headers, io.Reader) response.Response {
	return response.GatewayTimeout()
})

// Option configures a Resolver
type Option func(*Resolver)

// WithTimeout bounds how long a resolution may wait for the configuration
// store. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = timeout
	}
}

// Resolver resolves repository names to handlers. Every call issues its own
// store read; nothing is cached.
type Resolver struct {
	store    storage.Store
	registry Registry
	timeout  time.Duration
}

// New returns a Resolver reading from store and building handlers from registry
func New(store storage.Store, registry Registry, opts ...Option) *Resolver {
	if registry == nil {
		registry = Registry{}
	}

	r := &Resolver{store: store, registry: registry}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve returns a future handler for repo. The future always completes:
// every outcome other than a successfully built handler resolves to
// handler.NotFound, and a resolution exceeding the timeout resolves to Timeout.
func (r *Resolver) Resolve(ctx context.Context, repo string) *future.Future[handler.Handler] {
	result := future.New[handler.Handler]()
	start := time.Now()

	if r.timeout > 0 {
		timer := time.AfterFunc(r.timeout, func() {
			if result.Complete(Timeout) {
				observe("timeout", start)
				logger(repo).WithError(ErrResolutionTimeout).WithField("timeout", r.timeout).Warn("repository resolution timed out")
			}
		})
		result.OnComplete(func(handler.Handler) { timer.Stop() })
	}

	r.store.Value(ctx, repo).OnComplete(func(lookup storage.Lookup) {
		h, outcome := r.handlerFor(repo, lookup)

		if result.Complete(h) {
			observe(outcome, start)
		}
	})

	return result
}

func (r *Resolver) handlerFor(repo string, lookup storage.Lookup) (handler.Handler, string) {
	if errors.Is(lookup.Error, context.Canceled) || errors.Is(lookup.Error, context.DeadlineExceeded) {
		logger(repo).WithError(lookup.Error).Debug("repository resolution canceled")

		return handler.NotFound{}, "canceled"
	}

	if lookup.Error != nil {
		logger(repo).WithError(lookup.Error).Error("could not read repository configuration")
		errortracking.CaptureErrWithStackTrace(lookup.Error, errortracking.WithRepository(repo))

		return handler.NotFound{}, "store_error"
	}

	if !lookup.Exists {
		logger(repo).Debug("repository is not configured")

		return handler.NotFound{}, "not_found"
	}

	config, err := ParseConfig(lookup.Value)
	if err != nil {
		logger(repo).WithError(err).Warn("invalid repository configuration")

		return handler.NotFound{}, "invalid_config"
	}

	factory, ok := r.registry.Factory(config.Repo.Type)
	if !ok {
		logger(repo).WithField("repository_type", config.Repo.Type).Warn("unknown repository type")

		return handler.NotFound{}, "unknown_type"
	}

	h, err := factory(repo, config.Repo)
	if err != nil {
		err = fmt.Errorf("building %q handler: %w", config.Repo.Type, err)
		logger(repo).WithError(err).Error("could not build repository handler")
		errortracking.CaptureErrWithStackTrace(err, errortracking.WithRepository(repo))

		return handler.NotFound{}, "factory_error"
	}

	if h == nil {
		return handler.NotFound{}, "factory_error"
	}

	return h, "configured"
}

func observe(outcome string, start time.Time) {
	metrics.HandlerResolutions.WithLabelValues(outcome).Inc()
	metrics.HandlerResolutionDuration.Observe(time.Since(start).Seconds())
}

func logger(repo string) *logrus.Entry {
	return log.WithField("repository", repo)
}
