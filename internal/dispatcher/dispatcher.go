// Package dispatcher is the single entry point of the gateway. It picks the
// repository addressed by a request and hands the request to the handler
// resolved for it.
package dispatcher

import (
	"context"
	"io"
	"strings"

	"gitlab.com/gitlab-org/labkit/log"

	"gitlab.com/gitlab-org/artifact-gateway/internal/future"
	"gitlab.com/gitlab-org/artifact-gateway/internal/handler"
	"gitlab.com/gitlab-org/artifact-gateway/internal/requestline"
	"gitlab.com/gitlab-org/artifact-gateway/internal/response"
	"gitlab.com/gitlab-org/artifact-gateway/metrics"
)

// Resolver resolves a repository name to the handler serving it
type Resolver interface {
	Resolve(ctx context.Context, repo string) *future.Future[handler.Handler]
}

// Dispatcher routes every request by the first segment of its path
type Dispatcher struct {
	resolver Resolver
}

// New returns a Dispatcher resolving repositories with resolver
func New(resolver Resolver) *Dispatcher {
	return &Dispatcher{resolver: resolver}
}

// Handle dispatches a request with a background context
func (d *Dispatcher) Handle(line string, headers handler.Headers, body io.Reader) response.Response {
	return d.HandleContext(context.Background(), line, headers, body)
}

// HandleContext dispatches a request. It never blocks and never fails:
// a malformed request line is answered with 400, the `*` target and paths
// without segments with 200, and every other request with the deferred
// response of the handler resolved for its repository.
func (d *Dispatcher) HandleContext(ctx context.Context, line string, headers handler.Headers, body io.Reader) response.Response {
	rl, err := requestline.Parse(line)
	if err != nil {
		log.WithError(err).Debug("rejecting malformed request line")
		metrics.RequestsDispatched.WithLabelValues("bad_request").Inc()

		return response.BadRequest()
	}

	if rl.Path() == requestline.Asterisk {
		metrics.RequestsDispatched.WithLabelValues("asterisk").Inc()

		return response.OK()
	}

	// a path without segments is answered like the `*` target, not rejected
	segments := Segments(rl.Path())
	if len(segments) == 0 {
		metrics.RequestsDispatched.WithLabelValues("empty_path").Inc()

		return response.OK()
	}

	metrics.RequestsDispatched.WithLabelValues("resolving").Inc()

	return handler.NewDeferred(d.resolver.Resolve(ctx, segments[0])).Handle(line, headers, body)
}

// Segments splits path on "/" and drops empty segments
func Segments(path string) []string {
	var segments []string

	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	return segments
}
