package handlers

import (
	"net/http"

	ghandlers "github.com/gorilla/handlers"
	"gitlab.com/gitlab-org/labkit/correlation"
	"gitlab.com/gitlab-org/labkit/log"

	"gitlab.com/gitlab-org/artifact-gateway/internal/config"
	"gitlab.com/gitlab-org/artifact-gateway/internal/customheaders"
	"gitlab.com/gitlab-org/artifact-gateway/internal/healthcheck"
	"gitlab.com/gitlab-org/artifact-gateway/internal/logging"
	"gitlab.com/gitlab-org/artifact-gateway/internal/urilimiter"
)

// Chain wraps the dispatching handler with the gateway middleware, outermost
// first: recovery, forwarding headers on proxy listeners, correlation, access
// logging, rate limiting, URI length limit, status page, custom headers and
// CORS.
func Chain(cfg *config.Config, dispatch http.Handler, proxied bool, checkers ...healthcheck.Checker) (http.Handler, error) {
	handler := CorsHandler(cfg.General.DisableCrossOriginRequests, dispatch)
	handler = customheaders.NewMiddleware(handler, cfg.General.CustomHeaders)
	handler = healthcheck.NewMiddleware(handler, cfg.General.StatusPath, checkers...)
	handler = urilimiter.NewMiddleware(handler, cfg.General.MaxURILength)
	handler = Ratelimiter(handler, &cfg.RateLimit)

	handler, err := logging.BasicAccessLogger(handler, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	var correlationOpts []correlation.InboundHandlerOption
	if cfg.General.PropagateCorrelationID {
		correlationOpts = append(correlationOpts, correlation.WithPropagation())
	}
	handler = correlation.InjectCorrelationID(handler, correlationOpts...)

	if proxied {
		handler = ghandlers.ProxyHeaders(handler)
	}

	return ghandlers.RecoveryHandler(
		ghandlers.RecoveryLogger(log.WithField("handler", "recovery")),
		ghandlers.PrintRecoveryStack(true),
	)(handler), nil
}
