package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"gitlab.com/gitlab-org/artifact-gateway/internal/config"
	"gitlab.com/gitlab-org/artifact-gateway/internal/dispatcher"
	"gitlab.com/gitlab-org/artifact-gateway/internal/handlers"
	"gitlab.com/gitlab-org/artifact-gateway/internal/healthcheck"
	"gitlab.com/gitlab-org/artifact-gateway/internal/netutil"
	"gitlab.com/gitlab-org/artifact-gateway/internal/resolver"
	"gitlab.com/gitlab-org/artifact-gateway/internal/server"
	"gitlab.com/gitlab-org/artifact-gateway/internal/storage"
	"gitlab.com/gitlab-org/artifact-gateway/metrics"
)

// theApp owns everything a running gateway needs
type theApp struct {
	config     *config.Config
	store      storage.Store
	dispatcher *dispatcher.Dispatcher
}

func newApp(cfg *config.Config, registry resolver.Registry) (*theApp, error) {
	store, err := storage.New(storage.Config{
		Type:          cfg.Storage.Type,
		Root:          cfg.Storage.Root,
		RedisAddress:  cfg.Storage.RedisAddress,
		RedisPassword: cfg.Storage.RedisPassword,
		RedisDB:       cfg.Storage.RedisDB,
		RedisPrefix:   cfg.Storage.RedisPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("creating configuration store: %w", err)
	}

	return &theApp{
		config:     cfg,
		store:      store,
		dispatcher: dispatcher.New(resolver.New(store, registry, resolver.WithTimeout(cfg.Resolver.Timeout))),
	}, nil
}

// checkers returns the status checks of the gateway dependencies
func (a *theApp) checkers() []healthcheck.Checker {
	if checker, ok := a.store.(healthcheck.Checker); ok {
		return []healthcheck.Checker{checker}
	}

	return nil
}

// listeners builds one server per configured listener address
func (a *theApp) listeners() ([]*server.Server, error) {
	var limiter *netutil.Limiter
	if a.config.General.MaxConns > 0 {
		limiter = netutil.NewLimiter(a.config.General.MaxConns)
	}

	dispatch := server.NewHandler(a.dispatcher)

	direct, err := handlers.Chain(a.config, dispatch, false, a.checkers()...)
	if err != nil {
		return nil, err
	}

	proxied, err := handlers.Chain(a.config, dispatch, true, a.checkers()...)
	if err != nil {
		return nil, err
	}

	var servers []*server.Server
	add := func(addrs []string, isProxyV2 bool, handler http.Handler) {
		for _, addr := range addrs {
			servers = append(servers, server.New(server.ListenerConfig{
				Addr:      addr,
				IsProxyV2: isProxyV2,
				Limiter:   limiter,
				Handler:   handler,
			}, a.config.General.ServerShutdownTimeout))
		}
	}

	add(a.config.Listeners.HTTP, false, direct)
	add(a.config.Listeners.Proxy, false, proxied)
	add(a.config.Listeners.ProxyV2, true, direct)

	if a.config.General.MetricsAddress != "" {
		servers = append(servers, server.New(server.ListenerConfig{
			Addr:    a.config.General.MetricsAddress,
			Handler: promhttp.Handler(),
		}, a.config.General.ServerShutdownTimeout))
	}

	return servers, nil
}

// Run serves every listener until ctx is done or one of them fails
func (a *theApp) Run(ctx context.Context) error {
	servers, err := a.listeners()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			return s.ListenAndServe(ctx)
		})
	}

	err = g.Wait()

	if closer, ok := a.store.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close configuration store")
		}
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func runApp(cfg *config.Config) error {
	metrics.MustRegister(prometheus.DefaultRegisterer)

	// repository types are registered by the binaries embedding the gateway
	a, err := newApp(cfg, resolver.Registry{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Run(ctx)
}
