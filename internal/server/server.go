package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	proxyproto "github.com/pires/go-proxyproto"
	"gitlab.com/gitlab-org/labkit/log"

	"gitlab.com/gitlab-org/artifact-gateway/internal/netutil"
)

// ListenerConfig describes one listener of the gateway
type ListenerConfig struct {
	Addr      string
	IsProxyV2 bool
	Limiter   *netutil.Limiter
	Handler   http.Handler
}

type keepAliveListener struct {
	net.Listener
}

type keepAliveSetter interface {
	SetKeepAlive(bool) error
	SetKeepAlivePeriod(time.Duration) error
}

func (ln *keepAliveListener) Accept() (net.Conn, error) {
	conn, err := ln.Listener.Accept()
	if err != nil {
		return nil, err
	}

	if kc, ok := conn.(keepAliveSetter); ok {
		kc.SetKeepAlive(true)
		kc.SetKeepAlivePeriod(3 * time.Minute)
	}

	return conn, nil
}

// Server serves a single listener until its context is done
type Server struct {
	config          ListenerConfig
	server          *http.Server
	shutdownTimeout time.Duration
}

// New creates a Server for config
func New(config ListenerConfig, shutdownTimeout time.Duration) *Server {
	return &Server{
		config:          config,
		server:          &http.Server{Handler: config.Handler},
		shutdownTimeout: shutdownTimeout,
	}
}

// Listen opens the listener described by the server config
func (s *Server) Listen() (net.Listener, error) {
	l, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}

	return s.wrap(l), nil
}

func (s *Server) wrap(l net.Listener) net.Listener {
	if s.config.Limiter != nil {
		l = netutil.SharedLimitListener(l, s.config.Limiter)
	}

	l = &keepAliveListener{l}

	if s.config.IsProxyV2 {
		l = &proxyproto.Listener{
			Listener: l,
			Policy: func(upstream net.Addr) (proxyproto.Policy, error) {
				return proxyproto.REQUIRE, nil
			},
		}
	}

	return l
}

// Serve serves l until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.server.Serve(l)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.WithField("listener", l.Addr().String()).Info("shutting down listener")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down %s: %w", l.Addr(), err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// ListenAndServe combines Listen and Serve
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := s.Listen()
	if err != nil {
		return err
	}

	return s.Serve(ctx, l)
}
