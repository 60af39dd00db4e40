package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/artifact-gateway/internal/config"
	"gitlab.com/gitlab-org/artifact-gateway/internal/resolver"
	"gitlab.com/gitlab-org/artifact-gateway/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		General: config.General{
			MaxConns:              10,
			StatusPath:            "/@status",
			ServerShutdownTimeout: time.Second,
		},
		Storage: config.Storage{Type: "disk", Root: t.TempDir()},
		Listeners: config.Listeners{
			HTTP:    []string{"127.0.0.1:0"},
			Proxy:   []string{"127.0.0.1:0"},
			ProxyV2: []string{"127.0.0.1:0"},
		},
		Log: config.Log{Format: "text"},
	}
}

func TestNewAppUnknownStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Type = "etcd"

	_, err := newApp(cfg, nil)
	require.ErrorIs(t, err, storage.ErrUnknownStore)
}

func TestAppListeners(t *testing.T) {
	cfg := testConfig(t)
	cfg.General.MetricsAddress = "127.0.0.1:0"

	a, err := newApp(cfg, nil)
	require.NoError(t, err)

	servers, err := a.listeners()
	require.NoError(t, err)
	require.Len(t, servers, 4)

	require.Len(t, a.checkers(), 1, "the disk store is checked by the status page")
}

func TestAppServesRequests(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Type = "memory"

	a, err := newApp(cfg, resolver.Registry{})
	require.NoError(t, err)

	servers, err := a.listeners()
	require.NoError(t, err)

	l, err := servers[0].Listen()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go servers[0].Serve(ctx, l)

	res, err := http.Get("http://" + l.Addr().String() + "/unknown/file.jar")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	res, err = http.Get("http://" + l.Addr().String() + "/@status")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAppRunStopsOnCancel(t *testing.T) {
	a, err := newApp(testConfig(t), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
