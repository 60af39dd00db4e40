package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/artifact-gateway/internal/future"
	"gitlab.com/gitlab-org/artifact-gateway/internal/testhelpers"
	"gitlab.com/gitlab-org/artifact-gateway/metrics"
)

func wait(t *testing.T, f *future.Future[Lookup]) Lookup {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lookup, err := f.Wait(ctx)
	require.NoError(t, err)

	return lookup
}

func TestMemory(t *testing.T) {
	store := NewMemory(map[string][]byte{"maven": []byte("repo:\n  type: maven\n")})

	lookup := wait(t, store.Value(context.Background(), "maven"))
	require.True(t, lookup.Exists)
	require.NoError(t, lookup.Error)
	require.Equal(t, "repo:\n  type: maven\n", string(lookup.Value))

	lookup = wait(t, store.Value(context.Background(), "npm"))
	require.False(t, lookup.Exists)
	require.NoError(t, lookup.Error)

	store.Put("npm", []byte("repo: {}"))
	require.True(t, wait(t, store.Value(context.Background(), "npm")).Exists)

	store.Delete("npm")
	require.False(t, wait(t, store.Value(context.Background(), "npm")).Exists)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, wait(t, store.Value(ctx, "maven")).Error, context.Canceled)
}

func TestDisk(t *testing.T) {
	dir := t.TempDir()
	testhelpers.WriteFile(t, dir, "maven.yaml", "repo:\n  type: maven\n")
	testhelpers.WriteFile(t, dir, "npm.yml", "repo:\n  type: npm\n")
	testhelpers.WriteFile(t, filepath.Dir(dir), "outside.yaml", "repo: {}")

	store := NewDisk(dir)

	tests := []struct {
		name   string
		key    string
		exists bool
		value  string
	}{
		{name: "yaml_extension", key: "maven", exists: true, value: "repo:\n  type: maven\n"},
		{name: "yml_extension", key: "npm", exists: true, value: "repo:\n  type: npm\n"},
		{name: "absent", key: "pypi"},
		{name: "traversal", key: "../outside"},
		{name: "dot_dot", key: ".."},
		{name: "empty", key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := wait(t, store.Value(context.Background(), tt.key))
			require.NoError(t, lookup.Error)
			require.Equal(t, tt.exists, lookup.Exists)
			require.Equal(t, tt.value, string(lookup.Value))
		})
	}
}

func TestDiskReadError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "broken.yaml"), 0755))

	lookup := wait(t, NewDisk(dir).Value(context.Background(), "broken"))
	require.Error(t, lookup.Error)
	require.False(t, lookup.Exists)
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("artifacts:maven", "repo:\n  type: maven\n"))

	store := NewRedis(mr.Addr(), "", 0, "artifacts:")
	defer store.Close()

	lookup := wait(t, store.Value(context.Background(), "maven"))
	require.NoError(t, lookup.Error)
	require.True(t, lookup.Exists)
	require.Equal(t, "repo:\n  type: maven\n", string(lookup.Value))

	lookup = wait(t, store.Value(context.Background(), "npm"))
	require.NoError(t, lookup.Error)
	require.False(t, lookup.Exists)

	mr.SetError("server is down")
	lookup = wait(t, store.Value(context.Background(), "maven"))
	require.Error(t, lookup.Error)
	require.False(t, lookup.Exists)
}

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, config := range []Config{
		{Type: "memory"},
		{Type: "disk", Root: t.TempDir()},
		{Type: "redis", RedisAddress: mr.Addr()},
	} {
		t.Run(config.Type, func(t *testing.T) {
			store, err := New(config)
			require.NoError(t, err)

			lookup := wait(t, store.Value(context.Background(), "absent"))
			require.NoError(t, lookup.Error)
			require.False(t, lookup.Exists)

			require.NoError(t, store.(*instrumented).Close())
		})
	}

	_, err := New(Config{Type: "etcd"})
	require.True(t, errors.Is(err, ErrUnknownStore))
}

func TestInstrumented(t *testing.T) {
	store := Instrumented(NewMemory(map[string][]byte{"maven": []byte("x")}), "instrumented_test")

	found := metrics.ConfigStoreReads.WithLabelValues("instrumented_test", "found")
	absent := metrics.ConfigStoreReads.WithLabelValues("instrumented_test", "absent")
	failed := metrics.ConfigStoreReads.WithLabelValues("instrumented_test", "error")

	wait(t, store.Value(context.Background(), "maven"))
	wait(t, store.Value(context.Background(), "npm"))
	wait(t, store.Value(context.Background(), "npm"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	wait(t, store.Value(ctx, "maven"))

	require.Equal(t, float64(1), testutil.ToFloat64(found))
	require.Equal(t, float64(2), testutil.ToFloat64(absent))
	require.Equal(t, float64(1), testutil.ToFloat64(failed))
}

func TestCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()
	testhelpers.WriteFile(t, dir, "maven.yaml", "repo: {}")

	type checker interface {
		Check(context.Context) error
	}

	require.NoError(t, Instrumented(NewMemory(nil), "memory").(checker).Check(context.Background()))
	require.NoError(t, Instrumented(NewDisk(dir), "disk").(checker).Check(context.Background()))
	require.Error(t, NewDisk(filepath.Join(dir, "missing")).Check(context.Background()))
	require.Error(t, NewDisk(filepath.Join(dir, "maven.yaml")).Check(context.Background()))

	store := NewRedis(mr.Addr(), "", 0, "")
	defer store.Close()
	require.NoError(t, store.Check(context.Background()))

	mr.Close()
	require.Error(t, store.Check(context.Background()))
}
