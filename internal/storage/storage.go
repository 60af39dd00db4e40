//go:generate mockgen -destination=mock/storage_mock.go -package=mock gitlab.com/gitlab-org/artifact-gateway/internal/storage Store

// Package storage provides the key-value configuration stores the gateway
// reads repository configuration from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gitlab.com/gitlab-org/artifact-gateway/internal/future"
	"gitlab.com/gitlab-org/artifact-gateway/metrics"
)

// ErrUnknownStore is returned by New for an unsupported store type
var ErrUnknownStore = errors.New("unknown configuration store")

// Lookup is the outcome of a single read. Exists is false when there is no
// entry under Key, which is not an error.
type Lookup struct {
	Key    string
	Value  []byte
	Exists bool
	Error  error
}

// Store reads configuration entries by key. Value never blocks: the read
// happens asynchronously and the returned future always completes.
type Store interface {
	Value(ctx context.Context, key string) *future.Future[Lookup]
}

// Config selects and configures a Store
type Config struct {
	Type string

	// Disk
	Root string

	// Redis
	RedisAddress  string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// New creates the store described by config, instrumented with metrics
func New(config Config) (Store, error) {
	var store Store

	switch config.Type {
	case "memory":
		store = NewMemory(nil)
	case "disk":
		store = NewDisk(config.Root)
	case "redis":
		store = NewRedis(config.RedisAddress, config.RedisPassword, config.RedisDB, config.RedisPrefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, config.Type)
	}

	return Instrumented(store, config.Type), nil
}

// Instrumented wraps store so that every read is counted and timed
func Instrumented(store Store, name string) Store {
	return &instrumented{store: store, name: name}
}

type instrumented struct {
	store Store
	name  string
}

func (i *instrumented) Value(ctx context.Context, key string) *future.Future[Lookup] {
	start := time.Now()
	lookup := i.store.Value(ctx, key)

	lookup.OnComplete(func(l Lookup) {
		metrics.ConfigStoreReadDuration.WithLabelValues(i.name).Observe(time.Since(start).Seconds())
		metrics.ConfigStoreReads.WithLabelValues(i.name, outcome(l)).Inc()
	})

	return lookup
}

// Check reports whether the wrapped store can serve reads. Stores without
// a backend to check are always healthy.
func (i *instrumented) Check(ctx context.Context) error {
	if checker, ok := i.store.(interface{ Check(context.Context) error }); ok {
		return checker.Check(ctx)
	}

	return nil
}

// Close closes the wrapped store when it holds resources
func (i *instrumented) Close() error {
	if closer, ok := i.store.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

func outcome(l Lookup) string {
	switch {
	case l.Error != nil:
		return "error"
	case l.Exists:
		return "found"
	default:
		return "absent"
	}
}
