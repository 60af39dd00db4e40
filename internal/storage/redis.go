package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"gitlab.com/gitlab-org/artifact-gateway/internal/future"
)

// Redis is a Store reading entries with GET from a Redis server
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis returns a Redis store talking to addr. Every key is read as
// prefix+key.
func NewRedis(addr, password string, db int, prefix string) *Redis {
	return NewRedisWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), prefix)
}

// NewRedisWithClient returns a Redis store using an existing client
func NewRedisWithClient(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Value reads the entry for key on a separate goroutine
func (r *Redis) Value(ctx context.Context, key string) *future.Future[Lookup] {
	lookup := future.New[Lookup]()

	go func() {
		value, err := r.client.Get(ctx, r.prefix+key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			lookup.Complete(Lookup{Key: key})
		case err != nil:
			lookup.Complete(Lookup{Key: key, Error: err})
		default:
			lookup.Complete(Lookup{Key: key, Value: value, Exists: true})
		}
	}()

	return lookup
}

// Close closes the underlying client
func (r *Redis) Close() error {
	return r.client.Close()
}

// Check pings the Redis server
func (r *Redis) Check(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
