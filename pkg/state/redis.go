package state

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps ledger state in a Redis keyspace, one key per
// address. All keys share a common prefix so several deployments can
// use the same instance.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "trustgraph:state:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// DialRedisStore connects to the Redis instance at addr.
func DialRedisStore(addr, prefix string) *RedisStore {
	return NewRedisStore(redis.NewClient(&redis.Options{Addr: addr}), prefix)
}

// Get implements Store.
func (r *RedisStore) Get(address string) ([]byte, bool, error) {
	value, err := r.client.Get(context.Background(), r.prefix+address).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read state at %s: %w", address, err)
	}
	return value, true, nil
}

// Set implements Store.
func (r *RedisStore) Set(address string, value []byte) error {
	if err := r.client.Set(context.Background(), r.prefix+address, value, 0).Err(); err != nil {
		return fmt.Errorf("write state at %s: %w", address, err)
	}
	return nil
}

// Close releases the underlying client connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
