package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrNotFound = errors.New("cache: key not found")

func NewSet[T any](client *redis.Client, prefix string) *Set[T] {
	return &Set[T]{
		client: client,
		prefix: prefix + ":",
	}
}

// Set is a family of redis keys sharing a prefix, with values of type T
// encoded as msgpack.
type Set[T any] struct {
	// m serializes the slow path of MutexGetSet
	m sync.Mutex

	client *redis.Client
	prefix string
}

func (c *Set[T]) key(key string) string {
	return c.prefix + key
}

// Get returns ErrNotFound when key does not exist.
func (c *Set[T]) Get(ctx context.Context, key string, dest *T) error {
	key = c.key(key)
	resp, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		log.Error().Err(err).Str("key", key).Msg("failed to get value from redis")
		return err
	}
	if err = msgpack.Unmarshal(resp, dest); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal value from msgpack from redis")
		return err
	}
	return nil
}

func (c *Set[T]) Set(ctx context.Context, key string, value T, expire time.Duration) error {
	key = c.key(key)
	if l := log.Trace(); l.Enabled() {
		l.Str("key", key).Msg("setting value to redis")
	}
	b, err := msgpack.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to marshal value with msgpack")
		return err
	}
	if err = c.client.Set(ctx, key, b, expire).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set value to redis")
		return err
	}
	return nil
}

// MutexGetSet reads key into dest. On a miss, valueFunc is called at most once
// per process for concurrent callers, and its value is stored and copied into
// dest. The returned bool reports whether valueFunc was called.
func (c *Set[T]) MutexGetSet(ctx context.Context, key string, dest *T, valueFunc func() (T, error), expire time.Duration) (bool, error) {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	return c.slowMutexGetSet(ctx, key, dest, valueFunc, expire)
}

func (c *Set[T]) slowMutexGetSet(ctx context.Context, key string, dest *T, valueFunc func() (T, error), expire time.Duration) (bool, error) {
	c.m.Lock()
	defer c.m.Unlock()

	err := c.Get(ctx, key, dest)
	if err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	value, err := valueFunc()
	if err != nil {
		return true, err
	}

	if err = c.Set(ctx, key, value, expire); err != nil {
		return true, err
	}

	*dest = value
	return true, nil
}

func (c *Set[T]) Delete(ctx context.Context, key string) error {
	key = c.key(key)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete value from redis")
		return err
	}
	return nil
}

var clearScript = redis.NewScript(`local keys = redis.call('keys', ARGV[1])
	for i=1,#keys,5000 do
		redis.call('del', unpack(keys, i, math.min(i+4999, #keys)))
	end
return #keys`)

// Clear deletes every key of the set. With a non-empty pattern only keys
// matching prefix+pattern are removed.
func (c *Set[T]) Clear(ctx context.Context, pattern string) error {
	if pattern == "" {
		pattern = "*"
	}
	err := clearScript.Eval(ctx, c.client, []string{}, []string{c.prefix + pattern}).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Error().Err(err).Str("prefix", c.prefix).Msg("failed to clear cache")
		return err
	}
	return nil
}
