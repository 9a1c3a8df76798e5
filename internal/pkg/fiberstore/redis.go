package fiberstore

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Redis stores fiber middleware state as plain redis keys under Prefix, so
// that every replica shares the same limiter counters.
type Redis struct {
	Client *redis.Client
	Prefix string
}

// Redis implements fiber.Storage
var _ fiber.Storage = &Redis{}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{
		Client: client,
		Prefix: prefix + ":",
	}
}

// Close implements fiber.Storage. The client is shared and left open.
func (r *Redis) Close() error {
	return nil
}

// Delete implements fiber.Storage
func (r *Redis) Delete(key string) error {
	return r.Client.Del(context.Background(), r.Prefix+key).Err()
}

// Get implements fiber.Storage. A missing key yields nil, nil.
func (r *Redis) Get(key string) ([]byte, error) {
	b, err := r.Client.Get(context.Background(), r.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return b, err
}

// Reset implements fiber.Storage
func (r *Redis) Reset() error {
	ctx := context.Background()
	iter := r.Client.Scan(ctx, 0, r.Prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.Client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Set implements fiber.Storage
func (r *Redis) Set(key string, val []byte, exp time.Duration) error {
	if len(key) == 0 || len(val) == 0 {
		return nil
	}
	return r.Client.Set(context.Background(), r.Prefix+key, val, exp).Err()
}
