package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const singularKey = "v"

func NewSingular[T any](name string) *Singular[T] {
	return &Singular[T]{
		name: name,
		c:    cache.New(cache.NoExpiration, time.Minute*10),
	}
}

// Singular is an in-process cache holding a single value of type T.
type Singular[T any] struct {
	// m serializes the slow path of MutexGetSet
	m sync.Mutex

	name string
	c    *cache.Cache
}

func (c *Singular[T]) Get(dest *T) error {
	result, ok := c.c.Get(singularKey)
	if !ok {
		return ErrNotFound
	}
	*dest = result.(T)
	return nil
}

func (c *Singular[T]) Set(value T, expire time.Duration) {
	c.c.Set(singularKey, value, expire)
}

// MutexGetSet reads the value into dest, computing it with valueFunc at most
// once for concurrent callers on a miss.
func (c *Singular[T]) MutexGetSet(dest *T, valueFunc func() (T, error), expire time.Duration) error {
	if err := c.Get(dest); err == nil {
		return nil
	}

	c.m.Lock()
	defer c.m.Unlock()

	if err := c.Get(dest); err == nil {
		return nil
	}

	value, err := valueFunc()
	if err != nil {
		return err
	}
	c.Set(value, expire)
	*dest = value
	return nil
}

func (c *Singular[T]) Delete() {
	c.c.Flush()
}

func (c *Singular[T]) Name() string {
	return c.name
}
