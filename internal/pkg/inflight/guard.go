// Package inflight drops re-entrant calls for a key while one is running.
package inflight

import "sync"

// Guard tracks which keys currently have an operation in flight. The zero
// value is ready to use.
type Guard struct {
	running sync.Map
}

// TryAcquire marks key as busy. When ok is false another holder is still
// running and the caller should give up; otherwise release must be called
// once the operation is done.
func (g *Guard) TryAcquire(key string) (release func(), ok bool) {
	if _, loaded := g.running.LoadOrStore(key, struct{}{}); loaded {
		return nil, false
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.running.Delete(key)
		})
	}, true
}

// Busy reports whether key has an operation in flight.
func (g *Guard) Busy(key string) bool {
	_, ok := g.running.Load(key)
	return ok
}
