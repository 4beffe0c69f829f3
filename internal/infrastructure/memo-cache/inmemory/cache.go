package inmemory

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/utxoforge/coinsource/internal/core/ports"
)

type memoCache[V any] struct {
	lock   sync.RWMutex
	values map[string]V
	group  singleflight.Group
}

// NewMemoCache returns an in-memory, process-lifetime implementation of
// ports.MemoCache. Entries are never evicted, the cache is meant to be
// owned by a single datasource and dropped with it.
func NewMemoCache[V any]() ports.MemoCache[V] {
	return &memoCache[V]{
		values: make(map[string]V),
	}
}

func (c *memoCache[V]) GetOrCompute(
	key string, produce func() (V, error),
) (V, error) {
	if key == "" {
		return produce()
	}

	c.lock.RLock()
	value, ok := c.values[key]
	c.lock.RUnlock()
	if ok {
		return value, nil
	}

	res, err, _ := c.group.Do(key, func() (interface{}, error) {
		// The value might have been stored by the call we lost the race
		// against, singleflight only coalesces overlapping calls.
		c.lock.RLock()
		value, ok := c.values[key]
		c.lock.RUnlock()
		if ok {
			return value, nil
		}

		value, err := produce()
		if err != nil {
			return nil, err
		}

		c.lock.Lock()
		c.values[key] = value
		c.lock.Unlock()
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}
