// Package cache holds the process-wide singleton caches for embedding
// providers and LLM backends, keyed by (model, dim, backend) so two
// folders indexed with the same model share one provider instead of each
// spinning up its own. Adapted from the teacher's otter-backed file cache
// in internal/graph/searcher.go — same library, repurposed from file
// contents to provider handles.
package cache

import (
	"fmt"
	"sync"

	"github.com/maypok86/otter"
)

const maxProviders = 16

// ProviderCache memoizes constructed values by a composite key, replacing
// the lazy-singleton-per-process pattern with an explicit, bounded,
// once-guarded cache.
type ProviderCache[V any] struct {
	mu    sync.Mutex
	once  map[string]*sync.Once
	store otter.Cache[string, V]
}

// NewProviderCache builds a cache capped at maxProviders entries — callers
// hold at most a handful of distinct (model,dim,backend) combinations at
// once, so eviction is a safety net rather than a steady-state behavior.
func NewProviderCache[V any]() (*ProviderCache[V], error) {
	store, err := otter.MustBuilder[string, V](maxProviders).Build()
	if err != nil {
		return nil, fmt.Errorf("creating provider cache: %w", err)
	}
	return &ProviderCache[V]{once: map[string]*sync.Once{}, store: store}, nil
}

// Key builds the (model, dim, backend) cache key spec §9 names.
func Key(model string, dim int, backend string) string {
	return fmt.Sprintf("%s|%d|%s", model, dim, backend)
}

// GetOrCreate returns the cached value for key, building it with build
// exactly once even under concurrent callers racing the same key.
func (c *ProviderCache[V]) GetOrCreate(key string, build func() (V, error)) (V, error) {
	c.mu.Lock()
	once, ok := c.once[key]
	if !ok {
		once = &sync.Once{}
		c.once[key] = once
	}
	c.mu.Unlock()

	var buildErr error
	once.Do(func() {
		v, err := build()
		if err != nil {
			buildErr = err
			c.mu.Lock()
			delete(c.once, key) // allow a retry on the next call
			c.mu.Unlock()
			return
		}
		c.store.Set(key, v)
	})

	if buildErr != nil {
		var zero V
		return zero, buildErr
	}

	v, ok := c.store.Get(key)
	if !ok {
		var zero V
		return zero, fmt.Errorf("provider cache: key %q evicted before first use", key)
	}
	return v, nil
}
