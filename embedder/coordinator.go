package embedder

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Coordinator owns process-wide embedder state: the lazily-loaded
// transformer handle and whether a probe has already failed. Per spec.md §9, a failed transformer probe marks the
// transformer permanently unavailable for the life of the process — every
// subsequent call falls back to TF-IDF without re-probing.
//
// Constructed once per process and threaded explicitly into the indexer and
// query engine; never a package-level global (spec.md §9's explicit warning
// against implicit import of the handle).
type Coordinator struct {
	group singleflight.Group

	mu          sync.Mutex
	transformer Embedder
	unavailable bool
}

// NewCoordinator returns a Coordinator with no transformer probed yet.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Transformer returns the process's transformer embedder, probing it on the
// first call. Concurrent first callers share a single probe via
// singleflight rather than racing N redundant onnxruntime session creations.
// ok is false whenever the transformer is unavailable (never built with the
// onnx tag, or a prior or current probe failed) — callers should then use
// TF-IDF for this operation.
func (c *Coordinator) Transformer(ctx context.Context) (Embedder, bool) {
	c.mu.Lock()
	if c.unavailable {
		c.mu.Unlock()
		return nil, false
	}
	if c.transformer != nil {
		e := c.transformer
		c.mu.Unlock()
		return e, true
	}
	c.mu.Unlock()

	v, _, _ := c.group.Do("transformer-probe", func() (interface{}, error) {
		e, err := LoadTransformer()
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.unavailable = true
			return nil, err
		}
		c.transformer = e
		return e, nil
	})

	if v == nil {
		return nil, false
	}
	return v.(Embedder), true
}

// Available reports whether the transformer is usable right now without
// triggering a probe. Mainly useful for status/stats reporting.
func (c *Coordinator) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transformer != nil && !c.unavailable
}
