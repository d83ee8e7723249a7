package mapper

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

// ElaborationCache memoizes the elaborated Program for a tree generation
// across repeated calls with the same key. Within one pass several
// mappers elaborate the same committed tree back-to-back before any of
// them commits a rewrite (spec.md §9 "Pair/Set rewriters require
// elaboration"); caching by key avoids re-elaborating for each one.
// singleflight.Group additionally coalesces two goroutines racing to
// populate the same key — the reduction engine itself stays
// single-threaded per spec.md §5, but the cache type makes no such
// assumption about its callers.
type ElaborationCache struct {
	elaborator syntax.Elaborator
	group      singleflight.Group

	mu     sync.Mutex
	cached map[string]syntax.Program
}

// NewElaborationCache wraps an Elaborator with keyed memoization.
func NewElaborationCache(e syntax.Elaborator) *ElaborationCache {
	return &ElaborationCache{elaborator: e, cached: make(map[string]syntax.Program)}
}

// Elaborate returns the Program for t, keyed by the tree's generation
// identity via key. A hit returns the memoized Program without calling
// the underlying Elaborator again; a miss elaborates once even if
// concurrent callers race on the same key.
func (c *ElaborationCache) Elaborate(key string, t syntax.Tree) (syntax.Program, error) {
	c.mu.Lock()
	if p, ok := c.cached[key]; ok {
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.elaborator.Elaborate(t)
	})
	if err != nil {
		return nil, err
	}
	program := v.(syntax.Program)

	c.mu.Lock()
	c.cached[key] = program
	c.mu.Unlock()
	return program, nil
}

// Forget drops the cached (or just-completed in-flight) elaboration for
// key, so the next call re-elaborates. Called after any commit, since a
// committed rewrite invalidates every prior elaboration of that tree.
func (c *ElaborationCache) Forget(key string) {
	c.mu.Lock()
	delete(c.cached, key)
	c.mu.Unlock()
	c.group.Forget(key)
}
