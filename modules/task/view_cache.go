package task

import (
	"fmt"
	"sync"

	domain "github.com/example/task-tracker/domain/task"
	"golang.org/x/sync/singleflight"
)

const maxCachedViews = 64

// ViewCache memoizes views of one collection revision and collapses
// concurrent identical computations. Returned views are shared and must
// not be modified.
type ViewCache struct {
	pipeline domain.Pipeline
	group    singleflight.Group

	mu       sync.Mutex
	revision uint64
	entries  map[domain.Query]domain.View
	hits     uint64
	misses   uint64
}

// NewViewCache creates a cache computing views with pipeline.
func NewViewCache(pipeline domain.Pipeline) *ViewCache {
	return &ViewCache{
		pipeline: pipeline,
		entries:  make(map[domain.Query]domain.View),
	}
}

// Get returns the view of tasks for q. tasks must be the collection at
// revision.
func (c *ViewCache) Get(tasks []domain.Task, revision uint64, q domain.Query) domain.View {
	c.mu.Lock()
	if revision != c.revision {
		c.entries = make(map[domain.Query]domain.View)
		c.revision = revision
	}
	if v, ok := c.entries[q]; ok {
		c.hits++
		c.mu.Unlock()
		return v
	}
	c.misses++
	c.mu.Unlock()

	key := fmt.Sprintf("%d|%q|%q|%q|%q", revision, q.Search, q.Status, q.Category, q.Sort)
	v, _, _ := c.group.Do(key, func() (any, error) {
		view := c.pipeline.Apply(tasks, q)

		c.mu.Lock()
		if c.revision == revision {
			if len(c.entries) >= maxCachedViews {
				c.entries = make(map[domain.Query]domain.View)
			}
			c.entries[q] = view
		}
		c.mu.Unlock()
		return view, nil
	})
	return v.(domain.View)
}

// Stats returns the hit and miss counts.
func (c *ViewCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
