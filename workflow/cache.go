package workflow

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/notfabo/projeto-multiagents/types"
)

// RosterLoader fetches the roster for a use case, typically from storage.
type RosterLoader func(ctx context.Context) (types.Roster, error)

// GraphCache owns the {useCaseID → compiled Graph} mapping. It replaces the
// ambient process-wide map seen in earlier variants with an explicit
// component whose lifecycle is tied to use-case deletion: Invalidate must be
// called whenever a use case is removed.
//
// Concurrent requests for the same use case compile the graph once
// (singleflight); the compiled Graph is immutable and safe to share across
// runs.
type GraphCache struct {
	mu      sync.RWMutex
	entries map[int64]*cacheEntry
	group   singleflight.Group
	logger  *zap.Logger
}

type cacheEntry struct {
	graph     *Graph
	rosterKey string
}

// NewGraphCache creates an empty graph cache.
func NewGraphCache(logger *zap.Logger) *GraphCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphCache{
		entries: make(map[int64]*cacheEntry),
		logger:  logger.With(zap.String("component", "graph_cache")),
	}
}

// Get returns the compiled graph for a use case, loading and compiling it on
// miss. Build failures are not cached: a later call retries the loader.
func (c *GraphCache) Get(ctx context.Context, useCaseID int64, load RosterLoader) (*Graph, error) {
	c.mu.RLock()
	entry, ok := c.entries[useCaseID]
	c.mu.RUnlock()
	if ok {
		return entry.graph, nil
	}

	v, err, _ := c.group.Do(strconv.FormatInt(useCaseID, 10), func() (any, error) {
		// re-check under the group: another caller may have populated it
		c.mu.RLock()
		entry, ok := c.entries[useCaseID]
		c.mu.RUnlock()
		if ok {
			return entry.graph, nil
		}

		roster, err := load(ctx)
		if err != nil {
			return nil, err
		}
		graph, err := Build(roster)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[useCaseID] = &cacheEntry{graph: graph, rosterKey: roster.Key()}
		c.mu.Unlock()

		c.logger.Debug("graph compiled",
			zap.Int64("use_case_id", useCaseID),
			zap.Int("agents", len(roster)),
		)
		return graph, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Graph), nil
}

// Invalidate evicts the compiled graph for a use case. Called when the use
// case is deleted or its roster changes.
func (c *GraphCache) Invalidate(useCaseID int64) {
	c.mu.Lock()
	_, existed := c.entries[useCaseID]
	delete(c.entries, useCaseID)
	c.mu.Unlock()

	if existed {
		c.logger.Debug("graph evicted", zap.Int64("use_case_id", useCaseID))
	}
}

// Len returns the number of cached graphs.
func (c *GraphCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
