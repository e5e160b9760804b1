package server

import (
	"sync"
	"time"

	"github.com/mj1618/arena-access/internal/clock"
	"github.com/mj1618/arena-access/internal/model"
)

// cacheKey identifies one flattening of one scene.
type cacheKey struct {
	Scene      string
	ActiveOnly bool
}

// cacheEntry holds a flattened scene with its timestamp.
type cacheEntry struct {
	objects   []model.FlatObject
	timestamp time.Time
}

// SceneCache provides a TTL-based cache for flattened scenes. Every step
// invalidates the live scene's entries.
type SceneCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	clock   clock.Clock
}

// NewSceneCache creates a new cache. A ttl of 0 disables caching.
func NewSceneCache(ttl time.Duration, c clock.Clock) *SceneCache {
	if c == nil {
		c = clock.Real()
	}
	return &SceneCache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     ttl,
		clock:   c,
	}
}

// Flatten returns cached objects if within TTL, otherwise reads fresh.
func (c *SceneCache) Flatten(scene string, activeOnly bool, read func() (*model.Scene, error)) ([]model.FlatObject, error) {
	if c.ttl == 0 {
		s, err := read()
		if err != nil {
			return nil, err
		}
		return model.FlattenScene(s, activeOnly), nil
	}

	key := cacheKey{Scene: scene, ActiveOnly: activeOnly}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.clock.Now().Sub(entry.timestamp) < c.ttl {
		objects := entry.objects
		c.mu.Unlock()
		return objects, nil
	}
	c.mu.Unlock()

	s, err := read()
	if err != nil {
		return nil, err
	}
	objects := model.FlattenScene(s, activeOnly)

	c.mu.Lock()
	c.entries[key] = cacheEntry{objects: objects, timestamp: c.clock.Now()}
	c.mu.Unlock()

	return objects, nil
}

// InvalidateScene removes all cache entries for the given scene.
func (c *SceneCache) InvalidateScene(scene string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Scene == scene {
			delete(c.entries, k)
		}
	}
}

// InvalidateAll clears the entire cache.
func (c *SceneCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}
