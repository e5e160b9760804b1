// Package holder memoizes whole-scene object lookups by name fragment.
package holder

import (
	"strings"
	"sync"

	"github.com/mj1618/arena-access/internal/model"
)

// Stats counts cache outcomes since the last Clear.
type Stats struct {
	Entries int `yaml:"entries" json:"entries"`
	Hits    int `yaml:"hits"    json:"hits"`
	Misses  int `yaml:"misses"  json:"misses"`
	Stale   int `yaml:"stale"   json:"stale"`
}

// Cache maps a name fragment to the identity of the first object found for it.
// An entry is dropped only when its object no longer resolves in the scene.
type Cache struct {
	mu      sync.Mutex
	entries map[string]int64
	stats   Stats
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[string]int64)}
}

// Find returns the object whose name contains fragment, scanning the scene only
// when there is no live cached entry. Misses are not cached, so an object that
// appears later is found on the next call.
func (c *Cache) Find(s *model.Scene, fragment string) *model.Object {
	if s == nil || fragment == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.entries[fragment]; ok {
		if o := s.Lookup(id); o != nil && strings.Contains(o.Name, fragment) {
			c.stats.Hits++
			return o
		}
		delete(c.entries, fragment)
		c.stats.Stale++
	}

	c.stats.Misses++
	o := s.FindByName(fragment)
	if o == nil {
		return nil
	}
	c.entries[fragment] = o.ID
	return o
}

// Clear drops every entry. Called on scene change.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]int64)
	c.stats = Stats{}
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stats
	st.Entries = len(c.entries)
	return st
}
