package place

import (
	"context"
	"sync"
)

// Cache holds one resolved Place per session. Resolution is sticky: a hit
// short-circuits all network lookups for the rest of the session.
type Cache interface {
	Get(ctx context.Context, sessionID string) (*Place, error)
	Put(ctx context.Context, sessionID string, p Place) error
	Clear(ctx context.Context, sessionID string) error
}

// MemoryCache is the single-process Cache. Not persisted; cleared when
// the process (session scope) ends.
type MemoryCache struct {
	mu     sync.RWMutex
	places map[string]Place
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{places: make(map[string]Place)}
}

func (c *MemoryCache) Get(_ context.Context, sessionID string) (*Place, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.places[sessionID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *MemoryCache) Put(_ context.Context, sessionID string, p Place) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.places[sessionID] = p
	return nil
}

func (c *MemoryCache) Clear(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.places, sessionID)
	return nil
}

var _ Cache = (*MemoryCache)(nil)
