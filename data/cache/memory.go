package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sebastiangueler-commits/cARTE/internal/model"
)

type memoryEntry struct {
	quote     model.Quote
	expiresAt time.Time
}

// MemoryCache is a process-local quote cache with a fixed TTL.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) SetQuote(_ context.Context, quote model.Quote) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[quote.Symbol] = memoryEntry{quote: quote, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) GetQuote(_ context.Context, symbol string) (model.Quote, error) {
	c.mu.RLock()
	entry, ok := c.entries[symbol]
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		return model.Quote{}, ErrNotFound
	}
	return entry.quote, nil
}

// Purge drops expired entries and returns how many were removed.
func (c *MemoryCache) Purge(_ context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for symbol, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, symbol)
			removed++
		}
	}
	return removed
}
