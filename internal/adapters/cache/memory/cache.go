package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

// Cache is a process-lifetime cache. It fronts the durable file cache in the
// chain so repeated eligibility checks stay off disk.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ ports.LocalCache = (*Cache)(nil)

func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[key]
	if !ok {
		return "", fmt.Errorf("cache entry %q: %w", key, domain.ErrRecordNotFound)
	}

	return value, nil
}

func (c *Cache) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
