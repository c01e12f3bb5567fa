package chain

import (
	"context"
	"errors"
	"fmt"

	filecache "github.com/whisprhq/whispr-cli/internal/adapters/cache/file"
	memorycache "github.com/whisprhq/whispr-cli/internal/adapters/cache/memory"
	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

// Cache layers a fast front over a durable back. Reads hit the front first
// and backfill it from the back on a miss; writes go through to both.
type Cache struct {
	front ports.LocalCache
	back  ports.LocalCache
}

var _ ports.LocalCache = (*Cache)(nil)

var (
	errNilFrontCache = errors.New("front cache is nil")
	errNilBackCache  = errors.New("back cache is nil")
)

func NewCache(front ports.LocalCache, back ports.LocalCache) *Cache {
	cache, err := NewCacheChecked(front, back)
	if err != nil {
		panic(err)
	}

	return cache
}

func NewCacheChecked(front ports.LocalCache, back ports.LocalCache) (*Cache, error) {
	if front == nil {
		return nil, errNilFrontCache
	}
	if back == nil {
		return nil, errNilBackCache
	}

	return &Cache{front: front, back: back}, nil
}

// NewMemoryFrontedFileCache is the default wiring: a process-lifetime map in
// front of a file tree under root.
func NewMemoryFrontedFileCache(root string) *Cache {
	return NewCache(memorycache.NewCache(), filecache.NewCache(root))
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.front.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipBack(err) {
		return "", err
	}

	value, backErr := c.back.Get(ctx, key)
	if backErr != nil {
		if errors.Is(backErr, domain.ErrRecordNotFound) {
			return "", backErr
		}
		return "", fmt.Errorf("front cache get failed: %w; back cache get failed: %w", err, backErr)
	}

	_ = c.front.Put(ctx, key, value)
	return value, nil
}

func (c *Cache) Put(ctx context.Context, key string, value string) error {
	if err := c.back.Put(ctx, key, value); err != nil {
		return err
	}

	return c.front.Put(ctx, key, value)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	frontErr := c.front.Delete(ctx, key)
	backErr := c.back.Delete(ctx, key)

	if frontErr != nil && backErr != nil {
		return fmt.Errorf("front cache delete failed: %w; back cache delete failed: %w", frontErr, backErr)
	}
	if backErr != nil {
		return backErr
	}
	return frontErr
}

func shouldSkipBack(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
