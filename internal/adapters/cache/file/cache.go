package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/whisprhq/whispr-cli/internal/domain"
	"github.com/whisprhq/whispr-cli/internal/ports"
)

const (
	cacheDirMode  = 0o700
	cacheFileMode = 0o600
)

// Cache stores each entry as one file under root. Keys map to relative
// paths; anything escaping root is rejected.
type Cache struct {
	root string
	mu   sync.RWMutex
}

var _ ports.LocalCache = (*Cache)(nil)

func NewCache(root string) *Cache {
	return &Cache{root: filepath.Clean(root)}
}

func (c *Cache) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := c.pathForKey(key)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), cacheDirMode); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(value), cacheFileMode); err != nil {
		return fmt.Errorf("write cache entry %q: %w", key, err)
	}

	return nil
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := c.pathForKey(key)
	if err != nil {
		return "", err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("cache entry %q: %w", key, domain.ErrRecordNotFound)
		}
		return "", fmt.Errorf("read cache entry %q: %w", key, err)
	}

	return string(data), nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := c.pathForKey(key)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete cache entry %q: %w", key, err)
	}

	return nil
}

func (c *Cache) pathForKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("cache key is empty")
	}

	cleaned := filepath.Clean(trimmed)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || cleaned == "." {
		return "", fmt.Errorf("invalid cache key %q", key)
	}

	return filepath.Join(c.root, cleaned), nil
}
