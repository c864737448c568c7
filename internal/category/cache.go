package category

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/titanous/json5"

	"wconcept/bestcrawl/internal/domain"
)

// Cache persists the last resolved category list as a JSON array.
type Cache struct {
	path string
}

func NewCache(path string) *Cache {
	return &Cache{path: path}
}

func (c *Cache) Path() string { return c.path }

// Load reads the cached list. Hand-edited files may carry comments and
// trailing commas. A missing file yields an error wrapping os.ErrNotExist.
func (c *Cache) Load() ([]domain.CategoryPair, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category cache: %w", err)
	}

	var pairs []domain.CategoryPair
	if err := json5.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("failed to decode category cache %s: %w", c.path, err)
	}
	return domain.DedupeCategories(pairs), nil
}

// Save replaces the cache file atomically.
func (c *Cache) Save(pairs []domain.CategoryPair) error {
	if pairs == nil {
		pairs = []domain.CategoryPair{}
	}
	data, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".categories-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close cache: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace cache: %w", err)
	}
	return nil
}
