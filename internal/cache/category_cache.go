package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	categoryCacheName = "categories"
	treeKey           = "tree"
	rootsKey          = "roots"
)

// CategoryPage is a cached page of the flat category list
type CategoryPage struct {
	Items []*models.Category
	Total int
}

// CategoryCache keeps the public category reads in memory until the next write
type CategoryCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewCategoryCache creates a category cache. A zero ttl disables caching.
func NewCategoryCache(ttl time.Duration) *CategoryCache {
	return &CategoryCache{
		cache: gocache.New(ttl, 2*ttl+time.Minute),
		ttl:   ttl,
	}
}

// Tree returns the cached category tree, loading it on a miss
func (c *CategoryCache) Tree(ctx context.Context, load func(context.Context) ([]*models.Category, error)) ([]*models.Category, error) {
	return getOrLoad(c, ctx, treeKey, load)
}

// Roots returns the cached root categories, loading them on a miss
func (c *CategoryCache) Roots(ctx context.Context, load func(context.Context) ([]*models.Category, error)) ([]*models.Category, error) {
	return getOrLoad(c, ctx, rootsKey, load)
}

// List returns a cached page of the flat list, loading it on a miss
func (c *CategoryCache) List(ctx context.Context, filter models.CategoryFilter, load func(context.Context) (CategoryPage, error)) (CategoryPage, error) {
	return getOrLoad(c, ctx, listKey(filter), load)
}

// Invalidate drops every cached read. Called after each category write.
func (c *CategoryCache) Invalidate() {
	c.cache.Flush()
	logger.Debug("Category cache invalidated")
}

func listKey(filter models.CategoryFilter) string {
	parent := "any"
	if filter.ParentID != nil {
		parent = fmt.Sprintf("%d", *filter.ParentID)
	}
	return fmt.Sprintf("list:%s:%s:%d:%d", parent, filter.Search, filter.Page, filter.PerPage)
}

func getOrLoad[T any](c *CategoryCache, ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if c.ttl > 0 {
		if data, found := c.cache.Get(key); found {
			if value, ok := data.(T); ok {
				metrics.CacheHits.WithLabelValues(categoryCacheName).Inc()
				return value, nil
			}
			logger.Error("Invalid category cache data type", zap.String("key", key))
			c.cache.Delete(key)
		}
	}

	metrics.CacheMisses.WithLabelValues(categoryCacheName).Inc()
	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if c.ttl > 0 {
		c.cache.Set(key, value, c.ttl)
	}
	return value, nil
}
