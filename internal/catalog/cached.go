// Package catalog wraps the product store with a read-through cache for the
// queries every page render repeats.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/andrewindechemain/modern-man/internal/models"
	"github.com/go-faster/errors"
)

// ErrMiss is returned by a Cache when the key is absent.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Source is the uncached catalog, normally *store.Store.
type Source interface {
	DiscountedProducts(ctx context.Context) ([]models.DiscountedProduct, error)
	Suggestions(ctx context.Context, term string, limit int) ([]models.Suggestion, error)
	SearchProducts(ctx context.Context, term string) ([]models.Product, error)
	FavoriteCount(ctx context.Context, customerID int64) (int, error)
}

// Cached caches discounted products and suggestions. Search results and
// favorite counts always go to the source. Cache failures are logged and
// fall through.
type Cached struct {
	source Source
	cache  Cache
	ttl    time.Duration
}

const keyPrefix = "modernman:catalog:"

func NewCached(source Source, cache Cache, ttl time.Duration) *Cached {
	return &Cached{source: source, cache: cache, ttl: ttl}
}

func (c *Cached) DiscountedProducts(ctx context.Context) ([]models.DiscountedProduct, error) {
	return readThrough(ctx, c, keyPrefix+"discounted", c.source.DiscountedProducts)
}

func (c *Cached) Suggestions(ctx context.Context, term string, limit int) ([]models.Suggestion, error) {
	key := fmt.Sprintf("%ssuggest:%d:%s", keyPrefix, limit, strings.ToLower(strings.TrimSpace(term)))
	return readThrough(ctx, c, key, func(ctx context.Context) ([]models.Suggestion, error) {
		return c.source.Suggestions(ctx, term, limit)
	})
}

func (c *Cached) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	return c.source.SearchProducts(ctx, term)
}

func (c *Cached) FavoriteCount(ctx context.Context, customerID int64) (int, error) {
	return c.source.FavoriteCount(ctx, customerID)
}

func readThrough[T any](ctx context.Context, c *Cached, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if b, err := c.cache.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		slog.Warn("Discarding undecodable cache entry", "key", key)
	} else if !errors.Is(err, ErrMiss) {
		slog.Warn("Catalog cache read failed", "key", key, "error", err)
	}

	v, err := load(ctx)
	if err != nil {
		return zero, err
	}

	b, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
		slog.Warn("Catalog cache write failed", "key", key, "error", err)
	}
	return v, nil
}
