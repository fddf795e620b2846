package ratestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/hiquote/internal/calculation"
	"github.com/rgehrsitz/hiquote/internal/rates"
)

// Source tells where a resolved configuration came from
type Source string

const (
	SourceCache   Source = "cache"
	SourceStore   Source = "store"
	SourceDefault Source = "default"
)

// Resolver returns the rate configuration of a product. It never fails: an unknown
// product or a store error yields the built-in defaults.
type Resolver struct {
	store    Store
	cache    *Cache
	defaults *rates.Config
	logger   calculation.Logger
}

// NewResolver creates a resolver over store. A nil cache disables caching.
func NewResolver(store Store, cache *Cache) *Resolver {
	return &Resolver{
		store:    store,
		cache:    cache,
		defaults: rates.DefaultConfig(),
		logger:   calculation.NopLogger{},
	}
}

// SetLogger installs a logger; nil restores the no-op logger
func (r *Resolver) SetLogger(l calculation.Logger) {
	if l == nil {
		r.logger = calculation.NopLogger{}
		return
	}
	r.logger = l
}

// Defaults returns the built-in configuration used on fallback
func (r *Resolver) Defaults() *rates.Config {
	return r.defaults
}

// Store returns the underlying store
func (r *Resolver) Store() Store {
	return r.store
}

// Resolve returns the configuration for productID. An empty id or the default product id
// resolves straight to the built-in tables.
func (r *Resolver) Resolve(ctx context.Context, productID string) (*rates.Config, Source) {
	if productID == "" || productID == rates.DefaultProductID || r.store == nil {
		return r.defaults, SourceDefault
	}

	if r.cache != nil {
		if cfg, ok := r.cache.Get(productID); ok {
			return cfg, SourceCache
		}
	}

	cfg, err := r.store.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.logger.Infof("no rate configuration for product %s, using defaults", productID)
		} else {
			r.logger.Warnf("rate store lookup for product %s failed, using defaults: %v", productID, err)
		}
		return r.defaults, SourceDefault
	}

	if r.cache != nil {
		r.cache.Set(productID, cfg)
	}
	return cfg, SourceStore
}

// Invalidate drops a product from the cache after it was changed in the store
func (r *Resolver) Invalidate(productID string) {
	if r.cache != nil {
		r.cache.Invalidate(productID)
	}
}

// Refresh reloads every stored product into the cache and returns how many were loaded.
// Products that fail to load are logged and skipped.
func (r *Resolver) Refresh(ctx context.Context) (int, error) {
	if r.store == nil {
		return 0, nil
	}

	products, err := r.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}

	if r.cache != nil {
		r.cache.InvalidateAll()
	}

	loaded := 0
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}
		cfg, err := r.store.Get(ctx, p.ProductID)
		if err != nil {
			r.logger.Warnf("refresh of product %s failed: %v", p.ProductID, err)
			continue
		}
		if r.cache != nil {
			r.cache.Set(p.ProductID, cfg)
		}
		loaded++
	}

	r.logger.Debugf("refreshed %d of %d rate configurations", loaded, len(products))
	return loaded, nil
}
