package redis

import "context"

// ProductCacheInterface defines the interface for catalog caching.
type ProductCacheInterface interface {
	GetProduct(ctx context.Context, productID string) (*CachedProduct, error)
	SetProduct(ctx context.Context, product *CachedProduct) error
}

// Ensure concrete types implement interfaces.
var _ ProductCacheInterface = (*CacheStore)(nil)
