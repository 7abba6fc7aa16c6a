package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles catalog caching in Redis. Orders are never cached:
// reconciliation must always read the row it transitions.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// ProductCacheTTL bounds how stale a cached price can be.
const ProductCacheTTL = 5 * time.Minute

const productCachePrefix = "cache:product:"

// CachedProduct represents a cached product entity.
type CachedProduct struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Active     bool   `json:"active"`
}

// GetProduct retrieves a product from cache.
func (s *CacheStore) GetProduct(ctx context.Context, productID string) (*CachedProduct, error) {
	key := productCachePrefix + productID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var product CachedProduct
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// SetProduct stores a product in cache.
func (s *CacheStore) SetProduct(ctx context.Context, product *CachedProduct) error {
	key := productCachePrefix + product.ID
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ProductCacheTTL).Err()
}
