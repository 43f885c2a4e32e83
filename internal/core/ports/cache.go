package ports

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by GetJSON when the key is absent. A cache miss is
// not a failure; callers fall through to the authoritative store.
var ErrCacheMiss = errors.New("cache miss")

// Cache namespaces, one per resource type. Every write to a resource
// invalidates its whole namespace so cached reads can never serve data older
// than the last committed write.
const (
	CacheNamespaceInventory = "inventory"
	CacheNamespaceOrders    = "orders"
	CacheNamespaceShipments = "shipments"
	CacheNamespaceUsers     = "users"
)

// Cache is a read-through cache for query results, keyed within per-resource
// namespaces. Invalidation is coarse: invalidating a namespace drops every
// entry in it at once, so writers never need to know which reads are cached.
type Cache interface {
	// GetJSON unmarshals the cached value for key within the namespace into
	// dest. Returns ErrCacheMiss when absent. Any other error means the cache
	// backend itself failed; callers treat that as a miss too.
	GetJSON(ctx context.Context, namespace, key string, dest any) error

	// SetJSON marshals value and stores it under key within the namespace.
	SetJSON(ctx context.Context, namespace, key string, value any) error

	// Invalidate drops every entry in the namespace.
	Invalidate(ctx context.Context, namespace string) error
}
