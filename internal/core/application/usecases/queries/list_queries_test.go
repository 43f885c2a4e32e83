package queries_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
)

// stubCache is an in-memory ports.Cache for handler tests.
type stubCache struct {
	entries map[string][]byte
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]byte)}
}

func (c *stubCache) GetJSON(_ context.Context, namespace, key string, dest any) error {
	raw, ok := c.entries[namespace+"/"+key]
	if !ok {
		return ports.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *stubCache) SetJSON(_ context.Context, namespace, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[namespace+"/"+key] = raw
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, namespace string) error {
	for key := range c.entries {
		delete(c.entries, key)
	}
	return nil
}

func TestNewListInventoryItemsQuery(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		size    int
		wantErr error
	}{
		{name: "valid_first_page", page: 1, size: 20},
		{name: "valid_max_size", page: 3, size: queries.MaxPageSize},
		{name: "zero_page", page: 0, size: 20, wantErr: errs.ErrValueIsInvalid},
		{name: "negative_page", page: -1, size: 20, wantErr: errs.ErrValueIsInvalid},
		{name: "zero_size", page: 1, size: 0, wantErr: errs.ErrValueIsOutOfRange},
		{name: "oversized_page", page: 1, size: queries.MaxPageSize + 1, wantErr: errs.ErrValueIsOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := queries.NewListInventoryItemsQuery(tt.page, tt.size)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NoError(t, query.Validate())
		})
	}
}

func TestListInventoryItemsQuery_NotConstructed(t *testing.T) {
	var query queries.ListInventoryItemsQuery

	err := query.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrListInventoryItemsQueryIsNotConstructed)
}

func TestNewGetLowStockItemsQueryWithThreshold(t *testing.T) {
	t.Run("valid_threshold", func(t *testing.T) {
		query, err := queries.NewGetLowStockItemsQueryWithThreshold(10)

		require.NoError(t, err)
		assert.NoError(t, query.Validate())
	})

	t.Run("zero_threshold", func(t *testing.T) {
		_, err := queries.NewGetLowStockItemsQueryWithThreshold(0)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("default_constructor_validates", func(t *testing.T) {
		query := queries.NewGetLowStockItemsQuery()

		assert.NoError(t, query.Validate())
	})
}

func TestListInventoryItemsQueryHandler_ServesFromCache(t *testing.T) {
	// Given a cached page under the key the handler derives from the query
	cache := newStubCache()
	cached := queries.InventoryItemPageResponse{
		Items:      []queries.InventoryItemResponse{},
		Page:       1,
		Size:       20,
		TotalItems: 0,
		TotalPages: 0,
	}
	require.NoError(t, cache.SetJSON(context.Background(),
		ports.CacheNamespaceInventory, "list:page=1:size=20", cached))

	// When handling with no database behind the handler
	handler := queries.NewListInventoryItemsQueryHandler(nil, cache)
	query, err := queries.NewListInventoryItemsQuery(1, 20)
	require.NoError(t, err)

	page, err := handler.Handle(context.Background(), query)

	// Then the cached page is returned without touching the database
	require.NoError(t, err)
	assert.Equal(t, cached, page)
}
