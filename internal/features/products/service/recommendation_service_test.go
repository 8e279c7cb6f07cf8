package service

import (
	"context"
	"testing"
	"time"

	"support-bridge/internal/core/payload"
	"support-bridge/internal/features/products/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog records the query it received and returns canned products.
type fakeCatalog struct {
	lastQuery domain.SearchQuery
	products  []domain.Product
	err       error
}

func (f *fakeCatalog) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Product, error) {
	f.lastQuery = q
	return f.products, f.err
}

func newService(catalog *fakeCatalog) *RecommendationService {
	s := NewRecommendationService(catalog)
	s.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

// TestRecommend_QueryFromFilters verifies filter fields reach the query builder.
func TestRecommend_QueryFromFilters(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := newService(catalog)

	req := payload.NormalizeMap(map[string]any{
		"query_text": "apple watch strap",
		"limit":      float64(3),
		"filters": map[string]any{
			"watch_model": "Series 7",
			"material":    "leather",
			"color":       "black",
			"size":        "45mm",
		},
	})

	query, _, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "apple watch strap Series 7 leather black 45mm", catalog.lastQuery.Expression)
	assert.Equal(t, 3, query.Limit)
}

// TestRecommend_FiltersAndRanks verifies local filtering, ranking and the limit cap.
func TestRecommend_FiltersAndRanks(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{
		{ID: "pricey", Title: "Pricey Strap", Variants: []domain.Variant{{Price: "80"}}},
		{ID: "sale", Title: "Sale Strap", Variants: []domain.Variant{{Price: "18", CompareAtPrice: "30"}}},
		{ID: "cheap", Title: "Cheap Strap", Variants: []domain.Variant{{Price: "12"}}},
	}}
	svc := newService(catalog)

	req := payload.NormalizeMap(map[string]any{
		"limit": float64(2),
		"filters": map[string]any{
			"price_max": float64(25),
		},
	})

	_, products, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)

	// pricey filtered out; sale outranks cheap via the +100 bonus.
	require.Len(t, products, 2)
	assert.Equal(t, "sale", products[0].ID)
	assert.Equal(t, "cheap", products[1].ID)
}

// TestRecommend_LimitCap verifies the ranked list is truncated to the limit.
func TestRecommend_LimitCap(t *testing.T) {
	var many []domain.Product
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		many = append(many, domain.Product{ID: id, Title: id, Variants: []domain.Variant{{Price: "10"}}})
	}
	catalog := &fakeCatalog{products: many}
	svc := newService(catalog)

	req := payload.NormalizeMap(map[string]any{"limit": float64(4)})
	_, products, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, products, 4)
}

// TestRecommend_DefaultLimitAndFallback verifies an empty request searches
// the catalog-wide fallback with the default limit.
func TestRecommend_DefaultLimitAndFallback(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := newService(catalog)

	query, _, err := svc.Recommend(context.Background(), payload.NormalizeMap(map[string]any{}))
	require.NoError(t, err)

	assert.Equal(t, "status:active", catalog.lastQuery.Expression)
	assert.Equal(t, 5, query.Limit)
}

// TestRecommend_ColorsAlias verifies the plural colors filter feeds the color token.
func TestRecommend_ColorsAlias(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := newService(catalog)

	req := payload.NormalizeMap(map[string]any{
		"filters": map[string]any{
			"colors": []any{"blue", "pink"},
		},
	})

	_, _, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "blue pink", catalog.lastQuery.Expression)
}

// TestRecommend_ProviderError verifies catalog failures pass through unmodified.
func TestRecommend_ProviderError(t *testing.T) {
	catalog := &fakeCatalog{err: assert.AnError}
	svc := newService(catalog)

	_, _, err := svc.Recommend(context.Background(), payload.NormalizeMap(map[string]any{}))
	assert.ErrorIs(t, err, assert.AnError)
}
