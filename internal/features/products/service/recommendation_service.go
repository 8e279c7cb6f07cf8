package service

import (
	"context"
	"time"

	"support-bridge/internal/core/payload"
	"support-bridge/internal/features/products/domain"
	"support-bridge/internal/features/products/ports"
)

// RecommendationService turns a normalized request into a ranked product list.
type RecommendationService struct {
	// catalog is the interface for searching the remote product catalog.
	catalog ports.CatalogProvider
	// now is swappable so ranking tests are time-stable.
	now func() time.Time
}

// NewRecommendationService creates a new instance of RecommendationService.
func NewRecommendationService(catalog ports.CatalogProvider) *RecommendationService {
	return &RecommendationService{
		catalog: catalog,
		now:     time.Now,
	}
}

// Recommend builds the search query, runs it against the catalog, applies the
// business filters and ranks the survivors. The returned slice is capped at
// the query limit.
func (s *RecommendationService) Recommend(ctx context.Context, req payload.Fields) (domain.SearchQuery, []domain.Product, error) {
	filters := filtersFrom(req)

	query := domain.BuildQuery(req.String("query_text"), filters, req.Int("limit", 0))

	products, err := s.catalog.Search(ctx, query)
	if err != nil {
		return query, nil, err
	}

	products = domain.FilterProducts(products, filters)
	products = domain.RankProducts(products, s.now())

	if len(products) > query.Limit {
		products = products[:query.Limit]
	}
	return query, products, nil
}

// filtersFrom reads the filters block from a normalized request. A historical
// plural form of the color filter is tolerated.
func filtersFrom(req payload.Fields) domain.Filters {
	raw := req.Map("filters")

	f := domain.Filters{
		OnSale:     raw.Bool("on_sale"),
		WatchModel: raw.String("watch_model"),
		Material:   raw.String("material"),
		Color:      raw.String("color"),
		Size:       raw.String("size"),
	}

	if f.Color == "" {
		f.Color = raw.String("colors")
	}
	if min, ok := raw.Float("price_min"); ok {
		f.PriceMin = &min
	}
	if max, ok := raw.Float("price_max"); ok {
		f.PriceMax = &max
	}
	return f
}
