package ports

import (
	"context"

	"support-bridge/internal/features/products/domain"
)

// CatalogProvider defines the interface for searching a remote product catalog.
// This is a Secondary Port (Driven Port).
type CatalogProvider interface {
	// Search executes one catalog search and returns raw candidates.
	// Filtering and ranking happen locally, so implementations may return
	// more products than the query limit.
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.Product, error)
}
