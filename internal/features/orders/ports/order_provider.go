package ports

import (
	"context"

	"support-bridge/internal/features/orders/domain"
)

// OrderProvider defines the interface for retrieving remote order records.
// This is a Secondary Port (Driven Port).
type OrderProvider interface {
	// FindByName runs a targeted query for an exact order display name
	// (e.g., `#1001`). Returns (nil, nil) when no order matches.
	FindByName(ctx context.Context, name string) (*domain.Order, error)

	// ListRecent returns up to limit orders sorted by processing time,
	// most recent first.
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
}
