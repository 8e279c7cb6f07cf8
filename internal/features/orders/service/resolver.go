package service

import (
	"context"
	"strings"

	"support-bridge/internal/core/apperr"
	"support-bridge/internal/core/logger"
	"support-bridge/internal/features/orders/domain"
	"support-bridge/internal/features/orders/ports"

	"go.uber.org/zap"
)

// recentScanLimit bounds the fallback scan over recent orders when no
// targeted lookup matches.
const recentScanLimit = 250

// OrderResolver locates orders from loosely formatted customer input.
type OrderResolver struct {
	provider ports.OrderProvider
}

// NewOrderResolver creates a new instance of OrderResolver.
func NewOrderResolver(provider ports.OrderProvider) *OrderResolver {
	return &OrderResolver{provider: provider}
}

// Resolve finds the order matching the given customer-supplied number. It
// tries targeted lookups for both the hashed and bare forms first, then
// falls back to scanning recent orders.
func (s *OrderResolver) Resolve(ctx context.Context, input string) (*domain.Order, error) {
	hashed, bare := domain.NormalizeOrderNumber(input)
	if bare == "" {
		return nil, apperr.Validation("Missing required fields: order_number")
	}

	for _, name := range []string{hashed, bare} {
		order, err := s.provider.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if order != nil {
			return order, nil
		}
	}

	logger.Get().Info("Targeted order lookup missed, scanning recent orders",
		zap.String("order_number", hashed))

	recent, err := s.provider.ListRecent(ctx, recentScanLimit)
	if err != nil {
		return nil, err
	}
	for i := range recent {
		if s.matches(recent[i].Name, hashed, bare) {
			return &recent[i], nil
		}
	}

	return nil, apperr.NotFound("Order %s not found", hashed)
}

// ListRecent returns up to limit recent orders, newest first. A non-positive
// limit falls back to the scan bound.
func (s *OrderResolver) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > recentScanLimit {
		limit = recentScanLimit
	}
	return s.provider.ListRecent(ctx, limit)
}

func (s *OrderResolver) matches(name, hashed, bare string) bool {
	trimmed := strings.TrimSpace(name)
	return strings.EqualFold(trimmed, hashed) || strings.EqualFold(trimmed, bare)
}
