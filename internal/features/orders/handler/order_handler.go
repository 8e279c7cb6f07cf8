package handler

import (
	"net/http"

	"support-bridge/internal/core/apperr"
	"support-bridge/internal/core/logger"
	"support-bridge/internal/core/payload"
	"support-bridge/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for order tracking.
type OrderHandler struct {
	// resolver is the OrderResolver instance.
	resolver *service.OrderResolver
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(r *service.OrderResolver) *OrderHandler {
	return &OrderHandler{
		resolver: r,
	}
}

// Track handles the request to look up one order by customer-supplied number.
// @Summary Track an order
// @Description Resolve a loosely formatted order number to its current status, fulfillment and tracking details.
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /track-order [post]
func (h *OrderHandler) Track(c *fiber.Ctx) error {
	fields := payload.Normalize(c)

	if msg := payload.MissingFields(fields, "order_number"); msg != "" {
		return apperr.Validation("%s", msg)
	}
	number := fields.String("order_number")

	order, err := h.resolver.Resolve(c.UserContext(), number)
	if err != nil {
		logger.Get().Error("Order lookup failed",
			zap.String("order_number", number),
			zap.Error(err),
		)
		return err
	}

	logger.Get().Info("Order resolved",
		zap.String("order_number", number),
		zap.String("name", order.Name),
	)

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// ListRecent handles the request for the most recently processed orders.
// @Summary List recent orders
// @Description Return recent orders, newest first. Accepts an optional limit query parameter.
// @Produce json
// @Param limit query int false "maximum orders to return"
// @Success 200 {object} map[string]interface{}
// @Router /list-recent-orders [get]
func (h *OrderHandler) ListRecent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	orders, err := h.resolver.ListRecent(c.UserContext(), limit)
	if err != nil {
		logger.Get().Error("Recent orders listing failed", zap.Error(err))
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(orders),
		"orders":  orders,
	})
}
