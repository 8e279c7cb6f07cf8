package handler

import (
	"net/http"

	"support-bridge/internal/core/logger"
	"support-bridge/internal/core/payload"
	"support-bridge/internal/features/products/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RecommendationHandler handles HTTP requests for product recommendations.
type RecommendationHandler struct {
	// service is the RecommendationService instance.
	service *service.RecommendationService
}

// NewRecommendationHandler creates a new instance of RecommendationHandler.
func NewRecommendationHandler(s *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		service: s,
	}
}

// Recommend handles the request to search and rank catalog products.
// @Summary Recommend products
// @Description Search the storefront catalog with free text and structured filters; results are filtered and ranked locally.
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /recommend-products [post]
func (h *RecommendationHandler) Recommend(c *fiber.Ctx) error {
	fields := payload.Normalize(c)

	query, products, err := h.service.Recommend(c.UserContext(), fields)
	if err != nil {
		logger.Get().Error("Product recommendation failed",
			zap.String("query", query.Expression),
			zap.Error(err),
		)
		return err
	}

	logger.Get().Info("Product recommendation served",
		zap.String("query", query.Expression),
		zap.Int("count", len(products)),
	)

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":  true,
		"query":    query.Expression,
		"count":    len(products),
		"products": products,
	})
}
