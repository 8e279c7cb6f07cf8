package handler

import (
	"net/http"
	"time"

	"support-bridge/internal/core/apperr"
	"support-bridge/internal/core/logger"
	"support-bridge/internal/core/payload"
	"support-bridge/internal/features/tickets/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TicketHandler handles HTTP requests for support desk operations.
type TicketHandler struct {
	// service is the TicketService instance.
	service *service.TicketService
}

// NewTicketHandler creates a new instance of TicketHandler.
func NewTicketHandler(s *service.TicketService) *TicketHandler {
	return &TicketHandler{
		service: s,
	}
}

// Health reports service liveness.
// @Summary Health check
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func Health(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"service":   "Support Bridge",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Create handles the request to open a new support ticket.
// @Summary Create a support ticket
// @Description Open a new help desk conversation from a customer issue report.
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /create-ticket [post]
func (h *TicketHandler) Create(c *fiber.Ctx) error {
	fields := payload.Normalize(c)

	if msg := payload.MissingFields(fields, "customer_email", "issue"); msg != "" {
		return apperr.Validation("%s", msg)
	}

	ref, err := h.service.CreateTicket(
		c.UserContext(),
		fields.String("customer_email"),
		fields.String("customer_name"),
		fields.String("issue"),
		fields.String("order_number"),
	)
	if err != nil {
		logger.Get().Error("Ticket creation failed",
			zap.String("customer_email", fields.String("customer_email")),
			zap.Error(err),
		)
		return err
	}

	resp := fiber.Map{
		"success":     true,
		"message":     "Support ticket created successfully",
		"ticket_slug": ref.Slug,
	}
	if ref.ID != 0 {
		resp["ticket_id"] = ref.ID
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// SearchKB handles the request to search knowledge base articles.
// @Summary Search the knowledge base
// @Description Search help articles by free text; bodies are returned as snippets.
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /search-kb [post]
func (h *TicketHandler) SearchKB(c *fiber.Ctx) error {
	fields := payload.Normalize(c)

	if msg := payload.MissingFields(fields, "query_text"); msg != "" {
		return apperr.Validation("%s", msg)
	}

	result, err := h.service.SearchKB(c.UserContext(), fields.String("query_text"), fields.Int("limit", 0))
	if err != nil {
		logger.Get().Error("Knowledge base search failed",
			zap.String("query", fields.String("query_text")),
			zap.Error(err),
		)
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":              true,
		"query":                result.Query,
		"count":                result.Count,
		"total_articles_in_kb": result.TotalInKB,
		"articles":             result.Articles,
	})
}

// Instructions handles the request for a full article body.
// @Summary Get instructions
// @Description Return the full body of an article, by id or by the best topic match.
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /get-instructions [post]
func (h *TicketHandler) Instructions(c *fiber.Ctx) error {
	fields := payload.Normalize(c)

	articleID := int64(fields.Int("article_id", 0))
	topic := fields.String("topic")
	if articleID == 0 && topic == "" {
		return apperr.Validation("Either 'topic' or 'article_id' must be provided")
	}

	article, err := h.service.Instructions(c.UserContext(), articleID, topic)
	if err != nil {
		logger.Get().Error("Instructions lookup failed",
			zap.String("topic", topic),
			zap.Int64("article_id", articleID),
			zap.Error(err),
		)
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"instructions": fiber.Map{
			"id":      article.ID,
			"title":   article.Title,
			"content": article.Body,
			"slug":    article.Slug,
			"url":     article.URL,
		},
	})
}

// PreviousConversations handles the request for a customer's history.
// @Summary List previous conversations
// @Description List past conversations by customer email or order number.
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /get-previous-conversations [post]
func (h *TicketHandler) PreviousConversations(c *fiber.Ctx) error {
	fields := payload.Normalize(c)

	email := fields.String("customer_email")
	orderNumber := fields.String("order_number")
	if email == "" && orderNumber == "" {
		return apperr.Validation("Either 'customer_email' or 'order_number' must be provided")
	}

	conversations, err := h.service.PreviousConversations(c.UserContext(), email, orderNumber, fields.Int("limit", 10))
	if err != nil {
		logger.Get().Error("Conversation listing failed", zap.Error(err))
		return err
	}

	searchType, searchValue := "email", email
	if email == "" {
		searchType, searchValue = "order_number", orderNumber
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":       true,
		"search_type":   searchType,
		"search_value":  searchValue,
		"count":         len(conversations),
		"conversations": conversations,
	})
}

// Status handles the request for one ticket's state and history.
// @Summary Check ticket status
// @Description Return a conversation's status, participants and full message history.
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /check-ticket-status [post]
func (h *TicketHandler) Status(c *fiber.Ctx) error {
	fields := payload.Normalize(c)

	if msg := payload.MissingFields(fields, "ticket_id"); msg != "" {
		return apperr.Validation("%s", msg)
	}
	slug := fields.String("ticket_id")

	ticket, err := h.service.TicketStatus(c.UserContext(), slug)
	if err != nil {
		logger.Get().Error("Ticket status lookup failed",
			zap.String("slug", slug),
			zap.Error(err),
		)
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"ticket":  ticket,
	})
}

// AddInfo handles the request to append information to a ticket.
// @Summary Add information to a ticket
// @Description Append a customer message to an existing conversation.
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /add-ticket-info [post]
func (h *TicketHandler) AddInfo(c *fiber.Ctx) error {
	fields := payload.Normalize(c)

	if msg := payload.MissingFields(fields, "ticket_id", "message", "customer_email"); msg != "" {
		return apperr.Validation("%s", msg)
	}
	slug := fields.String("ticket_id")

	messageID, err := h.service.AddInfo(
		c.UserContext(),
		slug,
		fields.String("message"),
		fields.String("customer_email"),
		fields.String("customer_name"),
	)
	if err != nil {
		logger.Get().Error("Ticket append failed",
			zap.String("slug", slug),
			zap.Error(err),
		)
		return err
	}

	resp := fiber.Map{
		"success":   true,
		"message":   "Information added to ticket successfully",
		"ticket_id": slug,
	}
	if messageID != 0 {
		resp["message_id"] = messageID
	}
	return c.Status(http.StatusOK).JSON(resp)
}
