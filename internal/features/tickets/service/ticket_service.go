package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"support-bridge/internal/core/apperr"
	"support-bridge/internal/core/cache"
	"support-bridge/internal/core/logger"
	"support-bridge/internal/features/tickets/domain"
	"support-bridge/internal/features/tickets/ports"

	"go.uber.org/zap"
)

// articleSnippetLen bounds article bodies on search results. Full bodies are
// only returned by the instructions lookup.
const articleSnippetLen = 300

// defaultKBLimit is the article count when the caller does not ask for one.
const defaultKBLimit = 5

// TicketService implements the support desk operations.
type TicketService struct {
	desk  ports.SupportDesk
	cache cache.Cache
	ttl   time.Duration
}

// NewTicketService creates a new instance of TicketService. The cache is
// optional; pass nil to disable knowledge base caching.
func NewTicketService(desk ports.SupportDesk, c cache.Cache, ttl time.Duration) *TicketService {
	return &TicketService{desk: desk, cache: c, ttl: ttl}
}

// CreateTicket builds the conversation subject and body from the customer
// report and opens it on the desk.
func (s *TicketService) CreateTicket(ctx context.Context, email, name, issue, orderNumber string) (*domain.TicketRef, error) {
	if name == "" {
		name = email
	}

	bodyParts := []string{
		"Customer: " + name,
		"Email: " + email,
		"Issue: " + issue,
	}
	if orderNumber != "" {
		bodyParts = append(bodyParts, "Order Number: "+orderNumber)
	}

	ref, err := s.desk.CreateTicket(ctx, domain.NewTicket{
		Subject:       "Support Request: " + issue,
		Body:          strings.Join(bodyParts, "\n"),
		CustomerEmail: email,
		CustomerName:  name,
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Support ticket created",
		zap.String("customer_email", email),
		zap.String("slug", ref.Slug),
	)
	return ref, nil
}

// KBResult is a knowledge base search result with snippet-length bodies.
type KBResult struct {
	Query     string           `json:"query"`
	Count     int              `json:"count"`
	TotalInKB int              `json:"total_articles_in_kb"`
	Articles  []domain.Article `json:"articles"`
}

// SearchKB searches the knowledge base, caching results per query and limit
// when a cache is configured. Cache failures fall through to the desk.
func (s *TicketService) SearchKB(ctx context.Context, query string, limit int) (*KBResult, error) {
	if limit <= 0 {
		limit = defaultKBLimit
	}

	key := fmt.Sprintf("kb:%s:%d", query, limit)
	if s.cache != nil {
		var cached KBResult
		if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
			logger.Get().Debug("Knowledge base cache hit", zap.String("key", key))
			return &cached, nil
		}
	}

	articles, total, err := s.desk.SearchArticles(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if len(articles) > limit {
		articles = articles[:limit]
	}
	for i := range articles {
		articles[i].Body = domain.Snippet(articles[i].Body, articleSnippetLen)
	}

	result := &KBResult{
		Query:     query,
		Count:     len(articles),
		TotalInKB: total,
		Articles:  articles,
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, result, s.ttl); err != nil {
			logger.Get().Warn("Knowledge base cache write failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
	return result, nil
}

// Instructions returns the full body of one article, looked up by id or by
// the first search hit for a topic.
func (s *TicketService) Instructions(ctx context.Context, articleID int64, topic string) (*domain.Article, error) {
	if articleID != 0 {
		return s.desk.GetArticle(ctx, articleID)
	}

	articles, _, err := s.desk.SearchArticles(ctx, topic, 1)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, apperr.NotFound("No articles found for topic: %s", topic)
	}
	return &articles[0], nil
}

// PreviousConversations lists conversations for a customer email or matching
// an order number. Exactly one of email and orderNumber should be set; email
// wins when both are.
func (s *TicketService) PreviousConversations(ctx context.Context, email, orderNumber string, limit int) ([]domain.ConversationSummary, error) {
	query := domain.ConversationQuery{Limit: limit}
	if email != "" {
		query.ForEmail = email
	} else {
		query.Query = orderNumber
	}
	return s.desk.ListConversations(ctx, query)
}

// TicketStatus loads a conversation's current state and full history.
func (s *TicketService) TicketStatus(ctx context.Context, slug string) (*domain.Ticket, error) {
	ticket, err := s.desk.GetConversation(ctx, slug)
	if err != nil {
		if apperr.From(err).Kind == apperr.KindNotFound {
			return nil, apperr.NotFound("Ticket not found: %s", slug)
		}
		return nil, err
	}
	return ticket, nil
}

// AddInfo appends a customer message to an existing ticket. The conversation
// is loaded first so a bad slug fails with not-found instead of creating
// orphaned messages.
func (s *TicketService) AddInfo(ctx context.Context, slug, message, email, name string) (int64, error) {
	if _, err := s.desk.GetConversation(ctx, slug); err != nil {
		if apperr.From(err).Kind == apperr.KindNotFound {
			return 0, apperr.NotFound("Ticket not found: %s", slug)
		}
		return 0, err
	}

	id, err := s.desk.AddMessage(ctx, slug, domain.NewMessage{
		Body:        message,
		AuthorEmail: email,
		AuthorName:  name,
	})
	if err != nil {
		return 0, err
	}

	logger.Get().Info("Message appended to ticket",
		zap.String("slug", slug),
		zap.String("author_email", email),
	)
	return id, nil
}
