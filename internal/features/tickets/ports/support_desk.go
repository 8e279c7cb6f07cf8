package ports

import (
	"context"

	"support-bridge/internal/features/tickets/domain"
)

// SupportDesk is the outbound port to the help desk platform.
type SupportDesk interface {
	// CreateTicket opens a new conversation and returns its identifiers.
	CreateTicket(ctx context.Context, ticket domain.NewTicket) (*domain.TicketRef, error)

	// SearchArticles searches the knowledge base. The second return value is
	// the total article count upstream, which may exceed len(articles).
	SearchArticles(ctx context.Context, query string, limit int) ([]domain.Article, int, error)

	// GetArticle loads one article by numeric id.
	GetArticle(ctx context.Context, id int64) (*domain.Article, error)

	// ListConversations returns conversation summaries matching the query.
	ListConversations(ctx context.Context, query domain.ConversationQuery) ([]domain.ConversationSummary, error)

	// GetConversation loads one conversation by slug, messages included.
	// Returns a not-found error when the slug does not resolve.
	GetConversation(ctx context.Context, slug string) (*domain.Ticket, error)

	// AddMessage appends a message to an existing conversation and returns
	// the new message id when the platform reports one.
	AddMessage(ctx context.Context, slug string, msg domain.NewMessage) (int64, error)
}
