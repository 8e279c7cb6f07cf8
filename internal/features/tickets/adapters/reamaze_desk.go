package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"support-bridge/internal/core/apperr"
	"support-bridge/internal/core/config"
	"support-bridge/internal/core/restclient"
	"support-bridge/internal/features/tickets/domain"
)

// lastMessageSnippetLen bounds the preview carried on listing entries.
const lastMessageSnippetLen = 100

// ReamazeDesk implements the SupportDesk interface against the Reamaze REST
// API. Authentication is Basic Auth with the account email and API token.
type ReamazeDesk struct {
	client  *restclient.Client
	channel string
}

// NewReamazeDesk creates a new instance of ReamazeDesk.
func NewReamazeDesk(cfg config.ReamazeConfig, httpCfg config.HTTPConfig) *ReamazeDesk {
	return &ReamazeDesk{
		client: restclient.New(restclient.Options{
			BaseURL:        cfg.APIBaseURL(),
			Retries:        httpCfg.Retries,
			RateLimitDelay: httpCfg.RateLimitDelay(),
			Timeout:        httpCfg.Timeout(),
		}, restclient.BasicAuth(cfg.Email, cfg.APIToken)),
		channel: cfg.Channel,
	}
}

// CreateTicket opens a new conversation filed under the configured channel.
func (a *ReamazeDesk) CreateTicket(ctx context.Context, ticket domain.NewTicket) (*domain.TicketRef, error) {
	name := ticket.CustomerName
	if name == "" {
		name = ticket.CustomerEmail
	}

	body := map[string]any{
		"conversation": map[string]any{
			"subject":  ticket.Subject,
			"category": a.channel,
			"user": map[string]any{
				"email": ticket.CustomerEmail,
				"name":  name,
			},
			"message": map[string]any{
				"body": ticket.Body,
			},
		},
	}

	data, err := a.client.Execute(ctx, http.MethodPost, "/conversations", body, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		ID           int64  `json:"id"`
		Slug         string `json:"slug"`
		Conversation *struct {
			ID   int64  `json:"id"`
			Slug string `json:"slug"`
		} `json:"conversation"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decode create conversation response: %w", err))
	}

	ref := &domain.TicketRef{ID: resp.ID, Slug: resp.Slug}
	if resp.Conversation != nil {
		if ref.ID == 0 {
			ref.ID = resp.Conversation.ID
		}
		if ref.Slug == "" {
			ref.Slug = resp.Conversation.Slug
		}
	}
	return ref, nil
}

// SearchArticles queries the knowledge base.
func (a *ReamazeDesk) SearchArticles(ctx context.Context, query string, limit int) ([]domain.Article, int, error) {
	params := url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(limit)},
	}

	data, err := a.client.Execute(ctx, http.MethodGet, "/articles", nil, params)
	if err != nil {
		return nil, 0, err
	}

	var resp struct {
		Articles   []rmArticle `json:"articles"`
		TotalCount int         `json:"total_count"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, 0, apperr.Internal(fmt.Errorf("decode article search response: %w", err))
	}

	articles := make([]domain.Article, 0, len(resp.Articles))
	for _, art := range resp.Articles {
		articles = append(articles, art.toDomain())
	}
	return articles, resp.TotalCount, nil
}

// GetArticle loads one article by id.
func (a *ReamazeDesk) GetArticle(ctx context.Context, id int64) (*domain.Article, error) {
	data, err := a.client.Execute(ctx, http.MethodGet, fmt.Sprintf("/articles/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}

	var art rmArticle
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decode article response: %w", err))
	}
	article := art.toDomain()
	return &article, nil
}

// ListConversations returns conversation summaries matching the query.
func (a *ReamazeDesk) ListConversations(ctx context.Context, query domain.ConversationQuery) ([]domain.ConversationSummary, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}

	params := url.Values{
		"limit": {strconv.Itoa(limit)},
		"page":  {strconv.Itoa(page)},
	}
	if query.ForEmail != "" {
		params.Set("for", query.ForEmail)
	} else if query.Query != "" {
		params.Set("q", query.Query)
	}

	data, err := a.client.Execute(ctx, http.MethodGet, "/conversations", nil, params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Conversations []rmConversation `json:"conversations"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decode conversation listing: %w", err))
	}

	summaries := make([]domain.ConversationSummary, 0, len(resp.Conversations))
	for _, conv := range resp.Conversations {
		summaries = append(summaries, conv.toSummary())
	}
	return summaries, nil
}

// GetConversation loads one conversation by slug, messages included. Missing
// participants are backfilled from the message history.
func (a *ReamazeDesk) GetConversation(ctx context.Context, slug string) (*domain.Ticket, error) {
	data, err := a.client.Execute(ctx, http.MethodGet, "/conversations/"+url.PathEscape(slug), nil, nil)
	if err != nil {
		return nil, err
	}

	var conv rmConversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decode conversation response: %w", err))
	}
	return conv.toTicket(), nil
}

// AddMessage appends a message to an existing conversation.
func (a *ReamazeDesk) AddMessage(ctx context.Context, slug string, msg domain.NewMessage) (int64, error) {
	name := msg.AuthorName
	if name == "" {
		name = msg.AuthorEmail
	}

	body := map[string]any{
		"message": map[string]any{
			"body": msg.Body,
			"user": map[string]any{
				"email": msg.AuthorEmail,
				"name":  name,
			},
		},
	}

	endpoint := "/conversations/" + url.PathEscape(slug) + "/messages"
	data, err := a.client.Execute(ctx, http.MethodPost, endpoint, body, nil)
	if err != nil {
		return 0, err
	}

	var resp struct {
		ID      int64 `json:"id"`
		Message *struct {
			ID int64 `json:"id"`
		} `json:"message"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, apperr.Internal(fmt.Errorf("decode add message response: %w", err))
	}
	if resp.ID != 0 {
		return resp.ID, nil
	}
	if resp.Message != nil {
		return resp.Message.ID, nil
	}
	return 0, nil
}

// wire structs

type rmArticle struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

func (a rmArticle) toDomain() domain.Article {
	return domain.Article{ID: a.ID, Title: a.Title, Slug: a.Slug, Body: a.Body, URL: a.URL}
}

type rmUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Customer bool   `json:"customer?"`
}

func (u *rmUser) toPerson() *domain.Person {
	if u == nil {
		return nil
	}
	return &domain.Person{Name: u.Name, Email: u.Email}
}

type rmMessage struct {
	Body string `json:"body"`
	// VisibleToCustomer is a pointer because Reamaze omits the field on
	// customer-authored messages. Only an explicit false marks staff.
	VisibleToCustomer *bool   `json:"visible_to_customer"`
	CreatedAt         string  `json:"created_at"`
	User              *rmUser `json:"user"`
}

func (m rmMessage) authorType() string {
	if m.VisibleToCustomer != nil && !*m.VisibleToCustomer {
		return domain.AuthorStaff
	}
	return domain.AuthorCustomer
}

func (m rmMessage) authorName() string {
	if m.User == nil {
		return "Unknown"
	}
	if m.User.Name != "" {
		return m.User.Name
	}
	if m.User.Email != "" {
		return m.User.Email
	}
	return "Unknown"
}

type rmConversation struct {
	Slug                string      `json:"slug"`
	Subject             string      `json:"subject"`
	Status              int         `json:"status"`
	Origin              int         `json:"origin"`
	CreatedAt           string      `json:"created_at"`
	UpdatedAt           string      `json:"updated_at"`
	Category            string      `json:"category"`
	Assignee            *rmUser     `json:"assignee"`
	Author              *rmUser     `json:"author"`
	User                *rmUser     `json:"user"`
	Followers           []rmUser    `json:"followers"`
	MessageCount        int         `json:"message_count"`
	Tags                []string    `json:"tags"`
	Messages            []rmMessage `json:"messages"`
	LastCustomerMessage *rmMessage  `json:"last_customer_message"`
}

func (c rmConversation) toSummary() domain.ConversationSummary {
	summary := domain.ConversationSummary{
		Slug:         c.Slug,
		Subject:      c.Subject,
		Status:       c.Status,
		StatusText:   domain.StatusText(c.Status),
		Origin:       c.Origin,
		OriginText:   domain.OriginText(c.Origin),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		MessageCount: c.MessageCount,
	}

	if c.Assignee != nil {
		summary.Assignee = c.Assignee.Name
	}
	summary.CustomerEmail = c.customerEmail()

	if c.LastCustomerMessage != nil {
		summary.LastMessageSnippet = domain.Snippet(c.LastCustomerMessage.Body, lastMessageSnippetLen)
	}
	return summary
}

// customerEmail prefers the conversation author, then the first follower
// flagged as a customer.
func (c rmConversation) customerEmail() string {
	if c.Author != nil && c.Author.Email != "" {
		return c.Author.Email
	}
	for _, follower := range c.Followers {
		if follower.Customer {
			return follower.Email
		}
	}
	return ""
}

func (c rmConversation) toTicket() *domain.Ticket {
	ticket := &domain.Ticket{
		Slug:         c.Slug,
		Subject:      c.Subject,
		Status:       c.Status,
		StatusText:   domain.StatusText(c.Status),
		Origin:       c.Origin,
		OriginText:   domain.OriginText(c.Origin),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Category:     c.Category,
		Assignee:     c.Assignee.toPerson(),
		Customer:     c.User.toPerson(),
		MessageCount: len(c.Messages),
		Tags:         c.Tags,
		Messages:     make([]domain.Message, 0, len(c.Messages)),
	}
	if ticket.Tags == nil {
		ticket.Tags = []string{}
	}

	authors := make([]domain.MessageAuthor, 0, len(c.Messages))
	for _, msg := range c.Messages {
		ticket.Messages = append(ticket.Messages, domain.Message{
			Body:       msg.Body,
			CreatedAt:  msg.CreatedAt,
			AuthorName: msg.authorName(),
			AuthorType: msg.authorType(),
		})
		authors = append(authors, domain.MessageAuthor{
			Type:   msg.authorType(),
			Person: msg.User.toPerson(),
		})
	}

	ticket.BackfillParticipants(authors)
	return ticket
}
