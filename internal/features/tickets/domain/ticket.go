package domain

// statusTexts maps Reamaze conversation status codes to display text.
var statusTexts = map[int]string{
	0: "Unresolved",
	1: "Pending",
	2: "Resolved",
	3: "Spam",
	4: "Archived",
	5: "On Hold",
	6: "Auto-Resolved",
	7: "Chatbot Assigned",
	8: "Chatbot Resolved",
	9: "Spam - identified by AI",
}

// originTexts maps Reamaze conversation origin codes to display text.
var originTexts = map[int]string{
	0:  "Chat",
	1:  "Email",
	2:  "Twitter",
	3:  "Facebook",
	6:  "Classic Mode Chat",
	7:  "API",
	8:  "Instagram",
	9:  "SMS",
	15: "WhatsApp",
	16: "Staff Outbound",
	17: "Contact Form",
}

// StatusText returns the display text for a conversation status code.
func StatusText(code int) string {
	if text, ok := statusTexts[code]; ok {
		return text
	}
	return "Unknown"
}

// OriginText returns the display text for a conversation origin code.
func OriginText(code int) string {
	if text, ok := originTexts[code]; ok {
		return text
	}
	return "Unknown"
}

// Person is a named participant on a conversation.
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Message is one entry in a conversation's history.
type Message struct {
	Body       string `json:"body"`
	CreatedAt  string `json:"created_at"`
	AuthorName string `json:"author_name"`
	AuthorType string `json:"author_type"`
}

// AuthorStaff and AuthorCustomer are the two message attributions. Reamaze
// marks internal notes with visible_to_customer=false.
const (
	AuthorStaff    = "staff"
	AuthorCustomer = "customer"
)

// Ticket is a fully loaded conversation, message history included.
type Ticket struct {
	Slug         string    `json:"slug"`
	Subject      string    `json:"subject"`
	Status       int       `json:"status"`
	StatusText   string    `json:"status_text"`
	Origin       int       `json:"origin"`
	OriginText   string    `json:"origin_text"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
	Category     string    `json:"category"`
	Assignee     *Person   `json:"assignee"`
	Customer     *Person   `json:"customer"`
	MessageCount int       `json:"message_count"`
	Tags         []string  `json:"tags"`
	Messages     []Message `json:"messages"`
}

// BackfillParticipants fills a missing customer or assignee from the message
// history. Reamaze omits the top-level participants on some conversation
// origins even when the messages carry them.
func (t *Ticket) BackfillParticipants(authors []MessageAuthor) {
	for _, a := range authors {
		if t.Customer == nil && a.Type == AuthorCustomer && a.Person != nil {
			t.Customer = a.Person
		}
		if t.Assignee == nil && a.Type == AuthorStaff && a.Person != nil {
			t.Assignee = a.Person
		}
	}
}

// MessageAuthor pairs a message attribution with its author identity.
type MessageAuthor struct {
	Type   string
	Person *Person
}

// ConversationSummary is the listing shape for previous-conversation lookups.
type ConversationSummary struct {
	Slug               string `json:"slug"`
	Subject            string `json:"subject"`
	Status             int    `json:"status"`
	StatusText         string `json:"status_text"`
	Origin             int    `json:"origin"`
	OriginText         string `json:"origin_text"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
	Assignee           string `json:"assignee,omitempty"`
	CustomerEmail      string `json:"customer_email,omitempty"`
	MessageCount       int    `json:"message_count"`
	LastMessageSnippet string `json:"last_message_snippet"`
}

// Article is a knowledge base entry.
type Article struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// TicketRef identifies a newly created conversation. Reamaze conversations
// are addressed by slug; the numeric id is present only on some responses.
type TicketRef struct {
	ID   int64  `json:"ticket_id,omitempty"`
	Slug string `json:"ticket_slug"`
}

// NewTicket is the input for creating a conversation.
type NewTicket struct {
	Subject       string
	Body          string
	CustomerEmail string
	CustomerName  string
}

// NewMessage is the input for appending to a conversation.
type NewMessage struct {
	Body        string
	AuthorEmail string
	AuthorName  string
}

// ConversationQuery filters a conversation listing. ForEmail and Query are
// mutually exclusive in practice; when both are set ForEmail wins upstream.
type ConversationQuery struct {
	ForEmail string
	Query    string
	Limit    int
	Page     int
}

// Snippet truncates s to at most n characters with a trailing ellipsis.
func Snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
