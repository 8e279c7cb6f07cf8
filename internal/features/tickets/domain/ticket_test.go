package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Unresolved", StatusText(0))
	assert.Equal(t, "Resolved", StatusText(2))
	assert.Equal(t, "Chatbot Resolved", StatusText(8))
	assert.Equal(t, "Unknown", StatusText(42))
}

func TestOriginText(t *testing.T) {
	assert.Equal(t, "Chat", OriginText(0))
	assert.Equal(t, "WhatsApp", OriginText(15))
	assert.Equal(t, "Unknown", OriginText(99))
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", Snippet("short", 10))
	assert.Equal(t, "exactly-ten", Snippet("exactly-ten", 11))
	assert.Equal(t, "truncat...", Snippet("truncated text", 7))
}

// TestBackfillParticipants verifies missing participants come from message
// authors without overwriting present ones.
func TestBackfillParticipants(t *testing.T) {
	jane := &Person{Name: "Jane Doe", Email: "jane@example.com"}
	agent := &Person{Name: "Agent Smith", Email: "smith@desk.example.com"}

	ticket := &Ticket{}
	ticket.BackfillParticipants([]MessageAuthor{
		{Type: AuthorCustomer, Person: jane},
		{Type: AuthorStaff, Person: agent},
	})
	assert.Equal(t, jane, ticket.Customer)
	assert.Equal(t, agent, ticket.Assignee)

	other := &Person{Name: "Someone Else"}
	kept := &Ticket{Customer: jane, Assignee: agent}
	kept.BackfillParticipants([]MessageAuthor{
		{Type: AuthorCustomer, Person: other},
		{Type: AuthorStaff, Person: other},
	})
	assert.Equal(t, jane, kept.Customer)
	assert.Equal(t, agent, kept.Assignee)
}
