package domain

import (
	"encoding/json"
	"time"
)

// Conversation is one exported transcript. Raw carries the full record as
// returned by the export API so downstream tooling sees every field.
type Conversation struct {
	ID        string
	StartedAt time.Time
	Raw       json.RawMessage
}

// Month returns the conversation's start month as "YYYY-MM", or "" when the
// start time is unknown.
func (c Conversation) Month() string {
	if c.StartedAt.IsZero() {
		return ""
	}
	return c.StartedAt.Format("2006-01")
}

// ReportItem is one entry of an analysis report fed to the issue recorder.
type ReportItem struct {
	ID                string `json:"id"`
	Date              string `json:"date"`
	IsTechnicalError  bool   `json:"is_technical_error"`
	IsUnhappyCustomer bool   `json:"is_unhappy_customer"`
	Analysis          string `json:"analysis"`
}

// Flagged reports whether the item needs tracking at all.
func (r ReportItem) Flagged() bool {
	return r.IsTechnicalError || r.IsUnhappyCustomer
}

// Issue is one tracked problem conversation. Field names match the on-disk
// tracker format.
type Issue struct {
	ID                  string `json:"id"`
	Date                string `json:"date"`
	IsTechnicalError    bool   `json:"is_technical_error"`
	IsUnhappyCustomer   bool   `json:"is_unhappy_customer"`
	Analysis            string `json:"analysis"`
	Status              string `json:"status"`
	LoggedAt            string `json:"logged_at"`
	DeletedFromFrontend bool   `json:"deleted_from_frontend"`
}

// StatusPending is the initial state of a newly logged issue.
const StatusPending = "Pending"

// NewIssue builds a tracker entry from a report item.
func NewIssue(item ReportItem, loggedAt time.Time) Issue {
	return Issue{
		ID:                item.ID,
		Date:              item.Date,
		IsTechnicalError:  item.IsTechnicalError,
		IsUnhappyCustomer: item.IsUnhappyCustomer,
		Analysis:          item.Analysis,
		Status:            StatusPending,
		LoggedAt:          loggedAt.Format("2006-01-02 15:04:05"),
	}
}
