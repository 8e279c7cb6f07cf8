package ports

import (
	"context"

	"support-bridge/internal/features/transcripts/domain"
)

// ConvoExporter is the outbound port to the conversation platform.
type ConvoExporter interface {
	// Export fetches conversations. A pageSize of 0 fetches everything the
	// API will return in one page.
	Export(ctx context.Context, pageSize int) ([]domain.Conversation, error)

	// Delete removes one conversation from the platform frontend.
	Delete(ctx context.Context, convoID string) error
}
