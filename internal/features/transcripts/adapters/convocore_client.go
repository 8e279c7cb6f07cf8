package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"support-bridge/internal/core/apperr"
	"support-bridge/internal/core/config"
	"support-bridge/internal/core/restclient"
	"support-bridge/internal/features/transcripts/domain"
)

// ConvocoreClient implements the ConvoExporter interface against the
// Convocore v3 API.
type ConvocoreClient struct {
	client  *restclient.Client
	agentID string
}

// NewConvocoreClient creates a new instance of ConvocoreClient.
func NewConvocoreClient(cfg config.ConvocoreConfig, httpCfg config.HTTPConfig) *ConvocoreClient {
	return &ConvocoreClient{
		client: restclient.New(restclient.Options{
			BaseURL:        cfg.BaseURL,
			Retries:        httpCfg.Retries,
			RateLimitDelay: httpCfg.RateLimitDelay(),
			Timeout:        httpCfg.Timeout(),
		}, restclient.BearerToken(cfg.APIKey)),
		agentID: cfg.AgentID,
	}
}

// Export fetches conversations from the export endpoint.
func (c *ConvocoreClient) Export(ctx context.Context, pageSize int) ([]domain.Conversation, error) {
	params := url.Values{"format": {"json"}}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}

	endpoint := fmt.Sprintf("/agents/%s/convos/export", url.PathEscape(c.agentID))
	data, err := c.client.Execute(ctx, http.MethodGet, endpoint, nil, params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decode export response: %w", err))
	}

	convos := make([]domain.Conversation, 0, len(resp.Data))
	for _, raw := range resp.Data {
		convos = append(convos, decodeConversation(raw))
	}
	return convos, nil
}

// Delete removes one conversation from the platform.
func (c *ConvocoreClient) Delete(ctx context.Context, convoID string) error {
	endpoint := fmt.Sprintf("/agents/%s/convos/%s", url.PathEscape(c.agentID), url.PathEscape(convoID))
	_, err := c.client.Execute(ctx, http.MethodDelete, endpoint, nil, nil)
	return err
}

// decodeConversation extracts the identifying fields while keeping the full
// record intact.
func decodeConversation(raw json.RawMessage) domain.Conversation {
	var head struct {
		ID       string `json:"id"`
		Metadata struct {
			Convo struct {
				TS int64 `json:"ts"`
			} `json:"convo"`
		} `json:"metadata"`
	}
	// a record that fails to decode still carries its raw payload
	_ = json.Unmarshal(raw, &head)

	convo := domain.Conversation{ID: head.ID, Raw: raw}
	if head.Metadata.Convo.TS > 0 {
		convo.StartedAt = time.Unix(head.Metadata.Convo.TS, 0)
	}
	return convo
}
