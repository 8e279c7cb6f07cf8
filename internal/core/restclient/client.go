package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"support-bridge/internal/core/apperr"
	"support-bridge/internal/core/httpclient"
	"support-bridge/internal/core/logger"

	"go.uber.org/zap"
)

// Options configures a Client. Zero values fall back to the defaults below.
type Options struct {
	// BaseURL is prepended to relative endpoints.
	BaseURL string
	// Retries is the total attempt budget (default 3).
	Retries int
	// RateLimitDelay is the fixed cooldown after an HTTP 429 (default 60s).
	RateLimitDelay time.Duration
	// Timeout bounds each individual request (default 30s).
	Timeout time.Duration
}

// Authorizer injects credentials into an outgoing request. Callers of the
// client never supply credentials themselves.
type Authorizer func(*http.Request)

// BasicAuth returns an Authorizer using HTTP Basic Authentication.
func BasicAuth(username, password string) Authorizer {
	return func(req *http.Request) {
		req.SetBasicAuth(username, password)
	}
}

// HeaderToken returns an Authorizer setting a single credential header.
func HeaderToken(header, token string) Authorizer {
	return func(req *http.Request) {
		req.Header.Set(header, token)
	}
}

// BearerToken returns an Authorizer setting an Authorization bearer header.
func BearerToken(token string) Authorizer {
	return HeaderToken("Authorization", "Bearer "+token)
}

// Client performs authenticated HTTP calls with bounded retry.
//
// Retry policy: on HTTP 429 it sleeps the configured fixed delay and retries,
// except on the final attempt where it returns a RateLimited envelope. On a
// transport-level failure it backs off exponentially (2^attempt seconds)
// within the same budget. Any other non-2xx status is propagated immediately
// without retry.
type Client struct {
	http      *http.Client
	opts      Options
	authorize Authorizer

	// sleep is swappable so tests can count delays instead of waiting.
	sleep func(time.Duration)
}

// New creates a Client from options and an authorizer.
func New(opts Options, authorize Authorizer) *Client {
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.RateLimitDelay <= 0 {
		opts.RateLimitDelay = 60 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if authorize == nil {
		authorize = func(*http.Request) {}
	}
	return &Client{
		http:      httpclient.NewClient(opts.Timeout),
		opts:      opts,
		authorize: authorize,
		sleep:     time.Sleep,
	}
}

// Execute performs one authenticated call and returns the parsed JSON body.
// An empty response body yields an empty JSON object. Endpoint may be a path
// relative to BaseURL or an absolute URL.
func (c *Client) Execute(ctx context.Context, method, endpoint string, body any, params url.Values) (json.RawMessage, error) {
	target := c.resolve(endpoint)
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target = target + sep + params.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("marshal request body: %w", err))
		}
	}

	log := logger.Get()

	for attempt := 0; attempt < c.opts.Retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		c.authorize(req)

		log.Info("Making outbound request",
			zap.String("method", method),
			zap.String("url", req.URL.Redacted()),
			zap.Int("attempt", attempt+1),
		)

		resp, err := c.http.Do(req)
		if err != nil {
			log.Error("Request failed",
				zap.String("url", req.URL.Redacted()),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			if attempt < c.opts.Retries-1 {
				c.sleep(time.Duration(1<<attempt) * time.Second)
				continue
			}
			return nil, apperr.Unavailable("Max retries exceeded", err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		log.Info("Response received",
			zap.String("url", req.URL.Redacted()),
			zap.Int("status", resp.StatusCode),
		)

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt < c.opts.Retries-1 {
				log.Warn("Rate limited, backing off",
					zap.Duration("delay", c.opts.RateLimitDelay),
				)
				c.sleep(c.opts.RateLimitDelay)
				continue
			}
			return nil, apperr.RateLimited("Rate limit exceeded")
		}

		if readErr != nil {
			if attempt < c.opts.Retries-1 {
				c.sleep(time.Duration(1<<attempt) * time.Second)
				continue
			}
			return nil, apperr.Unavailable("Max retries exceeded", readErr)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, apperr.Remote(resp.StatusCode, remoteMessage(respBody))
		}

		if len(bytes.TrimSpace(respBody)) == 0 {
			return json.RawMessage("{}"), nil
		}
		return respBody, nil
	}

	return nil, apperr.Unavailable("Max retries exceeded", nil)
}

// GraphQL posts a query document to BaseURL and unwraps the data field.
// A 200 response carrying a top-level errors array is converted into a
// RemoteValidation envelope.
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	raw, err := c.Execute(ctx, http.MethodPost, "", map[string]any{
		"query":     query,
		"variables": variables,
	}, nil)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decode graphql response: %w", err))
	}
	if len(probe.Errors) > 0 {
		msgs := make([]string, 0, len(probe.Errors))
		for _, e := range probe.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, apperr.RemoteValidation(strings.Join(msgs, "; "))
	}
	return probe.Data, nil
}

// resolve joins a relative endpoint onto BaseURL; absolute URLs pass through.
func (c *Client) resolve(endpoint string) string {
	if endpoint == "" {
		return c.opts.BaseURL
	}
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return strings.TrimSuffix(c.opts.BaseURL, "/") + "/" + strings.TrimPrefix(endpoint, "/")
}

// remoteMessage pulls a human-readable message out of a remote error body.
func remoteMessage(body []byte) string {
	var probe struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Errors  any    `json:"errors"`
	}
	if err := json.Unmarshal(body, &probe); err == nil {
		if probe.Error != "" {
			return probe.Error
		}
		if probe.Message != "" {
			return probe.Message
		}
		if probe.Errors != nil {
			return fmt.Sprintf("%v", probe.Errors)
		}
	}
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return trimmed
}
