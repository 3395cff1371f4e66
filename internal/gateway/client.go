package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://ai.gateway.lovable.dev/v1"
	maxRetries     = 3
)

// Client talks to an OpenAI-compatible chat-completions gateway.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	backoffFunc func(attempt int) time.Duration
}

func defaultBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// NewClient creates a new Client with the default gateway base URL.
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL)
}

// NewClientWithBaseURL creates a new Client with a custom base URL (for testing).
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		httpClient:  &http.Client{},
		apiKey:      apiKey,
		baseURL:     baseURL,
		backoffFunc: defaultBackoff,
	}
}

// ChatCompletion sends a chat completion request with retry for transient
// failures. Rate-limit and quota conditions are reported as ErrRateLimited
// and ErrQuotaExhausted so callers can distinguish them.
func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}

	resp, err := c.doWithRetry(ctx, func(ctx context.Context) (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")
		return c.httpClient.Do(httpReq)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	return &chatResp, nil
}

func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// statusError maps a final non-OK status to the error taxonomy.
func statusError(statusCode int, body string) error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d: %s", ErrRateLimited, statusCode, body)
	case statusCode == http.StatusPaymentRequired:
		return fmt.Errorf("%w: status %d: %s", ErrQuotaExhausted, statusCode, body)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, statusCode, body)
	}
}

func (c *Client) doWithRetry(ctx context.Context, do func(context.Context) (*http.Response, error)) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoffFunc(attempt - 1)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			case <-time.After(delay):
			}
		}

		resp, err := do(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if !isRetryable(resp.StatusCode) {
			return nil, statusError(resp.StatusCode, string(respBody))
		}

		// Respect Retry-After header on 429 (additional wait on top of backoff)
		if resp.StatusCode == http.StatusTooManyRequests {
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, parseErr := strconv.Atoi(ra); parseErr == nil {
					raDelay := time.Duration(secs) * time.Second
					// Skip if backoffFunc signals zero delays (test mode)
					if raDelay > 0 && c.backoffFunc(0) > 0 {
						select {
						case <-ctx.Done():
							return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
						case <-time.After(raDelay):
						}
					}
				}
			}
		}

		lastErr = statusError(resp.StatusCode, string(respBody))
	}
	return nil, lastErr
}
