// Package flomo publishes text memos to a flomo incoming webhook.
package flomo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when no webhook URL is set.
	ErrNotConfigured = errors.New("flomo webhook URL is not set")

	// ErrSubscriptionRequired is returned when the account cannot use the API.
	ErrSubscriptionRequired = errors.New("flomo API requires a PRO membership")
)

// Client posts memos to a webhook URL.
type Client struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for webhookURL. An empty URL yields a client
// whose Publish always fails with ErrNotConfigured.
func NewClient(webhookURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		webhookURL: strings.TrimSpace(webhookURL),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type memoRequest struct {
	Content string `json:"content"`
}

type memoResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Publish sends content as one memo.
func (c *Client) Publish(ctx context.Context, content string) error {
	if c.webhookURL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(memoRequest{Content: content})
	if err != nil {
		return fmt.Errorf("encode memo: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send memo: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var result memoResponse
	if err := json.Unmarshal(data, &result); err == nil && result.Code == -1 {
		c.logger.Warn("flomo rejected memo", "message", result.Message)
		return ErrSubscriptionRequired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send memo: status %d", resp.StatusCode)
	}

	c.logger.Info("memo published", "bytes", len(content))
	return nil
}
