package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// WebhookResponse is the body returned by the Apps Script endpoint
type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	TeamID  string `json:"teamId,omitempty"`
}

// Webhook posts registrations to a spreadsheet automation endpoint
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a Webhook mirror
func NewWebhook(url string, client *http.Client) *Webhook {
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{url: url, client: client}
}

// Name implements Mirror
func (w *Webhook) Name() string { return "webhook" }

// Send implements Mirror
func (w *Webhook) Send(ctx context.Context, team *domain.Team) error {
	_, err := PostWebhook(ctx, w.client, w.url, team)
	return err
}

// PostWebhook sends payload as JSON and succeeds only on a 2xx answer
// carrying {"success": true}
func PostWebhook(ctx context.Context, client *http.Client, url string, payload any) (*WebhookResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	var out WebhookResponse
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil {
			return &out, fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, out.Message)
		}
		return nil, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode webhook response: %w", decodeErr)
	}
	if !out.Success {
		return &out, fmt.Errorf("webhook rejected registration: %s", out.Message)
	}
	return &out, nil
}
