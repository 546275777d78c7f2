// Package client submits registrations from the form to the registration API
// and, optionally, to the spreadsheet webhook.
//
// Both targets are called concurrently and reported separately. The
// submission counts as accepted when either of them accepts it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SudilMin/Devthon-website/internal/bridge"
	"github.com/SudilMin/Devthon-website/internal/domain"
)

// RegisterPath is the registration endpoint relative to the API base URL
const RegisterPath = "/api/registration/register"

// Path names used in logs and results
const (
	PathPrimary   = "api"
	PathSecondary = "webhook"
)

// APIResponse is the body returned by the registration API
type APIResponse struct {
	Success          bool                `json:"success"`
	Code             string              `json:"code,omitempty"`
	Message          string              `json:"message"`
	Data             *RegistrationData   `json:"data,omitempty"`
	Errors           []domain.FieldError `json:"errors,omitempty"`
	RegisteredEmails []string            `json:"registeredEmails,omitempty"`
}

// RegistrationData is the summary of an accepted registration
type RegistrationData struct {
	TeamID           string    `json:"teamId"`
	TeamName         string    `json:"teamName"`
	TeamSize         int       `json:"teamSize"`
	ProjectTitle     string    `json:"projectTitle"`
	ProjectCategory  string    `json:"projectCategory"`
	RegistrationDate time.Time `json:"registrationDate"`
	Status           string    `json:"status"`
}

// PathResult is the result of one submission path
type PathResult struct {
	Name       string
	OK         bool
	StatusCode int
	Response   *APIResponse
	Webhook    *bridge.WebhookResponse
	Err        error
}

// Responded reports whether the target answered at all
func (r *PathResult) Responded() bool {
	return r.Response != nil || r.Webhook != nil
}

// Client sends registrations to the API and the optional webhook
type Client struct {
	apiURL     string
	webhookURL string
	http       *http.Client
	logger     *slog.Logger
}

// New creates a Client. An empty webhookURL disables the secondary path.
func New(apiBaseURL, webhookURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiURL:     strings.TrimRight(apiBaseURL, "/") + RegisterPath,
		webhookURL: webhookURL,
		http:       httpClient,
		logger:     logger,
	}
}

// Submit sends reg to both targets concurrently and waits for both results
func (c *Client) Submit(ctx context.Context, reg *domain.Registration) *Outcome {
	primary := make(chan PathResult, 1)
	go func() {
		primary <- c.postAPI(ctx, reg)
	}()

	var secondary chan PathResult
	if c.webhookURL != "" {
		secondary = make(chan PathResult, 1)
		go func() {
			secondary <- c.postWebhook(ctx, reg)
		}()
	}

	out := &Outcome{Registration: reg}
	out.Primary = <-primary
	c.log(out.Primary)
	if secondary != nil {
		res := <-secondary
		c.log(res)
		out.Secondary = &res
	}

	if !out.Primary.OK && out.Secondary != nil && out.Secondary.OK {
		c.logger.Warn("Registration accepted only by the webhook, API path failed",
			"team_name", reg.TeamName,
			"api_status", out.Primary.StatusCode,
		)
	}
	return out
}

func (c *Client) log(res PathResult) {
	attrs := []any{"path", res.Name, "ok", res.OK, "status", res.StatusCode}
	if res.Err != nil {
		attrs = append(attrs, "error", res.Err)
	}
	if res.OK {
		c.logger.Info("Submission path finished", attrs...)
		return
	}
	c.logger.Warn("Submission path failed", attrs...)
}

func (c *Client) postAPI(ctx context.Context, reg *domain.Registration) PathResult {
	res := PathResult{Name: PathPrimary}

	body, err := json.Marshal(reg)
	if err != nil {
		res.Err = fmt.Errorf("failed to encode registration: %w", err)
		return res
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		res.Err = fmt.Errorf("failed to create request: %w", err)
		return res
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("registration request failed: %w", err)
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		res.Err = fmt.Errorf("failed to read response: %w", err)
		return res
	}

	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		res.Err = fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
		return res
	}

	res.Response = &apiResp
	res.OK = resp.StatusCode >= 200 && resp.StatusCode <= 299 && apiResp.Success
	return res
}

func (c *Client) postWebhook(ctx context.Context, reg *domain.Registration) PathResult {
	res := PathResult{Name: PathSecondary}

	resp, err := bridge.PostWebhook(ctx, c.http, c.webhookURL, reg)
	res.Webhook = resp
	if err != nil {
		res.Err = err
		return res
	}
	res.OK = true
	res.StatusCode = http.StatusOK
	return res
}
