package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.fonnte.com"
	countryCode    = "62"
)

// Client sends WhatsApp messages through the Fonnte gateway.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, token string, logger *slog.Logger) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type sendResult struct {
	Status bool   `json:"status"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// Send posts one message. An empty target is a no-op.
func (c *Client) Send(ctx context.Context, target string, message string) error {
	number := NormalizeTarget(target)
	if number == "" {
		return nil
	}

	form := url.Values{}
	form.Set("target", number)
	form.Set("message", message)
	form.Set("countryCode", countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fonnte request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("fonnte response read failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fonnte returned status %d", resp.StatusCode)
	}

	var result sendResult
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("fonnte response decode failed: %w", err)
	}
	if !result.Status {
		reason := result.Reason
		if reason == "" {
			reason = result.Detail
		}
		return fmt.Errorf("fonnte rejected message: %s", reason)
	}

	c.logger.Debug("whatsapp message accepted",
		"event", "whatsapp_send_accepted",
		"module", "agenda-scheduling/agenda-service",
		"layer", "adapter",
	)
	return nil
}

// NormalizeTarget strips non-digits and turns a local leading 0 into the
// Indonesian country code.
func NormalizeTarget(target string) string {
	var b strings.Builder
	for _, r := range target {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	number := b.String()
	if strings.HasPrefix(number, "0") {
		return countryCode + number[1:]
	}
	return number
}

// Disabled is wired when no gateway token is configured.
type Disabled struct {
	Logger *slog.Logger
}

func (d Disabled) Send(_ context.Context, target string, _ string) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("whatsapp disabled, message dropped",
		"event", "whatsapp_send_disabled",
		"module", "agenda-scheduling/agenda-service",
		"layer", "adapter",
		"has_target", strings.TrimSpace(target) != "",
	)
	return nil
}
