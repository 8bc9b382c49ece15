package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

var _ model.Messenger = (*Webhook)(nil)

// Webhook posts messages as JSON to a delivery gateway that owns the actual
// email and SMS providers.
type Webhook struct {
	baseURL string
	token   string
	client  *http.Client
}

// envelope is the body posted to the gateway.
type envelope struct {
	Channel string              `json:"channel"`
	Email   *model.EmailMessage `json:"email,omitempty"`
	SMS     *model.SMSMessage   `json:"sms,omitempty"`
}

func NewWebhook(baseURL, token string, timeout time.Duration) *Webhook {
	return &Webhook{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (w *Webhook) SendEmail(ctx context.Context, msg model.EmailMessage) error {
	return w.post(ctx, "/email", envelope{Channel: "email", Email: &msg})
}

func (w *Webhook) SendSMS(ctx context.Context, msg model.SMSMessage) error {
	return w.post(ctx, "/sms", envelope{Channel: "sms", SMS: &msg})
}

func (w *Webhook) post(ctx context.Context, path string, body envelope) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s message: %w", body.Channel, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", body.Channel, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", body.Channel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s gateway returned status %d: %s", body.Channel, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return nil
}
