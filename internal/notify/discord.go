package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender delivers one message to a webhook URL.
type Sender interface {
	Send(ctx context.Context, webhookURL, message string) error
}

// DiscordSender posts messages to Discord webhooks.
type DiscordSender struct {
	client   *http.Client
	username string
}

// NewDiscordSender creates a sender posting under the given bot username.
func NewDiscordSender(username string) *DiscordSender {
	return &DiscordSender{
		client:   &http.Client{Timeout: 15 * time.Second},
		username: username,
	}
}

type webhookPayload struct {
	Content  string `json:"content"`
	Username string `json:"username"`
}

// Send posts {content, username} as JSON. Any 2xx status is success.
func (s *DiscordSender) Send(ctx context.Context, webhookURL, message string) error {
	body, err := json.Marshal(webhookPayload{Content: message, Username: s.username})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("discord API error: %d", resp.StatusCode)
	}
	return nil
}
