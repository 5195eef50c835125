package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"portfolio/internal/models"
)

const defaultTimeout = 10 * time.Second

// ProviderError reports a non-2xx response from the email provider. The
// response body is retained (truncated) for logging; callers should not echo
// it to clients.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("email provider returned status %d: %s", e.StatusCode, e.Body)
}

// SendGridSender delivers messages through the SendGrid v3 mail send API.
type SendGridSender struct {
	endpoint string
	apiKey   string
	to       string
	from     string
	client   *http.Client
}

// NewSendGridSender creates a sender from the email configuration. The caller
// is expected to have validated that the API key is present.
func NewSendGridSender(cfg models.EmailConfig) *SendGridSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SendGridSender{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		to:       cfg.To,
		from:     cfg.From,
		client:   &http.Client{Timeout: timeout},
	}
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridPayload struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	ReplyTo          *sendGridAddress          `json:"reply_to,omitempty"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

// Send relays the message via the SendGrid v3 API. The visitor's address goes
// into reply_to so the site owner can respond directly.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	payload := sendGridPayload{
		Personalizations: []sendGridPersonalization{
			{To: []sendGridAddress{{Email: s.to}}},
		},
		From:    sendGridAddress{Email: s.from},
		Subject: msg.Subject(),
		Content: []sendGridContent{
			{Type: "text/plain", Value: msg.Body()},
		},
	}
	if msg.Email != "" {
		payload.ReplyTo = &sendGridAddress{Email: msg.Email}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &ProviderError{StatusCode: resp.StatusCode, Body: string(detail)}
	}
	return nil
}
