package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wanderlyst/backend/internal/domain/providers"
	"github.com/wanderlyst/backend/pkg/config"
)

// HTTPMailSender sends mail through a JSON mail-delivery API.
type HTTPMailSender struct {
	apiURL     string
	apiKey     string
	fromAddr   string
	httpClient *http.Client
}

// NewHTTPMailSender creates a new mail sender
func NewHTTPMailSender(cfg *config.MailConfig) (*HTTPMailSender, error) {
	if cfg.APIURL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("MAIL_API_URL and MAIL_API_KEY must be set")
	}

	return &HTTPMailSender{
		apiURL:   cfg.APIURL,
		apiKey:   cfg.APIKey,
		fromAddr: cfg.FromAddr,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// mailMessage is the delivery API request payload
type mailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// mailResponse is the delivery API response
type mailResponse struct {
	ID string `json:"id"`
}

var _ providers.Mailer = (*HTTPMailSender)(nil)

// Send delivers a plain-text mail to a single recipient.
func (s *HTTPMailSender) Send(ctx context.Context, to, subject, body string) error {
	message := mailMessage{
		From:    s.fromAddr,
		To:      to,
		Subject: subject,
		Text:    body,
	}

	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal mail message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mail API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var mailResp mailResponse
	if err := json.Unmarshal(respBody, &mailResp); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if mailResp.ID == "" {
		return fmt.Errorf("no message ID in response")
	}

	return nil
}
