package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const resendBaseURL = "https://api.resend.com"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Mailer sends email through the Resend API.
type Mailer struct {
	apiKey     string
	from       string
	baseURL    string
	httpClient *http.Client
}

type MailerOption func(*Mailer)

func WithResendBaseURL(baseURL string) MailerOption {
	return func(m *Mailer) { m.baseURL = strings.TrimSuffix(baseURL, "/") }
}

func WithHTTPClient(c *http.Client) MailerOption {
	return func(m *Mailer) { m.httpClient = c }
}

func NewMailer(apiKey, from string, opts ...MailerOption) *Mailer {
	m := &Mailer{
		apiKey:     apiKey,
		from:       from,
		baseURL:    resendBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Configured reports whether the mailer has the credentials it needs.
func (m *Mailer) Configured() bool {
	return m != nil && m.apiKey != "" && m.from != ""
}

// SendEmail sends an HTML email to recipients and returns the Resend message id.
func (m *Mailer) SendEmail(ctx context.Context, email ResendEmailRequest) (string, error) {
	if len(email.To) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if !m.Configured() {
		return "", fmt.Errorf("RESEND_API_KEY and RESEND_FROM_EMAIL are required")
	}
	email.From = m.from

	jsonPayload, err := json.Marshal(email)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return "", fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return "", fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}
	return emailResponse.ID, nil
}

// ContactMessage is a visitor's message from the contact section.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

func (c ContactMessage) Subject() string {
	return fmt.Sprintf("Portfolio contact from %s", c.Name)
}

// HTML renders the message body with every user supplied value escaped.
func (c ContactMessage) HTML() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s &lt;%s&gt;</p>", html.EscapeString(c.Name), html.EscapeString(c.Email))
	for _, para := range strings.Split(strings.TrimSpace(c.Message), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
	}
	return b.String()
}

// SendContact forwards a contact form message to recipient with the visitor as reply-to.
func (m *Mailer) SendContact(ctx context.Context, recipient string, msg ContactMessage) (string, error) {
	return m.SendEmail(ctx, ResendEmailRequest{
		To:      []string{recipient},
		Subject: msg.Subject(),
		Html:    msg.HTML(),
		Text:    msg.Message,
		ReplyTo: msg.Email,
	})
}
