package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"k9vision/api/internal/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// Mailer delivers transactional email through the Resend REST API.
type Mailer struct {
	client  *http.Client
	apiKey  string
	from    string
	siteURL string
	log     zerolog.Logger
}

func New(cfg config.EmailConfig, log zerolog.Logger) *Mailer {
	return &Mailer{
		client:  &http.Client{Timeout: 15 * time.Second},
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		siteURL: cfg.SiteURL,
		log:     log,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *Mailer) send(ctx context.Context, to string, subject string, html string) error {
	body, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email send failed: status %d: %s", resp.StatusCode, detail)
	}

	m.log.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

func (m *Mailer) SendInvite(ctx context.Context, to string, clientName string, dogName string, token string) error {
	setupURL := fmt.Sprintf("%s/setup-account?token=%s", m.siteURL, token)
	return m.send(ctx, to,
		"A warm welcome from K9 Vision (Action Required)",
		inviteEmailHTML(clientName, dogName, setupURL))
}

func (m *Mailer) SendVerification(ctx context.Context, to string, clientName string, token string) error {
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", m.siteURL, token)
	return m.send(ctx, to,
		"A warm welcome from K9 Vision (Action Required)",
		verificationEmailHTML(clientName, verifyURL))
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to string, token string, adminTriggered bool) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", m.siteURL, token)
	return m.send(ctx, to,
		"K9 Vision - Reset Your Password",
		resetEmailHTML(resetURL, adminTriggered))
}

func (m *Mailer) SendInvoice(ctx context.Context, to string, clientName string, invoiceID int64, total float64) error {
	return m.send(ctx, to,
		fmt.Sprintf("K9 Vision - Invoice #%d", invoiceID),
		invoiceEmailHTML(clientName, invoiceID, total))
}

// SendContact forwards a contact-form submission to the trainer's own
// inbox (the configured from address).
func (m *Mailer) SendContact(ctx context.Context, name string, email string, message string) error {
	return m.send(ctx, m.from,
		"K9 Vision - New Contact Form Message",
		contactEmailHTML(name, email, message))
}
