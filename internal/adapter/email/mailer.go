// Package email implements ports.Mailer adapters for one-time code delivery.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"secure-wallet/config"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// templateParams are the substitution variables of the verification-code
// mail template.
type templateParams struct {
	ToEmail  string `json:"to_email"`
	UserName string `json:"user_name"`
	OTPCode  string `json:"otp_code"`
}

// sendRequest is the JSON body of the template-mail provider API.
type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

// TemplateMailer delivers verification codes through an HTTP template-mail
// provider. The provider renders the template; this adapter only supplies
// the parameters.
type TemplateMailer struct {
	cfg        config.MailConfig
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewTemplateMailer creates a TemplateMailer.
func NewTemplateMailer(cfg config.MailConfig, httpClient HTTPClient, log zerolog.Logger) *TemplateMailer {
	return &TemplateMailer{cfg: cfg, httpClient: httpClient, log: log}
}

// SendCode posts the code to the mail provider. Any transport error or
// non-2xx response is a delivery failure; the caller invalidates the
// pending code on failure.
func (m *TemplateMailer) SendCode(ctx context.Context, to, code string) error {
	body := sendRequest{
		ServiceID:  m.cfg.ServiceID,
		TemplateID: m.cfg.TemplateID,
		UserID:     m.cfg.PublicKey,
		TemplateParams: templateParams{
			ToEmail:  to,
			UserName: localPart(to),
			OTPCode:  code,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.log.Warn().Err(err).Str("to", to).Msg("mail delivery failed")
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		m.log.Warn().Int("status", resp.StatusCode).Str("to", to).Msg("mail provider rejected request")
		return fmt.Errorf("mail provider status %d", resp.StatusCode)
	}

	m.log.Info().Str("to", to).Msg("verification code delivered")
	return nil
}

// localPart extracts the display name from an email address.
func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

// LogMailer writes codes to the logger instead of dispatching mail.
// Development and test environments only.
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// SendCode logs the code. Never fails.
func (m *LogMailer) SendCode(_ context.Context, to, code string) error {
	m.log.Info().Str("to", to).Str("code", code).Msg("verification code (log mailer)")
	return nil
}
