package messaging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"khesed-tek/internal/config"

	"go.uber.org/zap"
)

// SMSProvider sends text messages through the Twilio Messages API
type SMSProvider struct {
	cfg        config.TwilioConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewSMSProvider(cfg *config.Config, logger *zap.Logger) *SMSProvider {
	return &SMSProvider{
		cfg:        cfg.Twilio,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

func (p *SMSProvider) SendSMS(ctx context.Context, to, body string) error {
	if p.cfg.AccountSID == "" || p.cfg.AuthToken == "" || p.cfg.From == "" {
		return fmt.Errorf("sms: %w", ErrProviderNotConfigured)
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", strings.TrimRight(p.cfg.BaseURL, "/"), p.cfg.AccountSID)
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", p.cfg.From)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create sms request: %w", err)
	}
	req.SetBasicAuth(p.cfg.AccountSID, p.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &ProviderError{Provider: "twilio", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	p.logger.Info("sms sent", zap.String("to", to))
	return nil
}
