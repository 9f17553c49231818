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

	"khesed-tek/internal/config"

	"go.uber.org/zap"
)

// WhatsAppProvider sends text messages through the WhatsApp Business Cloud API
type WhatsAppProvider struct {
	cfg        config.WhatsAppConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewWhatsAppProvider(cfg *config.Config, logger *zap.Logger) *WhatsAppProvider {
	return &WhatsAppProvider{
		cfg:        cfg.WhatsApp,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

func (p *WhatsAppProvider) SendWhatsApp(ctx context.Context, to, body string) error {
	if p.cfg.Token == "" || p.cfg.PhoneNumberID == "" {
		return fmt.Errorf("whatsapp: %w", ErrProviderNotConfigured)
	}

	payload, err := json.Marshal(whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               strings.TrimPrefix(to, "+"),
		Type:             "text",
		Text:             whatsAppText{Body: body},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal whatsapp payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/messages", strings.TrimRight(p.cfg.BaseURL, "/"), p.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &ProviderError{Provider: "whatsapp", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	p.logger.Info("whatsapp message sent", zap.String("to", to))
	return nil
}
