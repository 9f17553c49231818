package messaging

import (
	"context"
	"fmt"

	"khesed-tek/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailProvider sends HTML mail over SMTP
type EmailProvider struct {
	from   string
	mailer mailer
	logger *zap.Logger
}

func NewEmailProvider(cfg *config.Config, logger *zap.Logger) *EmailProvider {
	p := &EmailProvider{logger: logger}
	if cfg.SMTP.Host == "" {
		return p
	}
	p.from = cfg.SMTP.From
	if p.from == "" {
		p.from = cfg.SMTP.User
	}
	p.mailer = gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)
	return p
}

func (p *EmailProvider) SendEmail(ctx context.Context, to, subject, body string) error {
	if p.mailer == nil {
		return fmt.Errorf("email: %w", ErrProviderNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", p.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := p.mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	p.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
