// Package email sends the small set of transactional mails the API needs:
// family-share invites and SOS alerts. Delivery is SMTP via gomail; in
// environments without an SMTP endpoint the sender is disabled and logs
// instead of dialing.
package email

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"
	gomail "gopkg.in/gomail.v2"

	"github.com/medpal/medpal-api/pkg/logger"
)

type Config struct {
	Enabled  bool   `envconfig:"SMTP_ENABLED" default:"false"`
	Host     string `envconfig:"SMTP_HOST" default:"localhost"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM" default:"no-reply@medpal.app"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load smtp config: %w", err)
	}
	return &cfg, nil
}

type Service interface {
	SendFamilyInvite(ctx context.Context, to, inviterName, token string) error
	SendSOSAlert(ctx context.Context, to []string, subject, body string) error
}

type smtpService struct {
	cfg    *Config
	dialer *gomail.Dialer
	logger *logger.Logger
}

func NewService(cfg *Config, log *logger.Logger) Service {
	return &smtpService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: log,
	}
}

func (s *smtpService) SendFamilyInvite(ctx context.Context, to, inviterName, token string) error {
	body := fmt.Sprintf(
		"%s invited you to follow their medication plan.\n\nUse this invite code to accept: %s\n",
		inviterName, token)
	return s.send(ctx, []string{to}, "You have been invited to MedPal", body)
}

func (s *smtpService) SendSOSAlert(ctx context.Context, to []string, subject, body string) error {
	return s.send(ctx, to, subject, body)
}

func (s *smtpService) send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	if !s.cfg.Enabled {
		s.logger.Info("email delivery disabled, skipping send",
			"subject", subject, "recipients", len(to))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
