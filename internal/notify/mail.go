package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTPConfig configures MailSender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	// AdminEmail receives admin notifications when set.
	AdminEmail string
}

type mailDialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// MailSender emails guests, and the admin when AdminEmail is set.
type MailSender struct {
	client     mailDialer
	from       string
	fromName   string
	adminEmail string
}

func NewMailSender(cfg SMTPConfig) (*MailSender, error) {
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("init smtp client: %w", err)
	}
	return &MailSender{client: client, from: cfg.From, fromName: cfg.FromName, adminEmail: cfg.AdminEmail}, nil
}

func (s *MailSender) Serves(a Audience) bool {
	return a == AudienceGuest || (a == AudienceAdmin && s.adminEmail != "")
}

func (s *MailSender) Send(ctx context.Context, m Message) error {
	to := m.To
	if m.Audience == AudienceAdmin {
		to = s.adminEmail
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address %q: %w", to, err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
