// Package email delivers transactional mail over the configured SMTP server.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"tradecareers_backend/platform/config"
	"tradecareers_backend/platform/logger"

	gomail "github.com/wneessen/go-mail"
)

// Sender is the delivery contract the notification pipeline depends on.
type Sender interface {
	SendApplicationReceived(ctx context.Context, toEmail string, data ApplicationReceivedData) error
	SendJobPostedConfirmation(ctx context.Context, toEmail string, data JobPostedData) error
}

// NewSender returns the SMTP sender, or a logging no-op when email is
// disabled (local development).
func NewSender(cfg config.EmailConfig, log *logger.Logger) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return &noopSender{log: log}, nil
	}
	if cfg.GetSMTPHost() == "" {
		return nil, fmt.Errorf("email enabled but SMTP_HOST is empty")
	}
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}, nil
}

// SMTPSender delivers via a direct SMTP connection using go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendApplicationReceived(ctx context.Context, toEmail string, data ApplicationReceivedData) error {
	content, err := renderEmailTemplate("application_received.html", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectApplicationReceivedFmt, data.JobTitle), content)
}

func (s *SMTPSender) SendJobPostedConfirmation(ctx context.Context, toEmail string, data JobPostedData) error {
	content, err := renderEmailTemplate("job_posted.html", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectJobPostedFmt, data.JobTitle), content)
}

type noopSender struct {
	log *logger.Logger
}

func (n *noopSender) SendApplicationReceived(_ context.Context, toEmail string, data ApplicationReceivedData) error {
	n.log.Info("email disabled, skipping application notification", "to", toEmail, "job", data.JobTitle)
	return nil
}

func (n *noopSender) SendJobPostedConfirmation(_ context.Context, toEmail string, data JobPostedData) error {
	n.log.Info("email disabled, skipping posting confirmation", "to", toEmail, "job", data.JobTitle)
	return nil
}
