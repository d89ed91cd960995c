// Package notify delivers operator alerts raised by the export pipeline.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	appexport "github.com/cartloom/exporter/internal/application/export"
	infraconfig "github.com/cartloom/exporter/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure SMTPNotifier implements the application notifier port
var _ appexport.EmailNotifier = (*SMTPNotifier)(nil)

// sendMailFunc matches smtp.SendMail; injectable for tests
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends alert emails through a plain SMTP relay
type SMTPNotifier struct {
	host      string
	port      int
	username  string
	password  string
	from      string
	recipient string
	sendMail  sendMailFunc
	logger    *zap.Logger
}

// SMTPNotifierOption is a functional option for configuring SMTPNotifier
type SMTPNotifierOption func(*SMTPNotifier)

// WithLogger sets a custom logger for SMTPNotifier
func WithLogger(logger *zap.Logger) SMTPNotifierOption {
	return func(n *SMTPNotifier) {
		n.logger = logger
	}
}

// NewSMTPNotifier creates a notifier from alert configuration
func NewSMTPNotifier(cfg *infraconfig.AlertConfig, opts ...SMTPNotifierOption) (*SMTPNotifier, error) {
	if cfg == nil {
		return nil, errors.New("alert configuration is required")
	}
	if cfg.SMTPHost == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.Recipient == "" {
		return nil, errors.New("alert recipient is required")
	}

	from := cfg.From
	if from == "" {
		from = cfg.SMTPUser
	}

	n := &SMTPNotifier{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUser,
		password:  cfg.SMTPPassword,
		from:      from,
		recipient: cfg.Recipient,
		sendMail:  smtp.SendMail,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Send delivers one alert email. Delivery is synchronous; the caller decides
// whether a failure is fatal.
func (n *SMTPNotifier) Send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + n.recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	if err := n.sendMail(addr, auth, n.from, []string{n.recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	n.logger.Info("Alert email sent",
		zap.String("recipient", n.recipient),
		zap.String("subject", subject),
	)
	return nil
}
