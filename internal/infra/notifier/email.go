package notifier

import (
	"context"
	"fmt"
	"time"

	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/config"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/logger"
)

// EmailNotifier delivers account mail over SMTP.
type EmailNotifier struct {
	client *mail.Client
	from   string
	logger *zap.Logger
}

// NewEmailNotifier builds an SMTP-backed notifier from the mail settings.
func NewEmailNotifier(cfg config.SMTPSettings, log *zap.Logger) (*EmailNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(10 * time.Second),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}

	return &EmailNotifier{client: client, from: cfg.From, logger: log}, nil
}

// SendPasswordReset mails the recovery link to the account holder.
func (n *EmailNotifier) SendPasswordReset(ctx context.Context, payload port.PasswordResetMessage) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(payload.To); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}

	msg.Subject("Your password reset token (valid for 10 min)")
	msg.SetBodyString(mail.TypeTextPlain, resetBody(payload))

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	n.logger.Info("password reset email sent",
		zap.String("to", logger.MaskEmail(payload.To)),
		zap.Time("expires", payload.Expires),
	)
	return nil
}

func resetBody(payload port.PasswordResetMessage) string {
	name := payload.Name
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(
		"Hi %s,\n\nForgot your password? Submit a PATCH request with your new password to:\n\n%s\n\nIf you didn't forget your password, please ignore this email. The link expires at %s.\n",
		name,
		payload.ResetURL,
		payload.Expires.UTC().Format(time.RFC1123),
	)
}

var _ port.Notifier = (*EmailNotifier)(nil)

// LoggingNotifier records reset dispatches without delivering them. Useful
// for development environments without an SMTP relay.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier constructs a notifier backed by structured logging.
func NewLoggingNotifier(log *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: log}
}

// SendPasswordReset logs the reset dispatch.
func (n *LoggingNotifier) SendPasswordReset(_ context.Context, payload port.PasswordResetMessage) error {
	n.logger.Info("password reset dispatch (logging only)",
		zap.String("to", logger.MaskEmail(payload.To)),
		zap.String("reset_url", payload.ResetURL),
		zap.Time("expires", payload.Expires),
	)
	return nil
}

var _ port.Notifier = (*LoggingNotifier)(nil)
