package port

import (
	"context"
	"time"
)

// PasswordResetMessage captures data needed to deliver password reset credentials.
type PasswordResetMessage struct {
	To       string
	Name     string
	ResetURL string
	Expires  time.Time
}

// Notifier delivers account emails to users.
type Notifier interface {
	SendPasswordReset(ctx context.Context, msg PasswordResetMessage) error
}
