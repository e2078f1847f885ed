package services

import (
	"context"

	"github.com/AnshRaj112/crypto-dca-backend/internal/logger"
)

// Mailer delivers transactional e-mail.
type Mailer interface {
	Send(ctx context.Context, to, subject string, lines []string) error
}

// LogMailer writes messages to the application log instead of sending them.
// The body is only logged at debug level since it may carry reset links.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject string, lines []string) error {
	logger.Log.Infow("outgoing email", "to", to, "subject", subject)
	logger.Log.Debugw("outgoing email body", "to", to, "lines", lines)
	return nil
}
