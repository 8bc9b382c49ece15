package messaging

import (
	"context"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

var _ model.Messenger = (*Log)(nil)

// Log writes outbound messages to the application log instead of delivering them.
// It is meant for local development, where the magic link is copied from the log.
//
// WARNING: message bodies are logged in plaintext, so every magic link and PIN
// becomes a usable credential for anyone with log access. Never run it in production.
type Log struct {
	logger *logger.Logger
}

// NewLog creates a Log messenger and warns once that credentials will be logged.
func NewLog(logger *logger.Logger) *Log {
	logger.Warn("Messaging: log driver writes magic links and PINs in plaintext, do not use in production")
	return &Log{logger: logger}
}

func (l *Log) SendEmail(_ context.Context, msg model.EmailMessage) error {
	l.logger.Info("Messaging: email",
		"to", logger.MaskEmail(msg.To),
		"subject", msg.Subject,
		"text", msg.Text)
	return nil
}

func (l *Log) SendSMS(_ context.Context, msg model.SMSMessage) error {
	l.logger.Info("Messaging: sms",
		"to", logger.MaskPhone(msg.To),
		"body", msg.Body)
	return nil
}
