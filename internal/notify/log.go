package notify

import (
	"context"

	"lead-dispatcher/internal/common/logger"
	"lead-dispatcher/internal/models"
)

// LogSender writes messages to the log instead of sending them.
type LogSender struct {
	logger logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(_ context.Context, msg models.Message) error {
	s.logger.Info("notification (log sink)", map[string]interface{}{
		"from":     msg.From,
		"to":       msg.To,
		"subject":  msg.Subject,
		"category": string(msg.Category),
		"text":     msg.Text,
	})
	return nil
}
