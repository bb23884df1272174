package notify

import (
	"context"

	"lead-dispatcher/internal/common/aws"
	"lead-dispatcher/internal/models"
)

// SESSender sends plaintext email through Amazon SES.
type SESSender struct {
	client aws.SESService
}

func NewSESSender(client aws.SESService) *SESSender {
	return &SESSender{client: client}
}

func (s *SESSender) Name() string { return "ses" }

func (s *SESSender) Send(ctx context.Context, msg models.Message) error {
	_, err := s.client.SendEmail(ctx, aws.PlainTextEmail(msg.From, msg.To, msg.Subject, msg.Text))
	return err
}
