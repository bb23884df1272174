package notify

import (
	"context"

	"lead-dispatcher/internal/common/aws"
	"lead-dispatcher/internal/models"
)

// SNSPublisher publishes each dossier to a topic for downstream
// subscribers. It is only used as a fan-out sender.
type SNSPublisher struct {
	client   aws.SNSService
	topicARN string
}

func NewSNSPublisher(client aws.SNSService, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

func (p *SNSPublisher) Name() string { return "sns" }

func (p *SNSPublisher) Send(ctx context.Context, msg models.Message) error {
	_, err := p.client.Publish(ctx, aws.TopicMessage(p.topicARN, msg.Subject, msg.Text, string(msg.Category)))
	return err
}
