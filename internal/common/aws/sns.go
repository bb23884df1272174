// internal/common/aws/sns.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client *sns.Client
}

func NewSNSClient(ctx context.Context, region string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSClient{client: sns.NewFromConfig(cfg)}, nil
}

func (s *SNSClient) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return s.client.Publish(ctx, params, optFns...)
}

// TopicMessage builds a PublishInput for a topic, tagging it with a
// string "category" attribute when one is given.
func TopicMessage(topicARN, subject, message, category string) *sns.PublishInput {
	input := &sns.PublishInput{
		TopicArn: aws.String(topicARN),
		Subject:  aws.String(truncateSubject(subject)),
		Message:  aws.String(message),
	}
	if category != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"category": {DataType: aws.String("String"), StringValue: aws.String(category)},
		}
	}
	return input
}

// SNS rejects subjects longer than 100 characters.
func truncateSubject(s string) string {
	r := []rune(s)
	if len(r) > 100 {
		return string(r[:100])
	}
	return s
}
