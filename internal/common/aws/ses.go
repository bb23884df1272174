// internal/common/aws/ses.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the subset of the SES API the notifier uses.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESClient struct {
	client *ses.Client
}

func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESClient{client: ses.NewFromConfig(cfg)}, nil
}

func (s *SESClient) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return s.client.SendEmail(ctx, params, optFns...)
}

// PlainTextEmail builds a text-only SendEmailInput.
func PlainTextEmail(from string, to []string, subject, body string) *ses.SendEmailInput {
	return &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: to,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(from),
	}
}
