package notify

import (
	"context"
	"strings"

	commonhttp "lead-dispatcher/internal/common/http"
	"lead-dispatcher/internal/models"
)

const DefaultResendBaseURL = "https://api.resend.com"

// ResendSender posts messages to the Resend email API.
type ResendSender struct {
	client  *commonhttp.Client
	baseURL string
	apiKey  string
}

func NewResendSender(client *commonhttp.Client, baseURL, apiKey string) *ResendSender {
	if baseURL == "" {
		baseURL = DefaultResendBaseURL
	}
	return &ResendSender{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (s *ResendSender) Name() string { return "resend" }

type resendResponse struct {
	ID string `json:"id"`
}

func (s *ResendSender) Send(ctx context.Context, msg models.Message) error {
	var out resendResponse
	return s.client.PostJSON(ctx, s.baseURL+"/emails", map[string]string{
		"Authorization": "Bearer " + s.apiKey,
	}, msg, &out)
}
