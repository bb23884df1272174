package notify

import (
	"context"

	"lead-dispatcher/internal/common/aws"
	"lead-dispatcher/internal/common/config"
	"lead-dispatcher/internal/common/errors"
	commonhttp "lead-dispatcher/internal/common/http"
	"lead-dispatcher/internal/common/logger"
)

// NewFromConfig builds the dispatcher for the configured provider plus
// the optional SNS fan-out. Credentials are checked here rather than at
// config load so the log provider works without any.
func NewFromConfig(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Dispatcher, error) {
	timeout := config.GetDuration(cfg.Timeout)

	primary, err := newSender(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var fanout []Sender
	if cfg.SNS.TopicARN != "" {
		client, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, errors.NewProviderNotConfiguredError("sns", err.Error())
		}
		fanout = append(fanout, NewSNSPublisher(client, cfg.SNS.TopicARN))
	}

	return NewDispatcher(primary, timeout, log, fanout...), nil
}

func newSender(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (Sender, error) {
	switch cfg.Provider {
	case "", "resend":
		if cfg.Resend.APIKey == "" {
			return nil, errors.NewProviderNotConfiguredError("resend", "RESEND_API_KEY is not set")
		}
		client := commonhttp.NewClient(config.GetDuration(cfg.Timeout))
		return NewResendSender(client, cfg.Resend.BaseURL, cfg.Resend.APIKey), nil

	case "ses":
		client, err := aws.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, errors.NewProviderNotConfiguredError("ses", err.Error())
		}
		return NewSESSender(client), nil

	case "smtp":
		if cfg.SMTP.Host == "" {
			return nil, errors.NewProviderNotConfiguredError("smtp", "notifications.smtp.host is not set")
		}
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			UseTLS:   cfg.SMTP.UseTLS,
		}), nil

	case "log":
		return NewLogSender(log), nil
	}

	return nil, errors.NewProviderNotConfiguredError(cfg.Provider, "unsupported provider")
}
