package endofcallreport

import (
	"fmt"

	"lead-dispatcher/internal/common/config"
	"lead-dispatcher/internal/common/validation"
)

type Config struct {
	FromEmail    string
	MaxBodyBytes int64
}

func DefaultConfig() *Config {
	return &Config{
		FromEmail:    "onboarding@resend.dev",
		MaxBodyBytes: 1 << 20,
	}
}

// FromAppConfig takes the webhook settings out of the application config.
func FromAppConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	if cfg.Notifications.FromEmail != "" {
		c.FromEmail = cfg.Notifications.FromEmail
	}
	if cfg.Server.MaxBodyBytes > 0 {
		c.MaxBodyBytes = cfg.Server.MaxBodyBytes
	}
	return c
}

func (c *Config) Validate() error {
	if !validation.ValidateEmail(c.FromEmail) {
		return fmt.Errorf("from email %q is not a valid address", c.FromEmail)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}
	return nil
}
