// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Routing       RoutingConfig      `mapstructure:"routing"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Dedup         DedupConfig        `mapstructure:"dedup"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig configures the webhook HTTP server.
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	WebhookPath     string `mapstructure:"webhook_path"`
	MaxBodyBytes    int64  `mapstructure:"max_body_bytes"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// RoutingConfig maps assistants to the owners that receive their leads.
// Entries are a list rather than a map so assistant IDs keep their case.
type RoutingConfig struct {
	AdminAddress    string               `mapstructure:"admin_address"`
	FallbackAddress string               `mapstructure:"fallback_address"`
	Entries         []RoutingEntryConfig `mapstructure:"entries"`
}

type RoutingEntryConfig struct {
	AssistantID string `mapstructure:"assistant_id"`
	Address     string `mapstructure:"address"`
}

// NotificationConfig selects and configures the outbound email provider.
type NotificationConfig struct {
	Provider  string `mapstructure:"provider"` // resend, ses, smtp, log
	FromEmail string `mapstructure:"from_email"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds

	Resend struct {
		APIKey  string `mapstructure:"api_key"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"resend"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseTLS   bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`

	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`

	SNS struct {
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DedupConfig controls the duplicate-delivery guard. It is only active when
// a Redis address is configured.
type DedupConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	TTL       int    `mapstructure:"ttl"` // milliseconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
