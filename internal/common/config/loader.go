// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"lead-dispatcher/internal/common/validation"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top
// and applies environment overrides. A missing config file is not an error.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // env overlay is optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Every key needs a default for AutomaticEnv to reach it during Unmarshal.
	v.SetDefault("app.name", "lead-dispatcher")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.webhook_path", "/webhook")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 30000)
	v.SetDefault("server.shutdown_timeout", 30000)
	v.SetDefault("routing.admin_address", "")
	v.SetDefault("routing.fallback_address", "")
	v.SetDefault("notifications.provider", "resend")
	v.SetDefault("notifications.from_email", "onboarding@resend.dev")
	v.SetDefault("notifications.timeout", 10000)
	v.SetDefault("notifications.resend.api_key", "")
	v.SetDefault("notifications.resend.base_url", "https://api.resend.com")
	v.SetDefault("notifications.smtp.host", "")
	v.SetDefault("notifications.smtp.port", 587)
	v.SetDefault("notifications.smtp.username", "")
	v.SetDefault("notifications.smtp.password", "")
	v.SetDefault("notifications.smtp.use_tls", true)
	v.SetDefault("notifications.aws.region", "us-east-1")
	v.SetDefault("notifications.sns.topic_arn", "")
	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("dedup.enabled", true)
	v.SetDefault("dedup.ttl", int((24 * time.Hour).Milliseconds()))
	v.SetDefault("dedup.key_prefix", "call-report:")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			// unset variables expand to "" so overrideEmptyConfig can fill them
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from their conventional variable names.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Notifications.Resend.APIKey == "" {
		if val := os.Getenv("RESEND_API_KEY"); val != "" {
			cfg.Notifications.Resend.APIKey = val
		}
	}
	if cfg.Notifications.SMTP.Password == "" {
		if val := os.Getenv("SMTP_PASSWORD"); val != "" {
			cfg.Notifications.SMTP.Password = val
		}
	}
	if cfg.Routing.AdminAddress == "" {
		if val := os.Getenv("ADMIN_EMAIL"); val != "" {
			cfg.Routing.AdminAddress = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
}

// applyDefaults covers zero values that slipped past viper defaults, e.g.
// an explicit 0 in a yaml overlay.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.WebhookPath == "" {
		cfg.Server.WebhookPath = "/webhook"
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	if cfg.Notifications.Provider == "" {
		cfg.Notifications.Provider = "resend"
	}
	cfg.Notifications.Provider = strings.ToLower(cfg.Notifications.Provider)
	if cfg.Notifications.Timeout == 0 {
		cfg.Notifications.Timeout = 10000
	}

	if cfg.Dedup.TTL == 0 {
		cfg.Dedup.TTL = int((24 * time.Hour).Milliseconds())
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	for i := range cfg.Routing.Entries {
		cfg.Routing.Entries[i].AssistantID = strings.TrimSpace(cfg.Routing.Entries[i].AssistantID)
		cfg.Routing.Entries[i].Address = strings.TrimSpace(cfg.Routing.Entries[i].Address)
	}
}

// validateConfig validates critical configuration fields. Provider
// credentials are checked when the dispatcher is built.
func validateConfig(cfg *Config) error {
	if cfg.Routing.AdminAddress == "" {
		return fmt.Errorf("routing.admin_address is required")
	}
	if !validation.ValidateEmail(cfg.Routing.AdminAddress) {
		return fmt.Errorf("routing.admin_address %q is not a valid address", cfg.Routing.AdminAddress)
	}
	if cfg.Routing.FallbackAddress != "" && !validation.ValidateEmail(cfg.Routing.FallbackAddress) {
		return fmt.Errorf("routing.fallback_address %q is not a valid address", cfg.Routing.FallbackAddress)
	}

	seen := make(map[string]bool, len(cfg.Routing.Entries))
	for i, entry := range cfg.Routing.Entries {
		if entry.AssistantID == "" {
			return fmt.Errorf("routing.entries[%d].assistant_id is required", i)
		}
		if !validation.ValidateEmail(entry.Address) {
			return fmt.Errorf("routing.entries[%d].address %q is not a valid address", i, entry.Address)
		}
		if seen[entry.AssistantID] {
			return fmt.Errorf("routing.entries[%d]: duplicate assistant_id %q", i, entry.AssistantID)
		}
		seen[entry.AssistantID] = true
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	switch cfg.Notifications.Provider {
	case "resend", "ses", "smtp", "log":
	default:
		return fmt.Errorf("notifications.provider %q is not supported", cfg.Notifications.Provider)
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
