package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"lead-dispatcher/internal/common/config"
)

// Logger is the structured logging interface shared by the webhook, the lead
// pipeline and the notification senders.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger
}

// ParseLevel maps a config level to zap, falling back to info for unknown
// values. "warning" is accepted as an alias for warn.
func ParseLevel(s string) zapcore.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// New builds a zap logger. format "json" selects the production encoder,
// anything else the human readable console encoder.
func New(levelStr, format string) *zap.Logger {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(levelStr))
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// FromConfig builds the process logger and stamps every entry with the
// service name, version and environment.
func FromConfig(logging config.LoggingConfig, app config.AppConfig) *zap.Logger {
	return New(logging.Level, logging.Format).With(
		zap.String("service", app.Name),
		zap.String("version", app.Version),
		zap.String("environment", app.Environment),
	)
}

type zapWrapper struct {
	l *zap.Logger
}

func (z *zapWrapper) Debug(msg string, fields map[string]interface{}) {
	z.l.Debug(msg, mapToZapFields(fields)...)
}

func (z *zapWrapper) Info(msg string, fields map[string]interface{}) {
	z.l.Info(msg, mapToZapFields(fields)...)
}

func (z *zapWrapper) Warn(msg string, fields map[string]interface{}) {
	z.l.Warn(msg, mapToZapFields(fields)...)
}

func (z *zapWrapper) Error(msg string, fields map[string]interface{}) {
	z.l.Error(msg, mapToZapFields(fields)...)
}

func (z *zapWrapper) WithFields(fields map[string]interface{}) Logger {
	return &zapWrapper{l: z.l.With(mapToZapFields(fields)...)}
}

func (z *zapWrapper) WithError(err error) Logger {
	return &zapWrapper{l: z.l.With(zap.Error(err))}
}

// mapToZapFields keeps error values as errors so zap renders their message
// instead of an empty struct.
func mapToZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case error:
			out = append(out, zap.NamedError(k, val))
		case string:
			out = append(out, zap.String(k, val))
		case int:
			out = append(out, zap.Int(k, val))
		case bool:
			out = append(out, zap.Bool(k, val))
		default:
			out = append(out, zap.Any(k, val))
		}
	}
	return out
}

// NewZapAdapter wraps an existing *zap.Logger.
func NewZapAdapter(l *zap.Logger) Logger {
	return &zapWrapper{l: l}
}

// NewTestLogger routes log output through testing.TB.
func NewTestLogger(t testing.TB) Logger {
	return &zapWrapper{l: zaptest.NewLogger(t)}
}

func NewNoOpLogger() Logger {
	return &zapWrapper{l: zap.NewNop()}
}
