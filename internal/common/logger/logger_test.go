package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestZapWrapper_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"component": "test"})

	log.Warn("dispatch failed", map[string]interface{}{
		"callId":     "call-1",
		"recipients": 2,
		"failed":     true,
		"error":      errors.New("resend: 500"),
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "dispatch failed", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "test", ctx["component"])
	assert.Equal(t, "call-1", ctx["callId"])
	assert.EqualValues(t, 2, ctx["recipients"])
	assert.Equal(t, true, ctx["failed"])
	assert.Equal(t, "resend: 500", ctx["error"])
}

func TestZapWrapper_WithError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapAdapter(zap.New(core)).WithError(errors.New("boom"))

	log.Debug("hidden", nil)
	log.Error("visible", nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "boom", logs.All()[0].ContextMap()["error"])
}
