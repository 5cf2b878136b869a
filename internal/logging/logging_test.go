package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/harperbay/rtmlink/config"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := New(config.LogConfig{Level: tt.level})
			require.NotNil(t, logger)
			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	logger := New(config.LogConfig{Level: "info", Format: "console"})
	require.NotNil(t, logger)
	logger.Info("console output works")
}

func TestNew_DefaultsToStdout(t *testing.T) {
	logger := New(config.LogConfig{})
	require.NotNil(t, logger)
	logger.Info("default output works")
}
