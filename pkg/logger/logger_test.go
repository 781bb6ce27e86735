package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("AIACT_LOG_LEVEL", "debug")
	assert.Equal(t, zapcore.DebugLevel, LevelFromEnv())
}

func TestTestObserved(t *testing.T) {
	lggr, logs := TestObserved(t, zapcore.InfoLevel)
	named := lggr.Named("providers").With("provider", "gemini")

	named.Debugw("hidden")
	named.Infow("key rotated", "label", "primary")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "key rotated", entry.Message)
	assert.Equal(t, "providers", entry.LoggerName)
	assert.Equal(t, "gemini", entry.ContextMap()["provider"])
	assert.Equal(t, "primary", entry.ContextMap()["label"])
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Infof("nothing %d", 1)
	assert.NoError(t, l.Sync())
}
