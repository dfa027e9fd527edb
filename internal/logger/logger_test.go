package logger

import (
	"errors"
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
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"nonsense", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "parseLevel(%q)", tt.in)
	}
}

func TestNewAndWith(t *testing.T) {
	l, err := New("debug")
	require.NoError(t, err)

	child := l.With(String("job", "recap"))
	require.NotNil(t, child)
	child.Debug("hello", Int("n", 1), Error(errors.New("boom")))
}

func TestNopDoesNotPanic(t *testing.T) {
	l := NewNop()
	l.Info("ignored", Strings("tickers", []string{"AAPL"}))
	assert.NoError(t, l.Sync())
}
