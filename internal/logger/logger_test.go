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
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"", zapcore.InfoLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFormats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewStructured("debug", format)
		require.NoError(t, err)
		require.NotNil(t, l)
	}

	_, err := NewStructured("loud", "json")
	assert.Error(t, err)
}

func TestWrapperFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapAdapter(zap.New(core))

	l.WithFields(map[string]interface{}{"run": "abc"}).
		WithError(errors.New("boom")).
		Warn("layer skipped", map[string]interface{}{"basename": "Vereda"})
	l.With(map[string]interface{}{"theme": "APP_Total"}).Debug("reprojected", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "layer skipped", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "abc", first["run"])
	assert.Equal(t, "boom", first["error"])
	assert.Equal(t, "Vereda", first["basename"])

	assert.Equal(t, "APP_Total", entries[1].ContextMap()["theme"])
}

func TestNoOpAndTestLoggers(t *testing.T) {
	NewNoOpLogger().Error("ignored", map[string]interface{}{"k": 1})
	NewTestLogger(t).Info("visible in -v output", nil)
}
