package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		WithFields(map[string]interface{}{"worker": "harvest-contacts"}).
		WithError(errors.New("boom"))

	log.Warn("task failed", map[string]interface{}{"url": "https://padaria.com.br"})
	log.With(map[string]interface{}{"runId": "r1"}).Debug("progress", nil)

	entries := logs.All()
	assert.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "harvest-contacts", fields["worker"])
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, "https://padaria.com.br", fields["url"])
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	assert.Equal(t, "r1", entries[1].ContextMap()["runId"])
}

func TestNew_Formats(t *testing.T) {
	assert.NotNil(t, New("info", "json"))
	assert.NotNil(t, New("debug", "console", "stderr"))
	NewNoOpLogger().Info("discarded", nil)
}
