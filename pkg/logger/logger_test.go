package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MihaiIliescu/egeria/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, logger.ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, logger.ParseLevel(" WARNING "))
	assert.Equal(t, zapcore.ErrorLevel, logger.ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, logger.ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	log, err := logger.NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestForServiceAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logger.ForService(zap.New(core), "asset-manager", "cocoMDS1")
	log.Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "asset-manager", fields["service"])
	assert.Equal(t, "cocoMDS1", fields["server"])
}

func TestForServiceNilBase(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.ForService(nil, "svc", "srv").Info("ignored")
	})
}

func TestAdjustableLoggerLevelChanges(t *testing.T) {
	log, level := logger.NewAdjustableLogger("warn")
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))

	level.SetLevel(logger.ParseLevel("debug"))
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
