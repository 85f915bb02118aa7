package logging_test

import (
	"testing"

	"github.com/KirkDiggler/combat-rules-engine/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, logging.ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, logging.ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, logging.ParseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, logging.ParseLevel("verbose"))
}

func TestConfig_Format(t *testing.T) {
	jsonCfg := logging.Config("debug", "json")
	assert.Equal(t, "json", jsonCfg.Encoding)
	assert.True(t, jsonCfg.Level.Enabled(zapcore.DebugLevel))

	consoleCfg := logging.Config("warn", "console")
	assert.Equal(t, "console", consoleCfg.Encoding)
	assert.False(t, consoleCfg.Level.Enabled(zapcore.InfoLevel))
}

func TestNew(t *testing.T) {
	logger, err := logging.New("info", "json")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
