package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestZapConfigDefaults(t *testing.T) {
	zc, err := zapConfig(Config{})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, zc.Level.Level())
	assert.Equal(t, FormatConsole, zc.Encoding)
	assert.Equal(t, []string{"stderr"}, zc.OutputPaths)
}

func TestZapConfigLevels(t *testing.T) {
	for in, want := range map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	} {
		zc, err := zapConfig(Config{Level: in, Format: FormatJSON})
		require.NoError(t, err, in)
		assert.Equal(t, want, zc.Level.Level(), in)
		assert.Equal(t, FormatJSON, zc.Encoding)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
	_, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "debug", Format: FormatJSON})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}
