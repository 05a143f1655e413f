package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = NewLogger("warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger("loud")
	assert.Error(t, err)
}

func TestSetLogger(t *testing.T) {
	original := logger
	defer SetLogger(original)

	SetLogger(nil)
	assert.NotNil(t, logger)

	nop := zap.NewNop()
	SetLogger(nop)
	assert.Same(t, nop, logger)
}
