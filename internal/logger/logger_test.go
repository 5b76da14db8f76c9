package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/and161185/syncads/internal/config/configs"
)

func TestNew_LevelApplied(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := New(configs.Logger{Level: "error", Format: format})
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.WarnLevel))
		assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
	}
}
