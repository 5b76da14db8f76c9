// Package logger builds the process zap logger from configuration.
package logger

import (
	"go.uber.org/zap"

	"github.com/and161185/syncads/internal/config/configs"
)

// New builds a logger writing to stderr so command output on stdout stays
// machine-readable.
func New(c configs.Logger) (*zap.Logger, error) {
	var zc zap.Config
	if c.Encoding() == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(c.ZapLevel())
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
