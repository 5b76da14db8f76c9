package configs

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Logger configures the zap logger. Level is debug, info, warn or error;
// Format is "console" (default) or "json".
type Logger struct {
	Level  string `env:"LEVEL" envDefault:"warn"`
	Format string `env:"FORMAT" envDefault:"console"`
}

// ZapLevel converts Level. Unknown values default to warn.
func (c Logger) ZapLevel() zapcore.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error", "err":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// Encoding returns the zap encoding name for Format.
func (c Logger) Encoding() string {
	if strings.EqualFold(c.Format, "json") {
		return "json"
	}
	return "console"
}
