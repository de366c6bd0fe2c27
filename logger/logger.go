// Package logger builds the zap logger of the server and the admin commands.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger with the given level ("debug", "info", "warn" or "error", default "info")
// and format ("json" or "console", default "json"). Output goes to stderr, because systemd-journald and docker collect it from there.
func New(level, format string) (*zap.Logger, error) {

	var zapLevel = zapcore.InfoLevel
	if level != "" {
		var err error
		if zapLevel, err = zapcore.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
	case "", "json":
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}
