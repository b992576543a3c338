package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnvironmentVariable selects the minimum log level, e.g. "debug" to log every HTTP request.
const LogLevelEnvironmentVariable = "TREEVIEW_LOG_LEVEL"

const invalidLogLevelErrorFormat = "invalid %s value %q: %w"

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
func NewApplicationLogger() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if configuredLevel := os.Getenv(LogLevelEnvironmentVariable); configuredLevel != "" {
		parsedLevel, parseError := zapcore.ParseLevel(configuredLevel)
		if parseError != nil {
			return nil, fmt.Errorf(invalidLogLevelErrorFormat, LogLevelEnvironmentVariable, configuredLevel, parseError)
		}
		level = parsedLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}
