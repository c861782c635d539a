package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvDevelopment is the APP_ENV value that switches to human-readable output.
const EnvDevelopment = "development"

// Config holds logger settings.
type Config struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
	// Encoding is json or console. Empty picks console for development and json otherwise.
	Encoding   string `env:"LOG_ENCODING"`
	OutputPath string `env:"LOG_OUTPUT"`
}

// New builds the application logger for appEnv.
// Development gets colored console output with callers; every other env gets
// production JSON with ISO8601 timestamps. An unknown level means info.
func New(cfg Config, appEnv string) (*zap.Logger, error) {
	development := strings.EqualFold(appEnv, EnvDevelopment)

	zapConfig := zap.NewProductionConfig()
	if development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig.DisableCaller = true
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapConfig.Sampling = nil
	}
	zapConfig.DisableStacktrace = true
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	switch enc := strings.ToLower(cfg.Encoding); enc {
	case "json", "console":
		zapConfig.Encoding = enc
	}
	if zapConfig.Encoding == "json" {
		// Color codes do not belong in JSON.
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	if cfg.OutputPath != "" {
		zapConfig.OutputPaths = []string{cfg.OutputPath}
	} else {
		zapConfig.OutputPaths = []string{"stdout"}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.With(zap.String("env", appEnv)), nil
}
