package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New construit le logger de l'application.
// level: "debug", "info", "warn", "error" (défaut: "info")
// format: "json" ou "console"
func New(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var config zap.Config
	if format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	base, err := config.Build()
	if err != nil {
		return nil, err
	}
	return base.With(zap.String("service", "stagifyai-api")), nil
}
