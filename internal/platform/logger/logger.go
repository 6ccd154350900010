// Package logger builds the process logger: zap does the encoding and writing,
// and log/slog is the API every other package calls.
package logger

import (
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. "prod"/"production" emit JSON at info level;
// anything else emits console output at debug level.
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// Slog returns a slog.Logger writing through z.
func Slog(z *zap.Logger) *slog.Logger {
	return slog.New(zapslog.NewHandler(z.Core()))
}

// Install builds the logger for mode and makes it the slog default.
// The returned function flushes buffered entries and should be deferred by main.
func Install(mode string) (func(), error) {
	z, err := New(mode)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(Slog(z))
	return func() { _ = z.Sync() }, nil
}
