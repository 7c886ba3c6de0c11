// Package logging builds the zap loggers used across the suite.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/backoffice-qa/backoffice-e2e/internal/config"
)

// New returns a logger for the given level ("debug", "info", ...) and
// format ("console" or "json").
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var zc zap.Config
	switch strings.ToLower(format) {
	case "", "console":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	case "json":
		zc = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)

	return zc.Build()
}

// FromConfig builds a logger from the logging section of cfg.
func FromConfig(cfg *config.Config) (*zap.Logger, error) {
	return New(cfg.Logging.Level, cfg.Logging.Format)
}
