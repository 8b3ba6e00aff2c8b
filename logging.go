package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(cfg *Config) (*zap.Logger, error) {
	name := cfg.logLevel
	if cfg.verbose {
		name = "debug"
	}

	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", name, err)
	}

	var zapCfg zap.Config
	switch cfg.logFormat {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.logFormat)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(logDate)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return logger, nil
}
