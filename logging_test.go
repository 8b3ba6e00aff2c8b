package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		level     string
		verbose   bool
		wantDebug bool
		wantInfo  bool
	}{
		{"console info", "console", "info", false, false, true},
		{"json warn", "json", "warn", false, false, false},
		{"verbose overrides level", "json", "error", true, true, true},
		{"console debug", "console", "debug", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.logFormat = tt.format
			cfg.logLevel = tt.level
			cfg.verbose = tt.verbose

			logger, err := newLogger(cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDebug, logger.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.wantInfo, logger.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestNewLogger_Invalid(t *testing.T) {
	cfg := testConfig()
	cfg.logFormat = "xml"

	_, err := newLogger(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.logLevel = "loud"

	_, err = newLogger(cfg)
	assert.Error(t, err)
}
