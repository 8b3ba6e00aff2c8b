package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"tls pair", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, ""},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, "--tls-cert and --tls-key"},
		{"port too low", func(c *Config) { c.port = 0 }, "invalid port"},
		{"port too high", func(c *Config) { c.port = 70000 }, "invalid port"},
		{"msgpack", func(c *Config) { c.codec = "MsgPack" }, ""},
		{"unknown codec", func(c *Config) { c.codec = "xml" }, "invalid --codec"},
		{"bad level", func(c *Config) { c.logLevel = "loud" }, "invalid --log-level"},
		{"bad format", func(c *Config) { c.logFormat = "xml" }, "invalid --log-format"},
		{"negative retention", func(c *Config) { c.userRetention = -time.Second }, "invalid --user-retention"},
		{"client url", func(c *Config) { c.clientURL = "https://play.example" }, ""},
		{"client url scheme", func(c *Config) { c.clientURL = "ftp://play.example" }, "invalid --client-url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewCmd_Defaults(t *testing.T) {
	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 3001, cfg.port)
	assert.Equal(t, "json", cfg.codec)
	assert.Equal(t, "console", cfg.logFormat)
	assert.Equal(t, 10*time.Minute, cfg.userRetention)
	assert.NoError(t, cfg.validate())
}

func TestNewCmd_Env(t *testing.T) {
	t.Setenv("TICTACTOE_CODEC", "msgpack")
	t.Setenv("TICTACTOE_USER_RETENTION", "30s")
	t.Setenv("TICTACTOE_KEEP_ORPHAN_ROOMS", "true")
	t.Setenv("PORT", "8080")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, "msgpack", cfg.codec)
	assert.Equal(t, 30*time.Second, cfg.userRetention)
	assert.True(t, cfg.keepOrphanRooms)
	assert.Equal(t, 8080, cfg.port)
}

func TestNewCmd_PrefixedPortWins(t *testing.T) {
	t.Setenv("TICTACTOE_PORT", "9000")
	t.Setenv("PORT", "8080")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 9000, cfg.port)
}

func TestNewCmd_Version(t *testing.T) {
	var out bytes.Buffer

	cmd := newCmd(&Config{})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "tictactoe v"+releaseVersion+"\n", out.String())
}

func TestNewCmd_RejectsInvalidFlags(t *testing.T) {
	cmd := newCmd(&Config{})
	cmd.SetArgs([]string{"--codec", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --codec")
}
