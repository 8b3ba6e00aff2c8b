package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/Seednode/tictactoe/wire"
)

type Config struct {
	allowedOrigins  []string
	bind            string
	clientURL       string
	codec           string
	keepOrphanRooms bool
	logFormat       string
	logLevel        string
	port            int
	prefix          string
	profile         bool
	tlsCert         string
	tlsKey          string
	userRetention   time.Duration
	verbose         bool
	version         bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if _, err := wire.Lookup(c.codec); err != nil {
		return fmt.Errorf("invalid --codec: %w", err)
	}
	if _, err := zapcore.ParseLevel(c.logLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	if c.logFormat != "console" && c.logFormat != "json" {
		return fmt.Errorf("invalid --log-format (must be console or json): %q", c.logFormat)
	}
	if c.userRetention < 0 {
		return fmt.Errorf("invalid --user-retention (must not be negative): %s", c.userRetention)
	}
	if c.clientURL != "" {
		u, err := url.Parse(c.clientURL)
		if err != nil {
			return fmt.Errorf("invalid --client-url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid --client-url (must be an http or https URL): %q", c.clientURL)
		}
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TICTACTOE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "tictactoe",
		Short:         "Pairs tic-tac-toe players by room code and relays their moves over websockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringSliceVar(&cfg.allowedOrigins, "allowed-origin", []string{}, "origin allowed to open a websocket, repeatable; all origins if unset (env: TICTACTOE_ALLOWED_ORIGIN)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: TICTACTOE_BIND)")
	fs.StringVar(&cfg.clientURL, "client-url", "", "game client URL used in room links and QR codes (env: TICTACTOE_CLIENT_URL)")
	fs.StringVar(&cfg.codec, "codec", "json", "websocket message encoding: json or msgpack (env: TICTACTOE_CODEC)")
	fs.BoolVar(&cfg.keepOrphanRooms, "keep-orphan-rooms", false, "keep rooms whose only player left before an opponent arrived (env: TICTACTOE_KEEP_ORPHAN_ROOMS)")
	fs.StringVar(&cfg.logFormat, "log-format", "console", "log output format: console or json (env: TICTACTOE_LOG_FORMAT)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "minimum log level: debug, info, warn or error (env: TICTACTOE_LOG_LEVEL)")
	fs.IntVarP(&cfg.port, "port", "p", 3001, "port to listen on (env: TICTACTOE_PORT or PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: TICTACTOE_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: TICTACTOE_PROFILE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: TICTACTOE_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: TICTACTOE_TLS_KEY)")
	fs.DurationVar(&cfg.userRetention, "user-retention", 10*time.Minute, "time disconnected players are remembered, 0 to forget immediately (env: TICTACTOE_USER_RETENTION)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log at debug level (env: TICTACTOE_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: TICTACTOE_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		if f.Name == "port" {
			_ = v.BindEnv(f.Name, "TICTACTOE_PORT", "PORT")
		} else {
			_ = v.BindEnv(f.Name)
		}
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("tictactoe v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
