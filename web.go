package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/Seednode/tictactoe/lobby"
	"github.com/Seednode/tictactoe/wire"
)

const (
	logDate string        = `2006-01-02T15:04:05.000-07:00`
	timeout time.Duration = 10 * time.Second
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")

	if cfg.scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

func serveVersion(cfg *Config, logger *zap.Logger, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("tictactoe v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err

			return
		}

		logger.Debug("served version",
			zap.String("size", humanReadableSize(int64(written))),
			zap.String("remote", realIP(r)),
			zap.Duration("elapsed", time.Since(startTime).Round(time.Microsecond)),
		)
	}
}

func newRouter(ctx context.Context, cfg *Config, coord *lobby.Coordinator, codec wire.Codec, logger *zap.Logger, errs chan<- error) *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		logger.Error("handler panic", zap.String("path", r.URL.Path), zap.Any("panic", i))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)

		io.WriteString(w, newPage("Server Error", "An error has occurred. Please try again."))
	}

	mux.GET(cfg.prefix+"/", serveHomePage(cfg, errs))

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg, errs))

	mux.GET(cfg.prefix+"/robots.txt", serveRobots(cfg, errs))

	mux.GET(cfg.prefix+"/stats", serveStats(cfg, coord, logger, errs))

	mux.GET(cfg.prefix+"/version", serveVersion(cfg, logger, errs))

	mux.GET(cfg.prefix+"/ws", serveWS(ctx, cfg, coord, codec, logger))

	registerRooms(cfg, mux, coord, logger, errs)

	if cfg.profile {
		registerProfileHandlers(cfg, mux, logger)
	}

	return mux
}

func ServePage(ctx context.Context, cfg *Config, args []string) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	codec, err := wire.Lookup(cfg.codec)
	if err != nil {
		return err
	}

	logger.Info("starting tictactoe",
		zap.String("version", releaseVersion),
		zap.String("codec", codec.Name()),
	)

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	coord := lobby.New(lobby.Options{
		Logger:          logger.Named("lobby"),
		UserRetention:   cfg.userRetention,
		KeepOrphanRooms: cfg.keepOrphanRooms,
	})

	lobbyDone := make(chan struct{})
	go func() {
		defer close(lobbyDone)
		_ = coord.Run(ctx)
	}()

	errs := make(chan error, 64)
	go drainErrors(logger, errs)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           newRouter(ctx, cfg, coord, codec, logger, errs),
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	listenErr := make(chan error, 1)

	go func() {
		var err error

		logger.Info("listening", zap.String("url", cfg.scheme()+"://"+srv.Addr+cfg.prefix+"/"))

		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-listenErr:
		logger.Error("server failed", zap.Error(err))

		return err
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	<-lobbyDone

	return nil
}
