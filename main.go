package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/yourorg/branch-search/http"
	"github.com/yourorg/branch-search/internal/config"
	"github.com/yourorg/branch-search/internal/logger"
	"github.com/yourorg/branch-search/internal/redisx"
	"github.com/yourorg/branch-search/source"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache source.Store
	if cfg.CacheEnabled() {
		rc := redisx.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rc.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn("redis unavailable, serving uncached", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			cache = rc
		}
	}

	src, closeSrc, err := source.New(cfg, cache, log)
	if err != nil {
		return err
	}
	defer closeSrc()

	sessions := httpapi.NewSessions(src, cfg.SessionIdleTTL, log)
	go sessions.Run(ctx)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: BuildRouter(RouterDeps{
			Source:             src,
			Sessions:           sessions,
			Log:                log,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
			Title:              cfg.WidgetTitle,
			SecureCookie:       cfg.SecureCookie,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("branch-search listening", zap.Int("port", cfg.Port), zap.String("backend", src.Name()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
