package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bfhl/bfhl/server/internal/answer"
	"github.com/bfhl/bfhl/server/internal/api"
	"github.com/bfhl/bfhl/server/internal/config"
	"github.com/bfhl/bfhl/server/internal/dispatch"
	"github.com/bfhl/bfhl/server/internal/metrics"
	"github.com/bfhl/bfhl/server/internal/ratelimit"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file; empty uses built-in defaults")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)

	slog.Info("bfhl-server starting",
		"config", *configPath,
		"http_port", cfg.Server.HTTPPort,
		"environment", cfg.Server.Environment,
		"rate_limit", cfg.Server.RateLimit.Enabled,
		"sequence_max", cfg.Limits.SequenceMax,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *configPath); err != nil {
		slog.Error("bfhl-server stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("bfhl-server stopped")
}

func run(ctx context.Context, cfg *config.Config, configPath string) error {
	// The AI operation needs a provider; the numeric operations do not. Start
	// without one and answer AI requests with 503.
	asker, err := answer.New(ctx, cfg.Answer)
	if err != nil {
		slog.Warn("answer provider unavailable, AI requests will fail", "err", err)
		asker = answer.Unavailable{Err: err}
	} else {
		slog.Info("answer provider ready", "provider", answer.NameOf(asker), "timeout", cfg.Answer.Timeout)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	var opts []dispatch.Option
	if m != nil {
		opts = append(opts, dispatch.WithAnswerObserver(m))
	}
	d := dispatch.New(dispatch.LimitsFromConfig(cfg), asker, opts...)

	var limiter *ratelimit.Limiter
	if rl := cfg.Server.RateLimit; rl.Enabled {
		limiter = ratelimit.New(rl.MaxRequests, rl.Window)
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           api.New(cfg, d, m, api.WithLimiter(limiter)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Answer.Timeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Idle rate-limit buckets are evicted in the background.
	g.Go(func() error {
		limiter.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("bfhl-server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if configPath != "" {
		g.Go(func() error {
			err := config.Watch(gctx, configPath, cfg, func(_ *config.Config, changed []string) {
				slog.Warn("config file changed; restart required to apply",
					"path", configPath, "keys", changed)
			})
			if err != nil {
				// Serving continues without the watcher.
				slog.Warn("config watch stopped", "err", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
