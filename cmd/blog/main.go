package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/blog/internal/blog"
	"github.com/dmitrymomot/blog/internal/config"
	"github.com/dmitrymomot/blog/internal/health"
	"github.com/dmitrymomot/blog/internal/logger"
	"github.com/dmitrymomot/blog/internal/metrics"
	"github.com/dmitrymomot/blog/internal/middleware"
	"github.com/dmitrymomot/blog/internal/ratelimit"
	"github.com/dmitrymomot/blog/internal/server"
	"github.com/dmitrymomot/blog/internal/session"
	"github.com/dmitrymomot/blog/internal/store"
	"github.com/dmitrymomot/blog/internal/telemetry"
	"github.com/dmitrymomot/blog/internal/web"
)

const rateLimitCleanupInterval = time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg) // panic on error

	logOpts := []logger.Option{
		logger.WithContextExtractors(
			middleware.RequestIDExtractor,
			middleware.UserIDExtractor,
			telemetry.TraceIDExtractor,
		),
	}
	if cfg.development() {
		logOpts = append(logOpts, logger.WithDevelopment(cfg.AppName))
	} else {
		logOpts = append(logOpts, logger.WithProduction(cfg.AppName))
	}
	log := logger.New(logOpts...)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Application stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("Failed to flush traces", logger.Component("telemetry"), logger.Error(err))
		}
	}()

	st, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	// Run migrations automatically on app start
	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	sessions, err := session.New(cfg.Session)
	if err != nil {
		return fmt.Errorf("create session codec: %w", err)
	}

	limitStore, err := ratelimit.NewStore(ctx, cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("connect rate limit store: %w", err)
	}
	limiter, err := ratelimit.New(limitStore, cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("create rate limiter: %w", err)
	}

	checks := []health.Check{st.Healthcheck}
	if rs, ok := limitStore.(*ratelimit.RedisStore); ok {
		defer rs.Close()
		checks = append(checks, rs.Healthcheck)
	}

	var m *metrics.Metrics
	blogOpts := []blog.Option{blog.WithLogger(log)}
	if cfg.MetricsEnabled {
		m = metrics.New()
		blogOpts = append(blogOpts, blog.WithEvents(m))
	}

	app, err := web.New(web.Options{
		Service:           blog.New(st, blogOpts...),
		Cookies:           sessionCookies(cfg.Cookie, sessions.TTL()),
		Sessions:          sessions,
		Limiter:           limiter,
		Metrics:           m,
		Logger:            log,
		Checks:            checks,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		Development:       cfg.development(),
	})
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	srv, err := server.New(cfg.Server, server.WithLogger(log))
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.Run(ctx, telemetry.Handler(app, cfg.AppName))
	})
	if ms, ok := limitStore.(*ratelimit.MemoryStore); ok {
		eg.Go(func() error {
			return ms.Run(ctx, rateLimitCleanupInterval)
		})
	}

	return eg.Wait()
}
