package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aawaaz/hostel-server/internal/cache"
	"github.com/aawaaz/hostel-server/internal/config"
	"github.com/aawaaz/hostel-server/internal/handlers"
	"github.com/aawaaz/hostel-server/internal/metrics"
	"github.com/aawaaz/hostel-server/internal/middleware"
	"github.com/aawaaz/hostel-server/internal/seed"
	"github.com/aawaaz/hostel-server/internal/server"
	"github.com/aawaaz/hostel-server/internal/services"
	"github.com/aawaaz/hostel-server/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func run(cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	sugar.Infow("Starting hostel server",
		"port", cfg.Port,
		"env", cfg.Environment,
		"version", Version,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	doc, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	hostel, err := server.NewHostel(doc, time.Now, m, sugar,
		services.WithTicketAttempts(cfg.TicketAttempts),
		services.WithSpecialtyEnforcement(cfg.EnforceSpecialty),
	)
	if err != nil {
		return fmt.Errorf("load hostel state: %w", err)
	}

	// Rate limiting is shared through Redis when configured
	var (
		limiter middleware.Limiter
		ready   handlers.Pinger
	)
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer rdb.Close()

		redisLimiter := middleware.NewRedisLimiter(rdb, cfg.RateLimitRPM)
		limiter, ready = redisLimiter, redisLimiter
	} else {
		memLimiter := middleware.NewMemoryLimiter(cfg.RateLimitRPM)
		go memLimiter.Run(ctx, time.Minute)
		limiter = memLimiter
	}

	handler := server.NewRouter(server.Deps{
		Version:        Version,
		AllowedOrigins: cfg.AllowedOrigins,
		Registry:       hostel.Registry,
		Announcements:  hostel.Announcements,
		Staff:          hostel.Staff,
		Activity:       hostel.Activity,
		Ledger:         hostel.Ledger,
		Issuer:         session.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Limiter:        limiter,
		ReadyChecker:   ready,
		Metrics:        m,
		Gatherer:       reg,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	sugar.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	sugar.Info("Server stopped")
	return nil
}
