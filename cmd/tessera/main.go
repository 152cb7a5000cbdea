package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tessera/internal/config"
	"tessera/internal/domain"
	"tessera/internal/infra/db"
	httpinfra "tessera/internal/infra/http"
	"tessera/internal/infra/ratelimit"
	"tessera/internal/infra/visibility"
	"tessera/internal/usecase"
)

func main() {
	cfg := config.FromEnv()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	if err := db.AutoMigrate(gdb); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	var limiter domain.RateLimiter
	if cfg.RedisAddr != "" {
		limiter, err = ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, time.Now)
		if err != nil {
			log.WithError(err).Fatal("failed to init rate limiter")
		}
	} else {
		limiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{})
	}

	var engine domain.VisibilityEngine
	if cfg.PolicyBundlePath != "" {
		engine, err = visibility.NewEngineFromBundlePath(ctx, cfg.PolicyBundlePath, "visibility_v0")
		if err != nil {
			log.WithError(err).Fatal("failed to load visibility bundle")
		}
	} else {
		engine, err = visibility.NewStatic(domain.VisibilityPolicy(cfg.VisibilityPolicy))
		if err != nil {
			log.WithError(err).Fatal("invalid visibility policy")
		}
	}

	srv := httpinfra.NewServer(httpinfra.ServerConfig{
		Log:     log,
		Reviews: db.NewReviewRepository(gdb),
		Enricher: &usecase.Enricher{
			Directory: db.NewDirectoryRepository(gdb),
			Log:       log,
		},
		Policy:             engine,
		RateLimiter:        limiter,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Router(),
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server exited")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
