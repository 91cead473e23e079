package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shareloop/shareloop-backend/internal/app"
	"github.com/shareloop/shareloop-backend/internal/config"
	"github.com/shareloop/shareloop-backend/internal/db"
	"github.com/shareloop/shareloop-backend/internal/pkg/logging"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	logging.Setup(cfg.IsProduction)

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to db")
	}
	defer pool.Close()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			logrus.WithError(err).Fatal("failed to connect to redis")
		}
		defer redisClient.Close()
	}

	container, err := app.NewContainer(app.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		DBPool:       pool,
		RedisClient:  redisClient,
		ItemCacheTTL: cfg.ItemCacheTTL,
		KafkaBrokers: cfg.KafkaBrokers,
		KafkaTopic:   cfg.KafkaTopic,
		PhotoDir:     cfg.PhotoDir,
		JWTSecret:    cfg.JWTSecret,
		JWTTTL:       cfg.JWTAccessTokenTTL,
		BcryptCost:   cfg.BcryptCost,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize application")
	}
	defer container.Close()

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	go func() {
		logrus.WithField("addr", cfg.HTTPAddr).Info("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("server forced to shutdown")
	}

	logrus.Info("server exited gracefully")
}
