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

	"github.com/guardpost/access-api/internal/api"
	"github.com/guardpost/access-api/internal/api/middleware"
	"github.com/guardpost/access-api/internal/core/password"
	"github.com/guardpost/access-api/internal/core/service"
	"github.com/guardpost/access-api/internal/infrastructure/config"
	mongostore "github.com/guardpost/access-api/internal/infrastructure/db/mongo"
	redisstore "github.com/guardpost/access-api/internal/infrastructure/db/redis"
	"github.com/guardpost/access-api/internal/infrastructure/queue"
	"github.com/guardpost/access-api/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongodb")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	defer func() {
		_ = rdb.Close()
	}()

	if cfg.SeedDemoData {
		if err := mongostore.Seed(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("provisioning seed graph")
		}
		log.Info().Msg("seed graph provisioned")
	}

	verifier := password.NewDelegating(cfg.BcryptCost, cfg.AllowNoopPasswords)
	if cfg.AllowNoopPasswords {
		log.Warn().Msg("plaintext {noop} password scheme ENABLED — never use this outside demo environments")
	}

	userRepo := mongostore.NewUserRepository(db)
	rehashService := service.NewRehashService(userRepo, verifier, log)
	dispatcher := queue.NewRehashDispatcher(0, rehashService, log)
	dispatcher.Start(ctx)

	var throttle middleware.LoginThrottle
	if cfg.Lockout.Threshold > 0 {
		throttle = redisstore.NewLockoutTracker(rdb, cfg.Lockout.Threshold, cfg.Lockout.Window)
	}

	e := api.NewRouter(db, rdb, api.Deps{
		Verifier: verifier,
		Throttle: throttle,
		Rehash:   dispatcher,
		Logger:   log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("access api started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
