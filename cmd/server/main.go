package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/retailhub/user-service/internal/api"
	"github.com/retailhub/user-service/internal/core/auth"
	"github.com/retailhub/user-service/internal/core/ports"
	"github.com/retailhub/user-service/internal/core/service"
	"github.com/retailhub/user-service/internal/infrastructure/config"
	mongodb "github.com/retailhub/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/retailhub/user-service/internal/infrastructure/db/redis"
	"github.com/retailhub/user-service/internal/infrastructure/queue"
	"github.com/retailhub/user-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		Timeout:     cfg.Mongo.Timeout,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:    cfg.Redis.Addr,
		DB:      cfg.Redis.DB,
		Timeout: cfg.Redis.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	publisher := queue.NewPublisher(rdb, cfg.Event.Stream, cfg.Event.Workers, log)
	publisher.Start()

	limiter := redisdb.NewLoginLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow)

	// --- Core ---
	clock := ports.UTCClock()
	hasher := auth.NewHasher(cfg.BcryptCost)
	codec := auth.NewCodec(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, clock)
	guard := auth.NewGuard(codec)
	users := service.NewUserService(userRepo, hasher, codec, publisher, limiter, clock, log)

	// --- Transport ---
	e := api.NewRouter(api.Deps{
		Users: users,
		Guard: guard,
		Mongo: db,
		Redis: rdb,
		Log:   log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}

	// Requests have drained; flush the events they produced before exiting.
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelDrain()
	publisher.Stop(drainCtx)

	log.Info().Msg("server stopped")
}
