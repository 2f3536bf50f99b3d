// Command api serves the social network REST API.
//
// @title                       Social Network API
// @version                     1.0
// @description                 Accounts, profiles, a follow graph and post feeds.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/socialnet/social-api/internal/api"
	"github.com/socialnet/social-api/internal/api/middleware"
	"github.com/socialnet/social-api/internal/core/service"
	"github.com/socialnet/social-api/internal/infrastructure/config"
	mongodb "github.com/socialnet/social-api/internal/infrastructure/db/mongo"
	redisdb "github.com/socialnet/social-api/internal/infrastructure/db/redis"
	"github.com/socialnet/social-api/internal/infrastructure/http/handlers"
	"github.com/socialnet/social-api/internal/infrastructure/queue"
	"github.com/socialnet/social-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
		File:   cfg.LogFile,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("api stopped with error")
	}
	log.Info().Msg("api stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	pingers := map[string]handlers.Pinger{"mongodb": handlers.MongoPinger{DB: db}}

	var limiter middleware.Limiter = middleware.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	if cfg.Redis.Enabled {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

		limiter = redisdb.NewRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		pingers["redis"] = handlers.RedisPinger{Client: rdb}
	}

	users := mongodb.NewUserRepository(db)
	profiles := mongodb.NewProfileRepository(client, db, cfg.Mongo.Transactions)
	posts := mongodb.NewPostRepository(db)

	repairer := service.NewGraphRepairer(profiles, log)
	dispatcher := queue.NewDispatcher(cfg.Repair.Workers, repairer, log)
	sweeper := queue.NewSweeper(repairer, cfg.Repair.SweepInterval, log)

	e := api.NewRouter(api.Deps{
		Auth:      service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL),
		Profiles:  service.NewProfileService(users, profiles, posts, log),
		Follows:   service.NewFollowService(profiles, dispatcher, log),
		Posts:     service.NewPostService(posts, profiles, log),
		Limiter:   limiter,
		JWTSecret: cfg.JWTSecret,
		Ready:     handlers.NewHealthDependenciesHandler(pingers),
		Log:       log,
		Redact:    cfg.IsProduction(),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dispatcher.Start(gctx)
		dispatcher.Wait()
		return nil
	})
	g.Go(func() error { return sweeper.Run(gctx) })
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
