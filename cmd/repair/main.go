// Command repair runs a single follow-graph reconciliation sweep and exits.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"

	"github.com/socialnet/social-api/internal/core/service"
	"github.com/socialnet/social-api/internal/infrastructure/config"
	mongodb "github.com/socialnet/social-api/internal/infrastructure/db/mongo"
	"github.com/socialnet/social-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "social-repair",
		File:    cfg.LogFile,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connect failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	profiles := mongodb.NewProfileRepository(client, db, cfg.Mongo.Transactions)
	report, err := service.NewGraphRepairer(profiles, log).Sweep(ctx)
	if err != nil {
		log.Error().Err(err).Msg("graph sweep aborted")
		stop()
		_ = client.Disconnect(context.Background())
		os.Exit(1)
	}

	log.Info().
		Int("profiles_scanned", report.ProfilesScanned).
		Int("edges_checked", report.EdgesChecked).
		Int("edges_repaired", report.EdgesRepaired).
		Msg("repair complete")
}
