package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestProcess_Defaults(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.TokenTTL != time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Mongo.Database != "social_network" || !cfg.Mongo.Transactions {
		t.Fatalf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if cfg.RateLimit.Requests != 1000 || cfg.RateLimit.Window != 100*time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Repair.Workers != 4 || cfg.Repair.SweepInterval != 0 {
		t.Fatalf("unexpected repair defaults: %+v", cfg.Repair)
	}
	if cfg.IsProduction() {
		t.Fatalf("development must not be production")
	}
}

func TestProcess_Overrides(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":            "s3cret",
		"ENV":                   "production",
		"MONGO_TRANSACTIONS":    "false",
		"REDIS_ENABLED":         "false",
		"REPAIR_SWEEP_INTERVAL": "5m",
	}))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if !cfg.IsProduction() || cfg.Mongo.Transactions || cfg.Redis.Enabled {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Repair.SweepInterval != 5*time.Minute {
		t.Fatalf("expected 5m sweep interval, got %v", cfg.Repair.SweepInterval)
	}
}

func TestProcess_RequiresSecret(t *testing.T) {
	if _, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing")
	}
}
