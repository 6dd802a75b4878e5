package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Store.Driver != DriverSQLite || cfg.Store.DSN != "tasktracker.db" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Tasks.DailyHoursLimit != 8 || cfg.Tasks.ActivityWorkers != 4 {
		t.Errorf("unexpected task defaults: %+v", cfg.Tasks)
	}
	if cfg.Redis.Addr != "" || cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Errorf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if cfg.Roster.ProtectLastManager {
		t.Error("last-manager protection must be off by default")
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development env by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER":                "mongo",
		"TASK_DAILY_HOURS_LIMIT":      "0",
		"ROSTER_PROTECT_LAST_MANAGER": "true",
		"SHUTDOWN_TIMEOUT":            "3s",
		"JWT_SECRET":                  "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Store.Driver != DriverMongo || cfg.Tasks.DailyHoursLimit != 0 || !cfg.Roster.ProtectLastManager {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("unexpected shutdown timeout: %s", cfg.ShutdownTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("missing JWT_SECRET must fail validation")
	}

	cfg.JWTSecret = "x"
	cfg.Store.Driver = "cassandra"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown driver must fail validation")
	}
}
