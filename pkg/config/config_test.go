package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_NAME", "fintrack_test")
	t.Setenv("REDIS_QUOTE_TTL", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.DBName != "fintrack_test" {
		t.Errorf("Database.DBName = %q, want %q", cfg.Database.DBName, "fintrack_test")
	}
	if cfg.Redis.QuoteTTL != 90*time.Second {
		t.Errorf("Redis.QuoteTTL = %v, want 90s", cfg.Redis.QuoteTTL)
	}
	if cfg.Market.PricePath != "$.close" {
		t.Errorf("Market.PricePath = %q, want %q", cfg.Market.PricePath, "$.close")
	}
	if !strings.Contains(cfg.Database.DSN(), "dbname=fintrack_test") {
		t.Errorf("DSN() = %q, missing dbname", cfg.Database.DSN())
	}
}

func TestLoadRejectsBadBatchSize(t *testing.T) {
	t.Setenv("RECURRING_BATCH_SIZE", "0")
	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for zero batch size")
	}
}
