package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "DATABASE_URL", "SQLITE_PATH", "BOOKING_CONFLICT_POLICY", "CORS_ALLOWED_ORIGINS", "SEED_DATA", "ROSTER_CACHE_TTL"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "5000" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SQLitePath != "appointments.db" {
		t.Fatalf("expected default sqlite path, got %s", cfg.SQLitePath)
	}
	if cfg.UsePostgres() {
		t.Fatalf("expected sqlite backend when DATABASE_URL is empty")
	}
	if cfg.RejectDoubleBooking() {
		t.Fatalf("expected double booking to be allowed by default")
	}
	if !cfg.SeedData || !cfg.AutoMigrate {
		t.Fatalf("expected seeding and migrations enabled by default")
	}
	if cfg.RosterCacheTTL != 10*time.Minute {
		t.Fatalf("expected default roster ttl, got %s", cfg.RosterCacheTTL)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Fatalf("expected wildcard CORS, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "  postgres://user@host/db  ")
	t.Setenv("BOOKING_CONFLICT_POLICY", "REJECT")
	t.Setenv("SEED_DATA", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("WEBHOOK_RATE_LIMIT_RPS", "2.5")
	t.Setenv("WEBHOOK_RATE_LIMIT_BURST", "7")
	t.Setenv("ROSTER_CACHE_TTL", "45s")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected trimmed db url, got %q", cfg.DatabaseURL)
	}
	if !cfg.UsePostgres() {
		t.Fatalf("expected postgres backend")
	}
	if !cfg.RejectDoubleBooking() {
		t.Fatalf("expected reject policy")
	}
	if cfg.SeedData {
		t.Fatalf("expected seeding disabled")
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.WebhookRateLimitRPS != 2.5 || cfg.WebhookRateLimitBurst != 7 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.WebhookRateLimitRPS, cfg.WebhookRateLimitBurst)
	}
	if cfg.RosterCacheTTL != 45*time.Second {
		t.Fatalf("expected ttl override, got %s", cfg.RosterCacheTTL)
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("expected invalid int to fall back to default, got %d", cfg.DBMaxConns)
	}
}

func TestUnknownConflictPolicyFallsBackToAllow(t *testing.T) {
	t.Setenv("BOOKING_CONFLICT_POLICY", "maybe")
	if Load().BookingConflictPolicy != ConflictPolicyAllow {
		t.Fatalf("expected allow policy")
	}
}
