package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", cfg.BcryptCost)
	}
	if cfg.Bootstrap.Enabled {
		t.Fatalf("bootstrap must be disabled by default")
	}
	if cfg.Bootstrap.AdminPassword != "admin123" || cfg.Bootstrap.StaffPassword != "staff123" {
		t.Fatalf("unexpected bootstrap passwords: %+v", cfg.Bootstrap)
	}
	if cfg.Redis.Addr != "" || cfg.Mongo.URI != "" {
		t.Fatalf("optional stores must be disabled by default")
	}
	if cfg.RateLimit.LoginMaxAttempts != 5 || cfg.RateLimit.LoginBlockDuration != 15*time.Minute {
		t.Fatalf("unexpected login limits: %+v", cfg.RateLimit)
	}
}

func TestLoadWith_GeneratesSecretOutsideProduction(t *testing.T) {
	first, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	second, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}

	if !first.GeneratedSecret || len(first.JWTSecret) != 64 {
		t.Fatalf("expected generated 32-byte hex secret, got %q", first.JWTSecret)
	}
	if first.JWTSecret == second.JWTSecret {
		t.Fatalf("generated secrets must differ per process")
	}
}

func TestLoadWith_ProductionRequiresSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV": "production",
	}))
	if !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":        "production",
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.JWTSecret != "s3cret" || cfg.GeneratedSecret {
		t.Fatalf("expected configured secret, got %+v", cfg)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":                       "9090",
		"TOKEN_TTL":                  "1h",
		"BOOTSTRAP_DEFAULT_ACCOUNTS": "true",
		"REDIS_ADDR":                 "localhost:6379",
		"LOGIN_BLOCK_DURATION":       "30s",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.Port != "9090" || cfg.TokenTTL != time.Hour || !cfg.Bootstrap.Enabled {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.RateLimit.LoginBlockDuration != 30*time.Second {
		t.Fatalf("overrides not applied: %+v %+v", cfg.Redis, cfg.RateLimit)
	}
}

func TestLoadWith_InvalidDuration(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"TOKEN_TTL": "forever",
	}))
	if err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  PostgresConfig
		want string
	}{
		{
			name: "explicit url wins",
			cfg:  PostgresConfig{URL: "postgres://u:p@db:5432/x", Host: "ignored"},
			want: "postgres://u:p@db:5432/x",
		},
		{
			name: "built from parts",
			cfg:  PostgresConfig{Host: "localhost", Port: "5432", User: "postgres", Password: "pw", Name: "inventory", SSLMode: "disable"},
			want: "postgres://postgres:pw@localhost:5432/inventory?sslmode=disable",
		},
		{
			name: "no password",
			cfg:  PostgresConfig{Host: "db", Port: "6543", User: "app", Name: "inv", SSLMode: "require"},
			want: "postgres://app@db:6543/inv?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.want {
				t.Fatalf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadWith_TrustedProxies(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"TRUSTED_PROXIES": "10.0.0.0/8,192.0.2.10",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}

	nets, err := cfg.TrustedProxyNets()
	if err != nil {
		t.Fatalf("TrustedProxyNets returned error: %v", err)
	}
	if len(nets) != 2 {
		t.Fatalf("expected 2 networks, got %d", len(nets))
	}
	if nets[0].String() != "10.0.0.0/8" || nets[1].String() != "192.0.2.10/32" {
		t.Fatalf("unexpected networks: %v", nets)
	}

	_, err = LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"TRUSTED_PROXIES": "not-an-ip",
	}))
	if err == nil {
		t.Fatalf("expected error for invalid trusted proxy")
	}
}
