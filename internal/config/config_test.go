// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test_secret_with_at_least_32_characters"

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "short" },
			wantErr: "jwt_secret",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "missing mongo uri",
			mutate:  func(c *Config) { c.Mongo.URI = "" },
			wantErr: "mongo.uri",
		},
		{
			name:    "missing mongo database",
			mutate:  func(c *Config) { c.Mongo.Database = "" },
			wantErr: "mongo.database",
		},
		{
			name: "smtp enabled without host",
			mutate: func(c *Config) {
				c.SMTP.Enabled = true
				c.SMTP.Host = ""
			},
			wantErr: "smtp.host",
		},
		{
			name: "keepalive without target",
			mutate: func(c *Config) {
				c.KeepAlive.Enabled = true
				c.KeepAlive.TargetURL = ""
				c.Server.PublicURL = ""
			},
			wantErr: "keepalive",
		},
		{
			name:    "page size above max",
			mutate:  func(c *Config) { c.API.DefaultPageSize = 1000 },
			wantErr: "default_page_size",
		},
		{
			name:    "bcrypt cost too low",
			mutate:  func(c *Config) { c.Security.BcryptCost = 4 },
			wantErr: "bcrypt_cost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MONGO_URI", "mongo.uri"},
		{"SERAJ_MONGO_URI", "mongo.uri"},
		{"SERAJ_JWT_SECRET", "security.jwt_secret"},
		{"SERAJ_SECURITY_JWT_SECRET", "security.jwt_secret"},
		{"SERAJ_PORT", "server.port"},
		{"MONGO_DB", "mongo.database"},
		{"MONGO_MAX_POOL_SIZE", "mongo.max_pool_size"},
		{"SECURITY_JWT_SECRET", "security.jwt_secret"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"SMTP_FROM_NAME", "smtp.from_name"},
		{"PORT", "server.port"},
		{"PUBLIC_URL", "server.public_url"},
		{"KEEPALIVE_INTERVAL", "keepalive.interval"},
		{"NOTIFICATIONS_FANOUT_BATCH_SIZE", "notifications.fanout_batch_size"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"GOPATH", ""},
		{"UNRELATED_THING", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_DB", "seraj_test")
	t.Setenv("SECURITY_CORS_ORIGINS", "https://seraj.app, https://admin.seraj.app")
	t.Setenv("KEEPALIVE_INTERVAL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Mongo.Database != "seraj_test" {
		t.Errorf("expected database seraj_test, got %s", cfg.Mongo.Database)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != "https://seraj.app" {
		t.Errorf("unexpected cors origins: %v", cfg.Security.CORSOrigins)
	}
	if cfg.KeepAlive.Interval != 5*time.Minute {
		t.Errorf("expected 5m keepalive interval, got %v", cfg.KeepAlive.Interval)
	}

	// Untouched settings keep their defaults.
	if cfg.API.DefaultPageSize != 20 {
		t.Errorf("expected default page size 20, got %d", cfg.API.DefaultPageSize)
	}
}

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected Load to fail without JWT secret")
	}
}
