// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

// Package config provides layered configuration loading for Seraj using
// Koanf v2. Settings resolve in priority order: environment variables,
// then an optional YAML config file, then built-in defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Seraj server.
type Config struct {
	Server        ServerConfig       `koanf:"server"`
	Mongo         MongoConfig        `koanf:"mongo"`
	Security      SecurityConfig     `koanf:"security"`
	SMTP          SMTPConfig         `koanf:"smtp"`
	Notifications NotificationConfig `koanf:"notifications"`
	KeepAlive     KeepAliveConfig    `koanf:"keepalive"`
	Tokens        TokenStoreConfig   `koanf:"tokens"`
	API           APIConfig          `koanf:"api"`
	Logging       LoggingConfig      `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// PublicURL is the externally reachable base URL, used for links in
	// outbound email and as the keep-alive ping target when no explicit
	// target is configured.
	PublicURL string `koanf:"public_url"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// MongoConfig holds document database settings.
type MongoConfig struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`

	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	QueryTimeout   time.Duration `koanf:"query_timeout"`
	MaxPoolSize    uint64        `koanf:"max_pool_size"`
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	// JWTSecret signs bearer tokens. Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is how long issued tokens remain valid.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `koanf:"bcrypt_cost"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	// LoginRateLimit bounds login attempts per IP per LoginRateWindow.
	LoginRateLimit  int           `koanf:"login_rate_limit"`
	LoginRateWindow time.Duration `koanf:"login_rate_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// SMTPConfig holds outbound email settings.
type SMTPConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
	FromName string `koanf:"from_name"`
	UseTLS   bool   `koanf:"use_tls"`

	Timeout time.Duration `koanf:"timeout"`

	// SendsPerMinute throttles outbound mail to stay inside provider
	// quotas. Zero disables throttling.
	SendsPerMinute int `koanf:"sends_per_minute"`
}

// NotificationConfig holds notification fan-out settings.
type NotificationConfig struct {
	// FanoutBatchSize caps how many follower notification documents are
	// inserted per InsertMany call.
	FanoutBatchSize int `koanf:"fanout_batch_size"`

	// PushGatewayURL is the HTTP endpoint of the push delivery gateway.
	// Empty disables push delivery.
	PushGatewayURL string `koanf:"push_gateway_url"`

	PushTimeout time.Duration `koanf:"push_timeout"`
}

// KeepAliveConfig holds the periodic self-ping settings used on hosts
// that idle out inactive deployments.
type KeepAliveConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`

	// TargetURL overrides the ping target. Defaults to Server.PublicURL.
	TargetURL string `koanf:"target_url"`
}

// TokenStoreConfig holds settings for the short-lived token store
// (password reset tokens, revoked sessions).
type TokenStoreConfig struct {
	// Path is the on-disk Badger directory. Empty runs in-memory.
	Path string `koanf:"path"`

	ResetTokenTTL time.Duration `koanf:"reset_token_ttl"`
}

// APIConfig holds pagination settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			PublicURL:       "",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Mongo: MongoConfig{
			URI:            "mongodb://127.0.0.1:27017",
			Database:       "seraj",
			ConnectTimeout: 10 * time.Second,
			QueryTimeout:   10 * time.Second,
			MaxPoolSize:    100,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			TokenTTL:          30 * 24 * time.Hour,
			BcryptCost:        12,
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			LoginRateLimit:    5,
			LoginRateWindow:   5 * time.Minute,
			CORSOrigins:       []string{},
		},
		SMTP: SMTPConfig{
			Enabled:        false,
			Port:           587,
			FromName:       "Seraj",
			UseTLS:         true,
			Timeout:        30 * time.Second,
			SendsPerMinute: 60,
		},
		Notifications: NotificationConfig{
			FanoutBatchSize: 500,
			PushGatewayURL:  "",
			PushTimeout:     10 * time.Second,
		},
		KeepAlive: KeepAliveConfig{
			Enabled:  false,
			Interval: 14 * time.Minute,
		},
		Tokens: TokenStoreConfig{
			Path:          "/data/tokens",
			ResetTokenTTL: time.Hour,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks configuration invariants that would otherwise surface
// as confusing runtime failures.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo.database is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters")
	}
	if c.Security.BcryptCost < 10 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("security.bcrypt_cost must be 10-31, got %d", c.Security.BcryptCost)
	}
	if c.Notifications.FanoutBatchSize < 1 {
		return fmt.Errorf("notifications.fanout_batch_size must be positive")
	}
	if c.SMTP.Enabled {
		if c.SMTP.Host == "" {
			return fmt.Errorf("smtp.host is required when smtp is enabled")
		}
		if c.SMTP.From == "" {
			return fmt.Errorf("smtp.from is required when smtp is enabled")
		}
	}
	if c.KeepAlive.Enabled && c.KeepAlive.TargetURL == "" && c.Server.PublicURL == "" {
		return fmt.Errorf("keepalive requires keepalive.target_url or server.public_url")
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size must be 1-%d", c.API.MaxPageSize)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
