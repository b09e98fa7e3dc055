// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/seraj/config.yaml",
	"/etc/seraj/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration using Koanf v2 with layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// MONGO_URI -> mongo.uri, SMTP_FROM_NAME -> smtp.from_name, etc.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when set from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values to slices for
// the known slice fields. YAML values arrive as slices already.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// sectionPrefixes maps the first underscore-delimited token of an env
// var to a config section. Variables outside these sections (PATH, HOME,
// toolchain noise) are ignored.
var sectionPrefixes = map[string]string{
	"server":        "server",
	"mongo":         "mongo",
	"security":      "security",
	"smtp":          "smtp",
	"notifications": "notifications",
	"keepalive":     "keepalive",
	"tokens":        "tokens",
	"api":           "api",
	"logging":       "logging",
}

// envAliases maps bare legacy variable names (the ones the hosting
// dashboards already have set) to their config paths.
var envAliases = map[string]string{
	"port":        "server.port",
	"host":        "server.host",
	"public_url":  "server.public_url",
	"environment": "server.environment",
	"mongo_uri":   "mongo.uri",
	"mongo_db":    "mongo.database",
	"jwt_secret":  "security.jwt_secret",
	"log_level":   "logging.level",
	"log_format":  "logging.format",
}

// envTransformFunc maps environment variable names to koanf paths. The
// SERAJ_ prefix is optional; it keeps Seraj variables apart from other
// software on shared hosts.
//
//	SERAJ_MONGO_URI      -> mongo.uri
//	MONGO_URI            -> mongo.uri
//	SECURITY_JWT_SECRET  -> security.jwt_secret
//	SMTP_FROM_NAME       -> smtp.from_name
//	PORT                 -> server.port (legacy alias)
func envTransformFunc(key string) string {
	lower := strings.ToLower(key)
	lower = strings.TrimPrefix(lower, "seraj_")

	if path, ok := envAliases[lower]; ok {
		return path
	}

	section, rest, found := strings.Cut(lower, "_")
	if !found {
		return ""
	}
	prefix, ok := sectionPrefixes[section]
	if !ok {
		return ""
	}
	return prefix + "." + rest
}
