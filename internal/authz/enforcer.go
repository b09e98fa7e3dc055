// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

// Package authz provides role-based authorization for the moderation
// and admin surface using Casbin. Regular user routes are covered by
// authentication alone; Casbin is consulted only for /api/v1/admin
// paths, where moderators and admins carry different permissions.
package authz

import (
	"fmt"
	"os"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	_ "embed"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// ModelPath overrides the embedded model file.
	ModelPath string

	// PolicyPath overrides the embedded policy file.
	PolicyPath string
}

// Enforcer wraps the Casbin enforcer.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer creates an authorization enforcer. With a nil or empty
// config the embedded model and policy are used.
func NewEnforcer(cfg *EnforcerConfig) (*Enforcer, error) {
	if cfg == nil {
		cfg = &EnforcerConfig{}
	}

	var m model.Model
	var err error
	if cfg.ModelPath != "" && fileExists(cfg.ModelPath) {
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" && fileExists(cfg.PolicyPath) {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Enforcer{enforcer: enforcer}, nil
}

// Allowed reports whether the given role may perform act on obj.
func (e *Enforcer) Allowed(role, obj, act string) (bool, error) {
	ok, err := e.enforcer.Enforce(role, obj, act)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return ok, nil
}

// loadEmbeddedPolicy parses the embedded CSV policy into the enforcer.
// The file adapter only reads from disk, so embedded rules are added
// line by line.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer) error {
	for _, line := range splitPolicyLines(embeddedPolicy) {
		sec, rule := line[0], line[1:]
		var err error
		switch sec {
		case "p":
			_, err = enforcer.AddPolicy(toInterfaces(rule)...)
		case "g":
			_, err = enforcer.AddGroupingPolicy(toInterfaces(rule)...)
		default:
			err = fmt.Errorf("unknown policy section %q", sec)
		}
		if err != nil {
			return fmt.Errorf("failed to add policy rule %v: %w", line, err)
		}
	}
	return nil
}

// splitPolicyLines tokenizes the embedded CSV policy, skipping blanks
// and comments.
func splitPolicyLines(policy string) [][]string {
	var lines [][]string
	for _, raw := range strings.Split(policy, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		tokens := make([]string, 0, len(parts))
		for _, p := range parts {
			tokens = append(tokens, strings.TrimSpace(p))
		}
		if len(tokens) >= 2 {
			lines = append(lines, tokens)
		}
	}
	return lines
}

func toInterfaces(rule []string) []interface{} {
	out := make([]interface{}, len(rule))
	for i, r := range rule {
		out[i] = r
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
