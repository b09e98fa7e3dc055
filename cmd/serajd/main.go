// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

// Package main is the entry point for the Seraj server.
//
// Seraj is a classifieds marketplace backend: users register, list
// items for sale, message each other about listings, follow sellers,
// and receive notifications. Moderation, ratings, and app version
// gating round out the API surface.
//
// # Startup order
//
//  1. Configuration (Koanf v2: defaults, config file, environment)
//  2. Logging (zerolog)
//  3. MongoDB connection and index creation
//  4. Reset token store (BadgerDB)
//  5. Outbound services: SMTP mailer, push gateway, notification fan-out
//  6. Auth: JWT manager, Casbin enforcer
//  7. HTTP server under the suture supervisor tree
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the server stops
// accepting connections, in-flight requests get the configured
// shutdown timeout, then the token store and Mongo connection close.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/serajapp/seraj/internal/api"
	"github.com/serajapp/seraj/internal/auth"
	"github.com/serajapp/seraj/internal/authz"
	"github.com/serajapp/seraj/internal/config"
	"github.com/serajapp/seraj/internal/keepalive"
	"github.com/serajapp/seraj/internal/logging"
	"github.com/serajapp/seraj/internal/mailer"
	"github.com/serajapp/seraj/internal/notify"
	"github.com/serajapp/seraj/internal/resettoken"
	"github.com/serajapp/seraj/internal/store"
	"github.com/serajapp/seraj/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Str("database", cfg.Mongo.Database).
		Msg("Starting Seraj")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := store.Connect(connectCtx, &cfg.Mongo)
	cancel()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logging.Error().Err(err).Msg("Error closing MongoDB connection")
		}
	}()

	indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
	err = st.EnsureIndexes(indexCtx)
	cancel()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create indexes")
	}
	logging.Info().Msg("Database ready")

	// Reset token store
	var tokens *resettoken.Store
	if cfg.Tokens.Path != "" {
		tokens, err = resettoken.Open(cfg.Tokens.Path, cfg.Tokens.ResetTokenTTL)
	} else {
		tokens, err = resettoken.InMemory(cfg.Tokens.ResetTokenTTL)
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open token store")
	}
	defer func() {
		if err := tokens.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing token store")
		}
	}()

	// Outbound services. The nil checks matter: assigning a typed nil
	// pointer into the interface fields would defeat the handlers' own
	// nil checks.
	deps := api.HandlerDeps{ResetTokens: tokens}

	if m := mailer.New(cfg.SMTP, cfg.Server.PublicURL); m != nil {
		deps.Mailer = m
		logging.Info().Str("host", cfg.SMTP.Host).Msg("SMTP mailer enabled")
	} else {
		logging.Info().Msg("SMTP mailer disabled")
	}

	var push notify.PushSender
	if ps := notify.NewGatewayPushSender(cfg.Notifications.PushGatewayURL, cfg.Notifications.PushTimeout); ps != nil {
		push = ps
		logging.Info().Str("gateway", cfg.Notifications.PushGatewayURL).Msg("Push delivery enabled")
	}
	deps.Notifier = notify.NewService(st.Follows, st.Users, st.Notifications, push, cfg.Notifications.FanoutBatchSize)

	// Auth
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	deps.JWT = jwtManager

	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization")
	}

	// HTTP stack
	handler := api.NewHandler(cfg, st, deps)
	authMW := auth.NewMiddleware(jwtManager, st.Users)
	chiMW := api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security))
	router := api.NewRouter(handler, authMW, enforcer, chiMW)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Supervisor tree
	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(treeCfg)
	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))

	if pinger := keepalive.New(cfg.KeepAlive, cfg.Server.PublicURL); pinger != nil {
		tree.AddBackgroundService(pinger)
		logging.Info().Dur("interval", cfg.KeepAlive.Interval).Msg("Keep-alive pinger enabled")
	}

	logging.Info().Str("addr", server.Addr).Msg("Server listening")

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("Supervisor tree exited with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", fmt.Sprintf("%v", svc.Service)).Msg("Service did not stop in time")
		}
	}

	logging.Info().Msg("Shutdown complete")
}
