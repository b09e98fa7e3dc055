// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

// Package keepalive periodically pings the service's own public URL so
// free-tier hosts that idle out inactive deployments keep the process
// warm. The interval defaults to just under the usual 15 minute idle
// window.
package keepalive

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/serajapp/seraj/internal/config"
	"github.com/serajapp/seraj/internal/logging"
	"github.com/serajapp/seraj/internal/metrics"
)

const defaultInterval = 14 * time.Minute

// Pinger is a supervised service that fires an HTTP GET at the target
// URL on every tick. Failures are logged and counted but never stop
// the loop; the target being briefly unreachable is normal during
// deploys.
type Pinger struct {
	target   string
	interval time.Duration
	client   *http.Client
}

// New builds a pinger from config. Returns nil when keep-alive is
// disabled, which callers treat as "do not register the service".
func New(cfg config.KeepAliveConfig, publicURL string) *Pinger {
	if !cfg.Enabled {
		return nil
	}
	target := cfg.TargetURL
	if target == "" {
		target = publicURL + "/api/v1/ping"
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Pinger{
		target:   target,
		interval: interval,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Serve implements suture.Service. It pings once immediately so a
// freshly restarted process resets the host's idle timer, then ticks.
func (p *Pinger) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.ping(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.ping(ctx)
		}
	}
}

func (p *Pinger) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target, nil)
	if err != nil {
		metrics.KeepAlivePings.WithLabelValues("error").Inc()
		logging.Warn().Err(err).Str("target", p.target).Msg("Keep-alive request build failed")
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		metrics.KeepAlivePings.WithLabelValues("error").Inc()
		logging.Warn().Err(err).Str("target", p.target).Msg("Keep-alive ping failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.KeepAlivePings.WithLabelValues("error").Inc()
		logging.Warn().
			Int("status", resp.StatusCode).
			Str("target", p.target).
			Msg("Keep-alive ping returned error status")
		return
	}

	metrics.KeepAlivePings.WithLabelValues("ok").Inc()
	logging.Debug().Str("target", p.target).Msg("Keep-alive ping succeeded")
}

// String implements fmt.Stringer so suture logs name the service.
func (p *Pinger) String() string {
	return fmt.Sprintf("keepalive(%s)", p.target)
}
