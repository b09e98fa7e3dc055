// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/serajapp/seraj/internal/metrics"
)

// pushRequest is the payload posted to the push gateway.
type pushRequest struct {
	Token string `json:"token"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// GatewayPushSender posts notifications to the external push gateway
// behind a circuit breaker, so a dead gateway cannot slow every request
// that triggers fan-out.
type GatewayPushSender struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewGatewayPushSender creates the sender. Returns nil when url is
// empty, which disables push delivery entirely.
func NewGatewayPushSender(url string, timeout time.Duration) *GatewayPushSender {
	if url == "" {
		return nil
	}

	settings := gobreaker.Settings{
		Name:    "push-gateway",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &GatewayPushSender{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Send delivers one push message.
func (p *GatewayPushSender) Send(ctx context.Context, token, title, body string) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.post(ctx, token, title, body)
	})

	switch {
	case err == nil:
		metrics.PushDeliveries.WithLabelValues("ok").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.PushDeliveries.WithLabelValues("breaker_open").Inc()
	default:
		metrics.PushDeliveries.WithLabelValues("error").Inc()
	}
	return err
}

func (p *GatewayPushSender) post(ctx context.Context, token, title, body string) error {
	payload, err := json.Marshal(pushRequest{Token: token, Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("push gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}
	return nil
}
