// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

// Package mailer sends the transactional emails of the marketplace:
// the welcome message and password reset links. Sends are throttled
// and run behind a circuit breaker so a broken SMTP relay degrades to
// logged failures instead of hung requests.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/serajapp/seraj/internal/config"
	"github.com/serajapp/seraj/internal/metrics"
)

// Mailer sends transactional email over SMTP.
type Mailer struct {
	cfg       config.SMTPConfig
	publicURL string

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// New creates the mailer. Returns nil when SMTP is disabled, which
// callers treat as "no email".
func New(cfg config.SMTPConfig, publicURL string) *Mailer {
	if !cfg.Enabled {
		return nil
	}

	perMinute := cfg.SendsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}

	settings := gobreaker.Settings{
		Name:    "smtp",
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}

	return &Mailer{
		cfg:       cfg,
		publicURL: publicURL,
		limiter:   rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		breaker:   gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// SendWelcome sends the account welcome email.
func (m *Mailer) SendWelcome(ctx context.Context, to, name string) error {
	body, err := renderWelcome(name, m.publicURL)
	if err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}
	return m.send(ctx, "welcome", to, "Welcome to Seraj", body)
}

// SendPasswordReset sends the password reset email with the one-time
// token.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	body, err := renderPasswordReset(name, token, m.publicURL)
	if err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	return m.send(ctx, "password_reset", to, "Reset your Seraj password", body)
}

// send throttles, then delivers through the breaker and records the
// outcome.
func (m *Mailer) send(ctx context.Context, template, to, subject, htmlBody string) error {
	if err := m.limiter.Wait(ctx); err != nil {
		metrics.EmailsSent.WithLabelValues(template, "throttled").Inc()
		return fmt.Errorf("email throttle: %w", err)
	}

	msg := m.buildMessage(to, subject, htmlBody)
	_, err := m.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, m.sendSMTP(ctx, to, msg)
	})

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.EmailsSent.WithLabelValues(template, outcome).Inc()
	return err
}

// buildMessage constructs the RFC 5322 message with headers.
func (m *Mailer) buildMessage(to, subject, htmlBody string) string {
	fromName := m.cfg.FromName
	if fromName == "" {
		fromName = "Seraj"
	}

	headers := fmt.Sprintf("From: %s <%s>\r\n", fromName, m.cfg.From) +
		fmt.Sprintf("To: %s\r\n", to) +
		fmt.Sprintf("Subject: %s\r\n", subject) +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n"
	return headers + htmlBody
}

// sendSMTP performs the SMTP conversation with a connect timeout.
func (m *Mailer) sendSMTP(ctx context.Context, to, msg string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	dialer := &net.Dialer{Timeout: m.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }() //nolint:errcheck

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }() //nolint:errcheck

	if m.cfg.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: m.cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	// Quit failures after a successful DATA are harmless.
	_ = client.Quit()
	return nil
}
