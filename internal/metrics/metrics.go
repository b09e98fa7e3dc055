// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

// Package metrics defines the Prometheus collectors for Seraj:
// HTTP request latency and throughput, MongoDB operation timing,
// notification fan-out volume, outbound email, and keep-alive pings.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seraj_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seraj_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seraj_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Mongo metrics
	MongoOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seraj_mongo_op_duration_seconds",
			Help:    "Duration of MongoDB operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	MongoOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seraj_mongo_op_errors_total",
			Help: "Total number of MongoDB operation errors",
		},
		[]string{"operation", "collection"},
	)

	// Notification fan-out metrics
	NotificationsFanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seraj_notifications_fanned_total",
			Help: "Total number of notification documents inserted by fan-out",
		},
		[]string{"type"},
	)

	NotificationFanoutErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seraj_notification_fanout_errors_total",
			Help: "Total number of failed fan-out insert batches",
		},
	)

	PushDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seraj_push_deliveries_total",
			Help: "Total number of push gateway deliveries",
		},
		[]string{"outcome"}, // "ok", "error", "breaker_open"
	)

	// Email metrics
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seraj_emails_sent_total",
			Help: "Total number of outbound emails",
		},
		[]string{"template", "outcome"},
	)

	// Keep-alive metrics
	KeepAlivePings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seraj_keepalive_pings_total",
			Help: "Total number of keep-alive pings",
		},
		[]string{"outcome"},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	APIRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, route, code).Inc()
}

// TrackActiveRequest adjusts the active request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// ObserveMongoOp records one MongoDB operation, counting the error if
// err is non-nil.
func ObserveMongoOp(operation, collection string, start time.Time, err error) {
	MongoOpDuration.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
	if err != nil {
		MongoOpErrors.WithLabelValues(operation, collection).Inc()
	}
}
