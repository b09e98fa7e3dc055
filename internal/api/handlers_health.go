// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"net/http"
	"time"
)

// Liveness answers as long as the process is up. Also serves as the
// keep-alive target.
//
// GET /api/v1/ping
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Readiness verifies the database is reachable before reporting ready.
//
// GET /api/v1/health
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.health.Ping(r.Context()); err != nil {
		rw.ServiceUnavailable("Database unreachable")
		return
	}
	rw.Success(map[string]string{"status": "ready", "database": "ok"})
}
