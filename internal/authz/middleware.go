// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package authz

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/serajapp/seraj/internal/auth"
	"github.com/serajapp/seraj/internal/logging"
)

// Middleware enforces role permissions on admin routes. It must run
// after auth.Middleware.Authenticate so the acting user is in context.
func (e *Enforcer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.UserFromContext(r.Context())
		if user == nil {
			writeForbidden(w, "authentication required")
			return
		}

		allowed, err := e.Allowed(user.Role, r.URL.Path, r.Method)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("authorization check failed")
			writeForbidden(w, "authorization check failed")
			return
		}
		if !allowed {
			logging.Ctx(r.Context()).Warn().
				Str("role", user.Role).
				Str("path", r.URL.Path).
				Str("method", r.Method).
				Msg("access denied")
			writeForbidden(w, "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeForbidden(w http.ResponseWriter, message string) {
	body := map[string]interface{}{
		"success": false,
		"error":   map[string]string{"code": "FORBIDDEN", "message": message},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to encode forbidden response")
	}
}
