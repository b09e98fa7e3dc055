// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/serajapp/seraj/internal/auth"
	"github.com/serajapp/seraj/internal/models"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer failed: %v", err)
	}
	return e
}

func TestAllowed(t *testing.T) {
	e := newTestEnforcer(t)

	tests := []struct {
		role string
		obj  string
		act  string
		want bool
	}{
		{models.RoleAdmin, "/api/v1/admin/categories", "POST", true},
		{models.RoleAdmin, "/api/v1/admin/versions", "PUT", true},
		{models.RoleAdmin, "/api/v1/admin/reports", "GET", true},
		{models.RoleModerator, "/api/v1/admin/reports", "GET", true},
		{models.RoleModerator, "/api/v1/admin/reports/507f1f77bcf86cd799439011", "PUT", true},
		{models.RoleModerator, "/api/v1/admin/listings/507f1f77bcf86cd799439011/suspend", "POST", true},
		{models.RoleAdmin, "/api/v1/admin/users/507f1f77bcf86cd799439011/suspend", "POST", true},
		{models.RoleModerator, "/api/v1/admin/users/507f1f77bcf86cd799439011/suspend", "POST", false},
		{models.RoleModerator, "/api/v1/admin/categories", "POST", false},
		{models.RoleModerator, "/api/v1/admin/versions", "PUT", false},
		{models.RoleUser, "/api/v1/admin/reports", "GET", false},
		{models.RoleUser, "/api/v1/admin/categories", "POST", false},
	}

	for _, tt := range tests {
		got, err := e.Allowed(tt.role, tt.obj, tt.act)
		if err != nil {
			t.Fatalf("Allowed(%s, %s, %s) failed: %v", tt.role, tt.obj, tt.act, err)
		}
		if got != tt.want {
			t.Errorf("Allowed(%s, %s, %s) = %v, want %v", tt.role, tt.obj, tt.act, got, tt.want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	e := newTestEnforcer(t)

	handler := e.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := func(role string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports", nil)
		if role != "" {
			user := &models.User{ID: primitive.NewObjectID(), Role: role}
			req = req.WithContext(auth.ContextWithUser(req.Context(), user))
		}
		return req
	}

	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin allowed", models.RoleAdmin, http.StatusOK},
		{"moderator allowed", models.RoleModerator, http.StatusOK},
		{"user denied", models.RoleUser, http.StatusForbidden},
		{"unauthenticated denied", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, request(tt.role))
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}
