// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/serajapp/seraj/internal/models"
)

// fakeUserLoader is an in-memory UserLoader for middleware tests.
type fakeUserLoader struct {
	users   map[primitive.ObjectID]*models.User
	touched int
}

func (f *fakeUserLoader) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, fmt.Errorf("user not found")
}

func (f *fakeUserLoader) TouchLastSeen(_ context.Context, _ primitive.ObjectID) error {
	f.touched++
	return nil
}

func newAuthFixture(t *testing.T) (*Middleware, *fakeUserLoader, *models.User, string) {
	t.Helper()

	m := newTestManager(t, time.Hour)
	user := &models.User{
		ID:    primitive.NewObjectID(),
		Email: "seller@example.com",
		Name:  "Omar",
		Role:  models.RoleUser,
	}
	loader := &fakeUserLoader{users: map[primitive.ObjectID]*models.User{user.ID: user}}

	token, err := m.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	return NewMiddleware(m, loader), loader, user, token
}

func TestAuthenticate_Success(t *testing.T) {
	mw, loader, user, token := newAuthFixture(t)

	var gotUser *models.User
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser == nil || gotUser.ID != user.ID {
		t.Error("expected authenticated user in context")
	}
	if loader.touched != 1 {
		t.Errorf("expected last seen touch, got %d", loader.touched)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	mw, loader, user, token := newAuthFixture(t)

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		setup      func()
		wantStatus int
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic " + token,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed token",
			authHeader: "Bearer garbage",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown user",
			authHeader: "Bearer " + token,
			setup:      func() { delete(loader.users, user.ID) },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestAuthenticate_SuspendedUser(t *testing.T) {
	mw, loader, user, token := newAuthFixture(t)
	loader.users[user.ID].Suspended = true

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for suspended users")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
