// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/serajapp/seraj/internal/auth"
	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/store"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	return resp
}

func TestRegisterSuccess(t *testing.T) {
	h := newTestHandler(t)

	body := `{"email":"Buyer@Example.com","password":"secret123","name":"Buyer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", newJSONBody(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["token"] == "" {
		t.Error("expected a token in the response")
	}

	users := h.users.(*fakeUserStore)
	if len(users.created) != 1 {
		t.Fatalf("created %d users, want 1", len(users.created))
	}
	created := users.created[0]
	if created.Email != "buyer@example.com" {
		t.Errorf("email = %q, want lowercased", created.Email)
	}
	if created.Role != models.RoleUser {
		t.Errorf("role = %q, want %q", created.Role, models.RoleUser)
	}
	if !created.Notifications.NewMessage {
		t.Error("notification settings should default to on")
	}
	if created.PasswordHash == "secret123" || created.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newTestHandler(t)
	h.users.(*fakeUserStore).createErr = store.ErrDuplicate

	body := `{"email":"taken@example.com","password":"secret123","name":"Buyer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", newJSONBody(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"not-an-email","password":"secret123","name":"Buyer"}`},
		{"short password", `{"email":"a@b.com","password":"short","name":"Buyer"}`},
		{"missing name", `{"email":"a@b.com","password":"secret123"}`},
		{"malformed json", `{"email":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", newJSONBody(tt.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func loginWith(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", newJSONBody(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLoginSuccess(t *testing.T) {
	h := newTestHandler(t)
	hash, _ := auth.HashPassword("secret123", 4)
	h.users = newFakeUserStore(&models.User{
		ID:           mustObjectID("64b000000000000000000001"),
		Email:        "seller@example.com",
		PasswordHash: hash,
		Role:         models.RoleUser,
	})

	rec := loginWith(t, h, `{"email":"seller@example.com","password":"secret123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["token"] == "" {
		t.Error("expected a token")
	}
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	h := newTestHandler(t)
	hash, _ := auth.HashPassword("secret123", 4)
	h.users = newFakeUserStore(&models.User{
		ID:           mustObjectID("64b000000000000000000001"),
		Email:        "seller@example.com",
		PasswordHash: hash,
	})

	unknown := loginWith(t, h, `{"email":"nobody@example.com","password":"secret123"}`)
	wrongPass := loginWith(t, h, `{"email":"seller@example.com","password":"wrong-password"}`)

	if unknown.Code != http.StatusUnauthorized || wrongPass.Code != http.StatusUnauthorized {
		t.Fatalf("codes = %d/%d, want 401 for both", unknown.Code, wrongPass.Code)
	}

	// The bodies must be indistinguishable apart from timing metadata.
	a := decodeEnvelope(t, unknown)
	b := decodeEnvelope(t, wrongPass)
	if a.Error.Message != b.Error.Message || a.Error.Code != b.Error.Code {
		t.Errorf("unknown account and wrong password produce different errors: %q vs %q",
			a.Error.Message, b.Error.Message)
	}
}

func TestLoginSuspendedAccount(t *testing.T) {
	h := newTestHandler(t)
	hash, _ := auth.HashPassword("secret123", 4)
	h.users = newFakeUserStore(&models.User{
		ID:           mustObjectID("64b000000000000000000001"),
		Email:        "banned@example.com",
		PasswordHash: hash,
		Suspended:    true,
	})

	rec := loginWith(t, h, `{"email":"banned@example.com","password":"secret123"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequestPasswordResetAlwaysAccepts(t *testing.T) {
	h := newTestHandler(t)
	user := &models.User{
		ID:    mustObjectID("64b000000000000000000001"),
		Email: "seller@example.com",
		Name:  "Seller",
	}
	h.users = newFakeUserStore(user)

	for _, email := range []string{"seller@example.com", "nobody@example.com"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/password-reset",
			newJSONBody(`{"email":"`+email+`"}`))
		rec := httptest.NewRecorder()
		h.RequestPasswordReset(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status for %s = %d, want 200", email, rec.Code)
		}
	}

	tokens := h.resetTokens.(*fakeResetTokens)
	if len(tokens.issued) != 1 {
		t.Errorf("issued %d tokens, want 1 (only for the real account)", len(tokens.issued))
	}
}

func TestConfirmPasswordReset(t *testing.T) {
	h := newTestHandler(t)
	user := &models.User{
		ID:    mustObjectID("64b000000000000000000001"),
		Email: "seller@example.com",
	}
	h.users = newFakeUserStore(user)

	token, err := h.resetTokens.Issue(user.ID.Hex())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	body := `{"token":"` + token + `","new_password":"brand-new-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/password-reset/confirm", newJSONBody(body))
	rec := httptest.NewRecorder()
	h.ConfirmPasswordReset(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	// Redeemed tokens are single use.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/password-reset/confirm", newJSONBody(body))
	h.ConfirmPasswordReset(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("second redeem status = %d, want 400", rec.Code)
	}
}

func TestRefreshToken(t *testing.T) {
	h := newTestHandler(t)
	user := &models.User{ID: mustObjectID("64b000000000000000000001"), Role: models.RoleUser, Name: "Seller"}

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil), user)
	rec := httptest.NewRecorder()
	h.RefreshToken(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("expected a fresh token in the response")
	}

	// The new token must carry the acting user's identity.
	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		t.Fatalf("refreshed token failed validation: %v", err)
	}
	if claims.UserID != user.ID.Hex() {
		t.Errorf("token user = %q, want %q", claims.UserID, user.ID.Hex())
	}
	if claims.Role != models.RoleUser {
		t.Errorf("token role = %q, want %q", claims.Role, models.RoleUser)
	}
	if data["expires_in"].(float64) <= 0 {
		t.Error("expected a positive expires_in")
	}
}

func TestMe(t *testing.T) {
	h := newTestHandler(t)
	user := &models.User{ID: mustObjectID("64b000000000000000000001"), Name: "Seller"}

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), user)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]interface{})
	if data["name"] != "Seller" {
		t.Errorf("name = %v, want Seller", data["name"])
	}
}
