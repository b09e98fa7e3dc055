// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/serajapp/seraj/internal/config"
)

const testSecret = "test_secret_with_at_least_32_characters"

func newTestManager(t *testing.T, ttl time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, TokenTTL: ttl})
	if err != nil {
		t.Fatalf("failed to create JWT manager: %v", err)
	}
	return m
}

func TestNewJWTManager_ShortSecret(t *testing.T) {
	_, err := NewJWTManager(&config.SecurityConfig{JWTSecret: "short"})
	if err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, err := m.GenerateToken("507f1f77bcf86cd799439011", "user")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "507f1f77bcf86cd799439011" {
		t.Errorf("expected user ID to round-trip, got %s", claims.UserID)
	}
	if claims.Role != "user" {
		t.Errorf("expected role user, got %s", claims.Role)
	}
	if claims.Subject != claims.UserID {
		t.Errorf("expected subject to mirror user ID")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	m := newTestManager(t, time.Hour)

	// GenerateToken cannot mint an expired token, so sign one directly
	// with the manager's secret.
	past := time.Now().Add(-time.Hour)
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "507f1f77bcf86cd799439011",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "507f1f77bcf86cd799439011",
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(past),
		},
	})
	token, err := expired.SignedString(m.secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	_, err = m.ValidateToken(token)
	if err == nil {
		t.Fatal("expected expired token to fail validation")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("expected expiry error, got: %v", err)
	}
}

func TestNewJWTManager_DefaultTTL(t *testing.T) {
	// Non-positive TTLs fall back to a day so a zero-value config still
	// yields usable tokens.
	for _, ttl := range []time.Duration{0, -time.Minute} {
		m := newTestManager(t, ttl)
		if m.TTL() != 24*time.Hour {
			t.Errorf("TTL %v: expected 24h default, got %v", ttl, m.TTL())
		}
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	m := newTestManager(t, time.Hour)
	other := newTestManager(t, time.Hour)
	other.secret = []byte("another_secret_with_at_least_32_chars!!")

	token, err := other.GenerateToken("507f1f77bcf86cd799439011", "user")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := m.ValidateToken(token); err == nil {
		t.Fatal("expected token signed with different secret to fail")
	}
}

func TestValidateToken_WrongAlgorithm(t *testing.T) {
	m := newTestManager(t, time.Hour)

	// Token signed with "none" must be rejected regardless of claims.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "507f1f77bcf86cd799439011"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	if _, err := m.ValidateToken(token); err == nil {
		t.Fatal("expected unsigned token to fail validation")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	m := newTestManager(t, time.Hour)

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		if _, err := m.ValidateToken(tokenString); err == nil {
			t.Errorf("expected %q to fail validation", tokenString)
		}
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse", 10)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct-horse" {
		t.Fatal("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "correct-horse") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("expected wrong password to fail")
	}
}
