// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/serajapp/seraj/internal/auth"
	"github.com/serajapp/seraj/internal/logging"
	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/store"
)

// Register creates a new account and returns a token.
//
// POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		logging.CtxError(r.Context()).Err(err).Msg("Password hashing failed")
		rw.InternalError("Registration failed")
		return
	}

	user := &models.User{
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:  hash,
		Name:          req.Name,
		Phone:         req.Phone,
		City:          req.City,
		Role:          models.RoleUser,
		Notifications: models.DefaultNotificationSettings(),
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			rw.Conflict("An account with this email already exists")
			return
		}
		rw.DatabaseError(err)
		return
	}

	if h.mailer != nil {
		if err := h.mailer.SendWelcome(r.Context(), user.Email, user.Name); err != nil {
			logging.CtxWarn(r.Context()).Err(err).Msg("Welcome email failed")
		}
	}

	token, err := h.jwt.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		logging.CtxError(r.Context()).Err(err).Msg("Token generation failed")
		rw.InternalError("Registration failed")
		return
	}

	rw.Created(models.TokenResponse{
		Token:     token,
		ExpiresIn: int64(h.jwt.TTL().Seconds()),
		User:      user,
	})
}

// Login authenticates by email and password.
//
// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same response as a wrong password so the endpoint does not
			// leak which emails have accounts.
			rw.Unauthorized("Invalid credentials")
			return
		}
		rw.DatabaseError(err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		logging.CtxWarn(r.Context()).Str("email", req.Email).Msg("Failed login attempt")
		rw.Unauthorized("Invalid credentials")
		return
	}

	if user.Suspended {
		rw.Forbidden("Account suspended")
		return
	}

	token, err := h.jwt.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		logging.CtxError(r.Context()).Err(err).Msg("Token generation failed")
		rw.InternalError("Login failed")
		return
	}

	rw.Success(models.TokenResponse{
		Token:     token,
		ExpiresIn: int64(h.jwt.TTL().Seconds()),
		User:      user,
	})
}

// Me returns the authenticated user's own account document.
//
// GET /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(currentUser(r))
}

// RefreshToken re-issues a token for the acting user so clients can
// extend a session without storing the password. The auth middleware
// has already rejected expired tokens and suspended accounts.
//
// POST /api/v1/auth/refresh
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	token, err := h.jwt.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		logging.CtxError(r.Context()).Err(err).Msg("Token generation failed")
		rw.InternalError("Token refresh failed")
		return
	}

	rw.Success(models.TokenResponse{
		Token:     token,
		ExpiresIn: int64(h.jwt.TTL().Seconds()),
		User:      user,
	})
}

// RequestPasswordReset issues a reset token and emails it. Always
// answers 200 so the endpoint cannot be used to probe for accounts.
//
// POST /api/v1/auth/password-reset
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.PasswordResetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	accepted := map[string]string{"status": "accepted"}

	user, err := h.users.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logging.CtxError(r.Context()).Err(err).Msg("Password reset lookup failed")
		}
		rw.Success(accepted)
		return
	}

	token, err := h.resetTokens.Issue(user.ID.Hex())
	if err != nil {
		logging.CtxError(r.Context()).Err(err).Msg("Reset token issue failed")
		rw.Success(accepted)
		return
	}

	if h.mailer != nil {
		if err := h.mailer.SendPasswordReset(r.Context(), user.Email, user.Name, token); err != nil {
			logging.CtxError(r.Context()).Err(err).Msg("Password reset email failed")
		}
	}

	rw.Success(accepted)
}

// ConfirmPasswordReset redeems a reset token for a new password.
//
// POST /api/v1/auth/password-reset/confirm
func (h *Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.PasswordResetConfirm
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID, err := h.resetTokens.Redeem(req.Token)
	if err != nil {
		rw.BadRequest("Invalid or expired reset token")
		return
	}

	user, err := h.users.GetByID(r.Context(), mustObjectID(userID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.BadRequest("Invalid or expired reset token")
			return
		}
		rw.DatabaseError(err)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword, h.bcryptCost)
	if err != nil {
		logging.CtxError(r.Context()).Err(err).Msg("Password hashing failed")
		rw.InternalError("Password reset failed")
		return
	}

	if err := h.users.SetPassword(r.Context(), user.ID, hash); err != nil {
		rw.DatabaseError(err)
		return
	}

	logging.CtxInfo(r.Context()).Str("user_id", user.ID.Hex()).Msg("Password reset completed")
	rw.Success(map[string]string{"status": "password_updated"})
}
