// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/serajapp/seraj/internal/logging"
	"github.com/serajapp/seraj/internal/models"
)

type userContextKey string

// userKey is the context key under which the authenticated user is
// stored by Authenticate.
const userKey userContextKey = "auth_user"

// UserLoader resolves token claims to a user document. Implemented by
// the user store.
type UserLoader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	TouchLastSeen(ctx context.Context, id primitive.ObjectID) error
}

// Middleware authenticates requests using bearer tokens.
type Middleware struct {
	jwt   *JWTManager
	users UserLoader
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(jwt *JWTManager, users UserLoader) *Middleware {
	return &Middleware{jwt: jwt, users: users}
}

// Authenticate verifies the bearer token, loads the acting user, and
// rejects suspended accounts. The user is stored in the request context
// for handlers to retrieve via UserFromContext.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractBearerToken(r)
		if tokenString == "" {
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := m.jwt.ValidateToken(tokenString)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			unauthorized(w, "account not found")
			return
		}
		if user.Suspended {
			forbidden(w, "account suspended")
			return
		}

		// Best effort; a failed touch must not fail the request.
		if err := m.users.TouchLastSeen(r.Context(), user.ID); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("failed to touch last seen")
		}

		ctx := ContextWithUser(r.Context(), user)
		ctx = logging.ContextWithUserID(ctx, user.ID.Hex())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ContextWithUser stores the authenticated user in the context.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user set by Authenticate.
// Returns nil if the request is unauthenticated.
func UserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userKey).(*models.User); ok {
		return user
	}
	return nil
}

// extractBearerToken pulls the token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// authErrorBody mirrors the api package's envelope. Defined here to
// avoid an import cycle with internal/api.
type authErrorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	var body authErrorBody
	body.Error.Code = code
	body.Error.Message = message

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to encode auth error response")
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func forbidden(w http.ResponseWriter, message string) {
	writeAuthError(w, http.StatusForbidden, "FORBIDDEN", message)
}
