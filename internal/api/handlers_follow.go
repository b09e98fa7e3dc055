// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/serajapp/seraj/internal/logging"
	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/store"
)

// FollowUser makes the acting user follow another user. Idempotent.
//
// PUT /api/v1/users/{userID}/follow
func (h *Handler) FollowUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	followeeID, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}
	if followeeID == user.ID {
		rw.BadRequest("Cannot follow yourself")
		return
	}

	if _, err := h.users.GetByID(r.Context(), followeeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("User not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	created, err := h.follows.Follow(r.Context(), user.ID, followeeID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	if created {
		if err := h.users.IncFollowCounts(r.Context(), user.ID, followeeID, 1); err != nil {
			logging.CtxWarn(r.Context()).Err(err).Msg("Follow counter update failed")
		}
		if h.notifier != nil {
			h.notifier.FollowerGained(r.Context(), user, followeeID)
		}
	}

	rw.Success(map[string]bool{"following": true})
}

// UnfollowUser removes the follow relationship. Idempotent.
//
// DELETE /api/v1/users/{userID}/follow
func (h *Handler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	followeeID, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}

	removed, err := h.follows.Unfollow(r.Context(), user.ID, followeeID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	if removed {
		if err := h.users.IncFollowCounts(r.Context(), user.ID, followeeID, -1); err != nil {
			logging.CtxWarn(r.Context()).Err(err).Msg("Follow counter update failed")
		}
	}

	rw.Success(map[string]bool{"following": false})
}

// ListFollowers returns one page of a user's followers as public
// profiles.
//
// GET /api/v1/users/{userID}/followers
func (h *Handler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}
	limit, offset := h.pagination(r)

	follows, err := h.follows.Followers(r.Context(), id, limit, offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	ids := make([]primitive.ObjectID, len(follows))
	for i, f := range follows {
		ids[i] = f.FollowerID
	}
	profiles, err := h.publicProfiles(r, ids)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithPagination(profiles, pageMeta(-1, len(profiles), limit, offset))
}

// ListFollowing returns one page of the users a user follows.
//
// GET /api/v1/users/{userID}/following
func (h *Handler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}
	limit, offset := h.pagination(r)

	follows, err := h.follows.Following(r.Context(), id, limit, offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	ids := make([]primitive.ObjectID, len(follows))
	for i, f := range follows {
		ids[i] = f.FolloweeID
	}
	profiles, err := h.publicProfiles(r, ids)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithPagination(profiles, pageMeta(-1, len(profiles), limit, offset))
}

// publicProfiles resolves user IDs to public profiles, preserving the
// input order and skipping deleted accounts.
func (h *Handler) publicProfiles(r *http.Request, ids []primitive.ObjectID) ([]models.PublicProfile, error) {
	users, err := h.users.GetMany(r.Context(), ids)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.PublicProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			profiles = append(profiles, u.Public())
		}
	}
	return profiles, nil
}
