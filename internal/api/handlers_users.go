// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/serajapp/seraj/internal/logging"
	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/store"
)

// GetProfile returns another user's public profile.
//
// GET /api/v1/users/{userID}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("User not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(user.Public())
}

// UpdateProfile updates the acting user's profile fields.
//
// PATCH /api/v1/users/me
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	var req models.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sets := bson.M{}
	if req.Name != nil {
		sets["name"] = *req.Name
	}
	if req.Bio != nil {
		sets["bio"] = *req.Bio
	}
	if req.City != nil {
		sets["city"] = *req.City
	}
	if req.Phone != nil {
		sets["phone"] = *req.Phone
	}
	if req.AvatarURL != nil {
		sets["avatar_url"] = *req.AvatarURL
	}
	if req.Lat != nil && req.Lng != nil {
		sets["location"] = models.NewGeoPoint(*req.Lat, *req.Lng)
	}

	if len(sets) == 0 {
		rw.BadRequest("No fields to update")
		return
	}

	if err := h.users.UpdateProfile(r.Context(), user.ID, sets); err != nil {
		rw.DatabaseError(err)
		return
	}

	updated, err := h.users.GetByID(r.Context(), user.ID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(updated)
}

// SetPushToken registers the device push token for the acting user.
//
// PUT /api/v1/users/me/push-token
func (h *Handler) SetPushToken(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	var req models.PushTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.SetPushToken(r.Context(), user.ID, req.Token, req.Platform); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(map[string]string{"status": "registered"})
}

// UpdateNotificationSettings replaces the acting user's notification
// switches.
//
// PUT /api/v1/users/me/notification-settings
func (h *Handler) UpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	var settings models.NotificationSettings
	if !decodeAndValidate(w, r, &settings) {
		return
	}

	if err := h.users.SetNotificationSettings(r.Context(), user.ID, settings); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(settings)
}

// BlockUser adds a user to the acting user's blocklist.
//
// PUT /api/v1/users/{userID}/block
func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	targetID, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}
	if targetID == user.ID {
		rw.BadRequest("Cannot block yourself")
		return
	}

	if _, err := h.users.GetByID(r.Context(), targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("User not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	if err := h.users.Block(r.Context(), user.ID, targetID); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(map[string]string{"status": "blocked"})
}

// UnblockUser removes a user from the acting user's blocklist.
//
// DELETE /api/v1/users/{userID}/block
func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	targetID, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}

	if err := h.users.Unblock(r.Context(), user.ID, targetID); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(map[string]string{"status": "unblocked"})
}

// ToggleFavorite flips whether the listing is in the acting user's
// favorites and keeps the listing's favorite counter in step.
//
// POST /api/v1/listings/{listingID}/favorite
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	listingID, ok := objectIDParam(w, r, "listingID")
	if !ok {
		return
	}

	listing, err := h.listings.GetByID(r.Context(), listingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Listing not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	favorited, err := h.users.ToggleFavorite(r.Context(), user.ID, listingID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	delta := int64(-1)
	if favorited {
		delta = 1
	}
	if err := h.listings.IncFavoriteCount(r.Context(), listingID, delta); err != nil {
		logging.CtxWarn(r.Context()).Err(err).Str("listing_id", listingID.Hex()).Msg("Favorite counter update failed")
	}

	if favorited && h.notifier != nil {
		h.notifier.ListingFaved(r.Context(), user, listing)
	}

	rw.Success(models.FavoriteToggleResponse{
		ListingID: listingID.Hex(),
		Favorited: favorited,
	})
}

// ListFavorites returns the acting user's favorited listings.
//
// GET /api/v1/users/me/favorites
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	ids, err := h.users.FavoriteIDs(r.Context(), user.ID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	listings, err := h.listings.GetMany(r.Context(), ids)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	// Sold or suspended favorites stay in the list on the clients, but
	// only visible ones are returned here.
	visible := listings[:0]
	for _, l := range listings {
		if l.Visible() {
			visible = append(visible, l)
		}
	}
	rw.Success(visible)
}

// ListUserRatings returns the ratings a user has received.
//
// GET /api/v1/users/{userID}/ratings
func (h *Handler) ListUserRatings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}
	limit, offset := h.pagination(r)

	ratings, err := h.ratings.ListForUser(r.Context(), id, limit, offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithPagination(ratings, pageMeta(-1, len(ratings), limit, offset))
}

// RateUser records the acting user's rating of another user and
// refreshes the rated user's summary.
//
// POST /api/v1/users/{userID}/ratings
func (h *Handler) RateUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	ratedID, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}
	if ratedID == user.ID {
		rw.BadRequest("Cannot rate yourself")
		return
	}

	var req models.RateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.users.GetByID(r.Context(), ratedID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("User not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rating := &models.Rating{
		RaterID: user.ID,
		RatedID: ratedID,
		Stars:   req.Stars,
		Comment: req.Comment,
	}
	if req.ListingID != "" {
		rating.ListingID = mustObjectID(req.ListingID)
	}

	created, err := h.ratings.Upsert(r.Context(), rating)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	summary, err := h.ratings.Recompute(r.Context(), ratedID)
	if err != nil {
		logging.CtxError(r.Context()).Err(err).Str("user_id", ratedID.Hex()).Msg("Rating recompute failed")
	}

	if created && h.notifier != nil {
		h.notifier.RatingReceived(r.Context(), user, rating)
	}

	rw.Success(map[string]interface{}{
		"rating":  rating,
		"summary": summary,
	})
}
