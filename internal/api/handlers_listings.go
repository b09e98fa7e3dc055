// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/serajapp/seraj/internal/logging"
	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/store"
)

// CreateListing publishes a new listing for the acting user and fans
// out a notification to their followers.
//
// POST /api/v1/listings
func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	var req models.CreateListingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.categories.GetBySlug(r.Context(), req.CategorySlug); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.BadRequest("Unknown category")
			return
		}
		rw.DatabaseError(err)
		return
	}

	listing := &models.Listing{
		SellerID:     user.ID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Currency:     req.Currency,
		CategorySlug: req.CategorySlug,
		Images:       req.Images,
		City:         req.City,
		Status:       models.ListingStatusActive,
	}
	if listing.City == "" {
		listing.City = user.City
	}
	if req.Lat != nil && req.Lng != nil {
		listing.Location = models.NewGeoPoint(*req.Lat, *req.Lng)
	} else if user.Location != nil {
		listing.Location = user.Location
	}

	if err := h.listings.Create(r.Context(), listing); err != nil {
		rw.DatabaseError(err)
		return
	}

	if h.notifier != nil {
		h.notifier.ListingPublished(r.Context(), user, listing)
	}

	rw.Created(listing)
}

// GetListing returns one listing and bumps its view counter.
//
// GET /api/v1/listings/{listingID}
func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := objectIDParam(w, r, "listingID")
	if !ok {
		return
	}

	listing, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Listing not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	// Non-visible listings are only shown to their seller and staff.
	if !listing.Visible() && !h.canManageListing(r, listing) {
		rw.NotFound("Listing not found")
		return
	}

	if err := h.listings.IncrementViews(r.Context(), id); err != nil {
		logging.CtxWarn(r.Context()).Err(err).Str("listing_id", id.Hex()).Msg("View counter update failed")
	}

	rw.Success(listing)
}

// SearchListings runs the filtered listing search.
//
// GET /api/v1/listings
func (h *Handler) SearchListings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, offset := h.pagination(r)
	q := r.URL.Query()

	filter := models.ListingFilter{
		Query:        q.Get("q"),
		CategorySlug: q.Get("category"),
		City:         q.Get("city"),
		MinPrice:     queryFloat(r, "min_price"),
		MaxPrice:     queryFloat(r, "max_price"),
		Lat:          queryFloat(r, "lat"),
		Lng:          queryFloat(r, "lng"),
		RadiusKm:     queryFloat(r, "radius_km"),
		Sort:         q.Get("sort"),
		Limit:        limit,
		Offset:       offset,
	}
	// Mongo refuses filters combining $text and $nearSphere, so the
	// combination is rejected up front instead of surfacing as a
	// database error.
	if filter.Query != "" && filter.RadiusKm > 0 {
		rw.BadRequest("Text search and radius filters cannot be combined")
		return
	}
	if seller := q.Get("seller_id"); seller != "" {
		id, err := primitive.ObjectIDFromHex(seller)
		if err != nil {
			rw.BadRequest("Invalid seller_id")
			return
		}
		filter.SellerID = id
	}

	listings, total, err := h.listings.Search(r.Context(), filter)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	if filter.RadiusKm > 0 {
		total = -1
	}
	rw.SuccessWithPagination(listings, pageMeta(total, len(listings), limit, offset))
}

// MyListings returns the acting user's own listings in every state.
//
// GET /api/v1/users/me/listings
func (h *Handler) MyListings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)
	limit, offset := h.pagination(r)

	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidListingStatus(status) {
		rw.BadRequest("Invalid status")
		return
	}
	if status == "" {
		status = store.StatusAny
	}

	filter := models.ListingFilter{
		SellerID: user.ID,
		Status:   status,
		Limit:    limit,
		Offset:   offset,
	}

	listings, total, err := h.listings.Search(r.Context(), filter)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithPagination(listings, pageMeta(total, len(listings), limit, offset))
}

// UpdateListing updates fields of the acting user's listing.
//
// PATCH /api/v1/listings/{listingID}
func (h *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := objectIDParam(w, r, "listingID")
	if !ok {
		return
	}

	listing, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Listing not found")
			return
		}
		rw.DatabaseError(err)
		return
	}
	if !h.canManageListing(r, listing) {
		rw.Forbidden("Not your listing")
		return
	}
	if listing.Status == models.ListingStatusSold {
		rw.Conflict("Sold listings cannot be edited")
		return
	}

	var req models.UpdateListingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sets := bson.M{}
	if req.Title != nil {
		sets["title"] = *req.Title
	}
	if req.Description != nil {
		sets["description"] = *req.Description
	}
	if req.Price != nil {
		sets["price"] = *req.Price
	}
	if req.Currency != nil {
		sets["currency"] = *req.Currency
	}
	if req.CategorySlug != nil {
		if _, err := h.categories.GetBySlug(r.Context(), *req.CategorySlug); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				rw.BadRequest("Unknown category")
				return
			}
			rw.DatabaseError(err)
			return
		}
		sets["category_slug"] = *req.CategorySlug
	}
	if req.Images != nil {
		sets["images"] = req.Images
	}
	if req.City != nil {
		sets["city"] = *req.City
	}
	if req.Lat != nil && req.Lng != nil {
		sets["location"] = models.NewGeoPoint(*req.Lat, *req.Lng)
	}

	if len(sets) == 0 {
		rw.BadRequest("No fields to update")
		return
	}

	if err := h.listings.Update(r.Context(), id, sets); err != nil {
		rw.DatabaseError(err)
		return
	}

	updated, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(updated)
}

// DeleteListing removes the acting user's listing.
//
// DELETE /api/v1/listings/{listingID}
func (h *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := objectIDParam(w, r, "listingID")
	if !ok {
		return
	}

	listing, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Listing not found")
			return
		}
		rw.DatabaseError(err)
		return
	}
	if !h.canManageListing(r, listing) {
		rw.Forbidden("Not your listing")
		return
	}

	if err := h.listings.Delete(r.Context(), id); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.NoContent()
}

// MarkListingSold marks the acting user's listing as sold.
//
// POST /api/v1/listings/{listingID}/sold
func (h *Handler) MarkListingSold(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := objectIDParam(w, r, "listingID")
	if !ok {
		return
	}

	listing, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Listing not found")
			return
		}
		rw.DatabaseError(err)
		return
	}
	if !h.canManageListing(r, listing) {
		rw.Forbidden("Not your listing")
		return
	}
	if listing.Status == models.ListingStatusSold {
		rw.Conflict("Listing already sold")
		return
	}

	if err := h.listings.MarkSold(r.Context(), id); err != nil {
		rw.DatabaseError(err)
		return
	}

	updated, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(updated)
}

// canManageListing reports whether the acting user owns the listing or
// holds a staff role.
func (h *Handler) canManageListing(r *http.Request, listing *models.Listing) bool {
	user := currentUser(r)
	if user == nil {
		return false
	}
	if user.ID == listing.SellerID {
		return true
	}
	return user.Role == models.RoleModerator || user.Role == models.RoleAdmin
}
