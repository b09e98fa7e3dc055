// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/serajapp/seraj/internal/models"
)

func listingFixture(status string) (*models.Listing, *models.User) {
	seller := &models.User{ID: primitive.NewObjectID(), Name: "Seller", Role: models.RoleUser}
	listing := &models.Listing{
		ID:           primitive.NewObjectID(),
		SellerID:     seller.ID,
		Title:        "Mountain bike",
		Description:  "Barely used, great condition",
		Price:        250,
		Currency:     "USD",
		CategorySlug: "bikes",
		Status:       status,
	}
	return listing, seller
}

func getListing(t *testing.T, h *Handler, listing *models.Listing, viewer *models.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/"+listing.ID.Hex(), nil)
	req = withURLParam(authedRequest(req, viewer), "listingID", listing.ID.Hex())
	rec := httptest.NewRecorder()
	h.GetListing(rec, req)
	return rec
}

func TestGetListingVisibility(t *testing.T) {
	stranger := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	moderator := &models.User{ID: primitive.NewObjectID(), Role: models.RoleModerator}

	tests := []struct {
		name     string
		status   string
		viewer   string
		wantCode int
	}{
		{"active visible to anyone", models.ListingStatusActive, "stranger", http.StatusOK},
		{"sold hidden from stranger", models.ListingStatusSold, "stranger", http.StatusNotFound},
		{"sold visible to owner", models.ListingStatusSold, "owner", http.StatusOK},
		{"suspended hidden from stranger", models.ListingStatusSuspended, "stranger", http.StatusNotFound},
		{"suspended visible to moderator", models.ListingStatusSuspended, "moderator", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing, seller := listingFixture(tt.status)
			h := newTestHandler(t)
			h.listings = newFakeListingStore(listing)

			var viewer *models.User
			switch tt.viewer {
			case "owner":
				viewer = seller
			case "moderator":
				viewer = moderator
			default:
				viewer = stranger
			}

			rec := getListing(t, h, listing, viewer)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestCreateListingUnknownCategory(t *testing.T) {
	seller := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	h := newTestHandler(t)

	body := `{"title":"Mountain bike","description":"Barely used, great condition",` +
		`"price":250,"currency":"USD","category_slug":"no-such-category"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", newJSONBody(body))
	req = authedRequest(req, seller)
	rec := httptest.NewRecorder()
	h.CreateListing(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateListingInheritsSellerCity(t *testing.T) {
	seller := &models.User{
		ID:   primitive.NewObjectID(),
		Role: models.RoleUser,
		City: "Baghdad",
	}
	h := newTestHandler(t)
	h.categories = newFakeCategoryStore(&models.Category{Slug: "bikes", Name: "Bikes", Active: true})

	body := `{"title":"Mountain bike","description":"Barely used, great condition",` +
		`"price":250,"currency":"USD","category_slug":"bikes"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", newJSONBody(body))
	req = authedRequest(req, seller)
	rec := httptest.NewRecorder()
	h.CreateListing(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}

	store := h.listings.(*fakeListingStore)
	if len(store.byID) != 1 {
		t.Fatalf("created %d listings, want 1", len(store.byID))
	}
	for _, l := range store.byID {
		if l.City != "Baghdad" {
			t.Errorf("city = %q, want inherited %q", l.City, "Baghdad")
		}
		if l.Status != models.ListingStatusActive {
			t.Errorf("status = %q, want active", l.Status)
		}
	}
}

func TestUpdateListingRules(t *testing.T) {
	t.Run("sold listings cannot be edited", func(t *testing.T) {
		listing, seller := listingFixture(models.ListingStatusSold)
		h := newTestHandler(t)
		h.listings = newFakeListingStore(listing)

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/listings/"+listing.ID.Hex(),
			newJSONBody(`{"price":300}`))
		req = withURLParam(authedRequest(req, seller), "listingID", listing.ID.Hex())
		rec := httptest.NewRecorder()
		h.UpdateListing(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("strangers cannot edit", func(t *testing.T) {
		listing, _ := listingFixture(models.ListingStatusActive)
		stranger := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
		h := newTestHandler(t)
		h.listings = newFakeListingStore(listing)

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/listings/"+listing.ID.Hex(),
			newJSONBody(`{"price":300}`))
		req = withURLParam(authedRequest(req, stranger), "listingID", listing.ID.Hex())
		rec := httptest.NewRecorder()
		h.UpdateListing(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("empty update rejected", func(t *testing.T) {
		listing, seller := listingFixture(models.ListingStatusActive)
		h := newTestHandler(t)
		h.listings = newFakeListingStore(listing)

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/listings/"+listing.ID.Hex(),
			newJSONBody(`{}`))
		req = withURLParam(authedRequest(req, seller), "listingID", listing.ID.Hex())
		rec := httptest.NewRecorder()
		h.UpdateListing(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestMarkListingSold(t *testing.T) {
	listing, seller := listingFixture(models.ListingStatusActive)
	h := newTestHandler(t)
	h.listings = newFakeListingStore(listing)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/"+listing.ID.Hex()+"/sold", nil)
	req = withURLParam(authedRequest(req, seller), "listingID", listing.ID.Hex())
	rec := httptest.NewRecorder()
	h.MarkListingSold(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if listing.Status != models.ListingStatusSold {
		t.Errorf("status = %q, want sold", listing.Status)
	}

	// Selling twice conflicts.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/listings/"+listing.ID.Hex()+"/sold", nil)
	req = withURLParam(authedRequest(req, seller), "listingID", listing.ID.Hex())
	rec = httptest.NewRecorder()
	h.MarkListingSold(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("second sell status = %d, want 409", rec.Code)
	}
}

func TestSearchListingsTextAndRadiusConflict(t *testing.T) {
	h := newTestHandler(t)

	// Mongo cannot combine $text and $nearSphere in one filter, so the
	// combination must fail fast instead of becoming a database error.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings?q=bicycle&lat=33.3&lng=44.4&radius_km=10", nil)
	rec := httptest.NewRecorder()
	h.SearchListings(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	// Either filter alone stays valid.
	for _, query := range []string{"?q=bicycle", "?lat=33.3&lng=44.4&radius_km=10"} {
		req = httptest.NewRequest(http.MethodGet, "/api/v1/listings"+query, nil)
		rec = httptest.NewRecorder()
		h.SearchListings(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", query, rec.Code)
		}
	}
}

func TestSearchListingsInvalidSellerID(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings?seller_id=garbage", nil)
	rec := httptest.NewRecorder()
	h.SearchListings(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
