// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing lifecycle states.
const (
	ListingStatusDraft     = "draft"
	ListingStatusActive    = "active"
	ListingStatusSold      = "sold"
	ListingStatusSuspended = "suspended"
)

// ValidListingStatus reports whether s is a known lifecycle state.
func ValidListingStatus(s string) bool {
	switch s {
	case ListingStatusDraft, ListingStatusActive, ListingStatusSold, ListingStatusSuspended:
		return true
	}
	return false
}

// Listing is an item offered for sale.
//
// Images are URLs on the external media host; uploads never pass through
// this server. Text search runs over Title and Description via the
// collection's text index, geo queries via the 2dsphere index on Location.
type Listing struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SellerID primitive.ObjectID `bson:"seller_id" json:"seller_id"`

	Title       string  `bson:"title" json:"title"`
	Description string  `bson:"description" json:"description"`
	Price       float64 `bson:"price" json:"price"`
	Currency    string  `bson:"currency" json:"currency"`

	CategorySlug string    `bson:"category_slug" json:"category_slug"`
	Images       []string  `bson:"images,omitempty" json:"images,omitempty"`
	City         string    `bson:"city,omitempty" json:"city,omitempty"`
	Location     *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`

	Status string `bson:"status" json:"status"`

	FavoriteCount int64 `bson:"favorite_count" json:"favorite_count"`
	ViewCount     int64 `bson:"view_count" json:"view_count"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	SoldAt    *time.Time `bson:"sold_at,omitempty" json:"sold_at,omitempty"`
}

// Visible reports whether the listing should appear in public search
// results and profiles.
func (l *Listing) Visible() bool {
	return l.Status == ListingStatusActive
}

// ListingFilter collects the optional search criteria supported by the
// listing search endpoint. Zero values mean "not filtered".
type ListingFilter struct {
	Query        string
	CategorySlug string
	City         string
	SellerID     primitive.ObjectID
	Status       string
	MinPrice     float64
	MaxPrice     float64

	// Geo radius search. RadiusKm > 0 enables it; Lat/Lng are the center.
	Lat      float64
	Lng      float64
	RadiusKm float64

	// Sort is one of "newest", "price_asc", "price_desc".
	Sort string

	Limit  int
	Offset int
}
