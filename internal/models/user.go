// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

// Package models defines the document types persisted in MongoDB and the
// request/response DTOs exchanged with clients. Validation rules live in
// struct tags consumed by internal/validation.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude],
// matching MongoDB's 2dsphere index expectations.
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from latitude and longitude.
func NewGeoPoint(lat, lng float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

// NotificationSettings gates which events produce notification documents
// for a user. All switches default to on for new accounts.
type NotificationSettings struct {
	NewListing   bool `bson:"new_listing" json:"new_listing"`
	NewMessage   bool `bson:"new_message" json:"new_message"`
	NewFollower  bool `bson:"new_follower" json:"new_follower"`
	NewRating    bool `bson:"new_rating" json:"new_rating"`
	ListingFaved bool `bson:"listing_faved" json:"listing_faved"`
}

// DefaultNotificationSettings returns the settings for a new account.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		NewListing:   true,
		NewMessage:   true,
		NewFollower:  true,
		NewRating:    true,
		ListingFaved: true,
	}
}

// RatingSummary is the denormalized rating aggregate stored on the user
// document, recomputed after every new rating.
type RatingSummary struct {
	Average float64 `bson:"average" json:"average"`
	Count   int64   `bson:"count" json:"count"`
}

// User is a registered account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	AvatarURL    string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	City         string             `bson:"city,omitempty" json:"city,omitempty"`
	Location     *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`

	Role      string `bson:"role" json:"role"`
	Suspended bool   `bson:"suspended" json:"-"`

	// PushToken is the device token registered with the push gateway;
	// PushPlatform tells the gateway which delivery channel to use.
	PushToken    string `bson:"push_token,omitempty" json:"-"`
	PushPlatform string `bson:"push_platform,omitempty" json:"-"`

	Notifications NotificationSettings `bson:"notifications" json:"notifications"`

	// Blocked holds user IDs this user has blocked. Blocked users cannot
	// message this user and are skipped during notification fan-out.
	Blocked []primitive.ObjectID `bson:"blocked,omitempty" json:"-"`

	// Favorites holds listing IDs this user has favorited.
	Favorites []primitive.ObjectID `bson:"favorites,omitempty" json:"-"`

	Rating RatingSummary `bson:"rating" json:"rating"`

	FollowerCount  int64 `bson:"follower_count" json:"follower_count"`
	FollowingCount int64 `bson:"following_count" json:"following_count"`

	LastSeenAt time.Time `bson:"last_seen_at" json:"last_seen_at"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// HasBlocked reports whether the user has blocked the given user ID.
func (u *User) HasBlocked(id primitive.ObjectID) bool {
	for _, b := range u.Blocked {
		if b == id {
			return true
		}
	}
	return false
}

// PublicProfile is the subset of User safe to show other users.
type PublicProfile struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name"`
	AvatarURL      string             `json:"avatar_url,omitempty"`
	Bio            string             `json:"bio,omitempty"`
	City           string             `json:"city,omitempty"`
	Rating         RatingSummary      `json:"rating"`
	FollowerCount  int64              `json:"follower_count"`
	FollowingCount int64              `json:"following_count"`
	MemberSince    time.Time          `json:"member_since"`
}

// Public converts the user to its public profile view.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:             u.ID,
		Name:           u.Name,
		AvatarURL:      u.AvatarURL,
		Bio:            u.Bio,
		City:           u.City,
		Rating:         u.Rating,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
		MemberSince:    u.CreatedAt,
	}
}
