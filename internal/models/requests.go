// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package models

// Request DTOs. Validation tags are enforced by internal/validation
// before handlers touch the payload; custom tags objectid, currency,
// phone, and appversion are registered there.

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	City     string `json:"city" validate:"omitempty,max=80"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PasswordResetRequest asks for a reset token to be emailed.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm redeems a reset token for a new password.
type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required,min=16"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// UpdateProfileRequest updates the acting user's profile. Nil fields are
// left untouched.
type UpdateProfileRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=2,max=80"`
	Bio       *string  `json:"bio" validate:"omitempty,max=500"`
	City      *string  `json:"city" validate:"omitempty,max=80"`
	Phone     *string  `json:"phone" validate:"omitempty,phone"`
	AvatarURL *string  `json:"avatar_url" validate:"omitempty,url,max=2048"`
	Lat       *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng       *float64 `json:"lng" validate:"omitempty,min=-180,max=180"`
}

// PushTokenRequest registers a device token with the push gateway.
type PushTokenRequest struct {
	Token    string `json:"token" validate:"required,min=8,max=4096"`
	Platform string `json:"platform" validate:"required,oneof=ios android"`
}

// CreateListingRequest creates a listing. Images are URLs on the media
// host; the server never accepts binary uploads.
type CreateListingRequest struct {
	Title        string   `json:"title" validate:"required,min=3,max=120"`
	Description  string   `json:"description" validate:"required,min=10,max=5000"`
	Price        float64  `json:"price" validate:"required,gt=0,lte=100000000"`
	Currency     string   `json:"currency" validate:"required,currency"`
	CategorySlug string   `json:"category_slug" validate:"required,min=2,max=60"`
	Images       []string `json:"images" validate:"omitempty,max=10,dive,url,max=2048"`
	City         string   `json:"city" validate:"omitempty,max=80"`
	Lat          *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng          *float64 `json:"lng" validate:"omitempty,min=-180,max=180"`
}

// UpdateListingRequest updates a listing. Nil fields are left untouched.
type UpdateListingRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=3,max=120"`
	Description  *string  `json:"description" validate:"omitempty,min=10,max=5000"`
	Price        *float64 `json:"price" validate:"omitempty,gt=0,lte=100000000"`
	Currency     *string  `json:"currency" validate:"omitempty,currency"`
	CategorySlug *string  `json:"category_slug" validate:"omitempty,min=2,max=60"`
	Images       []string `json:"images" validate:"omitempty,max=10,dive,url,max=2048"`
	City         *string  `json:"city" validate:"omitempty,max=80"`
	Lat          *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng          *float64 `json:"lng" validate:"omitempty,min=-180,max=180"`
}

// StartConversationRequest opens a conversation about a listing with its
// seller, with an initial message.
type StartConversationRequest struct {
	ListingID string `json:"listing_id" validate:"required,objectid"`
	Body      string `json:"body" validate:"required,min=1,max=2000"`
}

// SendMessageRequest appends a message to an existing conversation.
type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

// RateUserRequest rates another user, optionally tied to a listing.
type RateUserRequest struct {
	Stars     int    `json:"stars" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"omitempty,max=1000"`
	ListingID string `json:"listing_id" validate:"omitempty,objectid"`
}

// CreateReportRequest files an abuse report.
type CreateReportRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=listing user message"`
	TargetID   string `json:"target_id" validate:"required,objectid"`
	Reason     string `json:"reason" validate:"required,min=3,max=120"`
	Details    string `json:"details" validate:"omitempty,max=2000"`
}

// ResolveReportRequest closes a report (moderator only).
type ResolveReportRequest struct {
	Status     string `json:"status" validate:"required,oneof=resolved dismissed"`
	Resolution string `json:"resolution" validate:"omitempty,max=1000"`
}

// CategoryRequest creates or updates a category (admin only).
type CategoryRequest struct {
	Slug       string `json:"slug" validate:"required,min=2,max=60,lowercase"`
	Name       string `json:"name" validate:"required,min=2,max=80"`
	NameAr     string `json:"name_ar" validate:"omitempty,max=80"`
	IconURL    string `json:"icon_url" validate:"omitempty,url,max=2048"`
	ParentSlug string `json:"parent_slug" validate:"omitempty,min=2,max=60"`
	Order      int    `json:"order" validate:"min=0,max=10000"`
	Active     bool   `json:"active"`
}

// AppVersionRequest sets the version gate for a platform (admin only).
type AppVersionRequest struct {
	Platform       string `json:"platform" validate:"required,oneof=ios android"`
	MinimumVersion string `json:"minimum_version" validate:"required,appversion"`
	LatestVersion  string `json:"latest_version" validate:"required,appversion"`
	StoreURL       string `json:"store_url" validate:"omitempty,url,max=2048"`
}

// VersionCheckRequest is the version gate query, bound from query
// parameters.
type VersionCheckRequest struct {
	Platform string `json:"platform" validate:"required,oneof=ios android"`
	Version  string `json:"version" validate:"required,appversion"`
}

// TokenResponse is returned by login, register, and refresh.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	User      *User  `json:"user,omitempty"`
}

// UnreadCountResponse reports the number of unread notifications.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// FavoriteToggleResponse reports the new favorite state after a toggle.
type FavoriteToggleResponse struct {
	ListingID string `json:"listing_id"`
	Favorited bool   `json:"favorited"`
}
