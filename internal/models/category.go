// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a listing category. Categories form a two-level tree via
// ParentSlug; the mobile clients render them sorted by Order.
type Category struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug       string             `bson:"slug" json:"slug"`
	Name       string             `bson:"name" json:"name"`
	NameAr     string             `bson:"name_ar,omitempty" json:"name_ar,omitempty"`
	IconURL    string             `bson:"icon_url,omitempty" json:"icon_url,omitempty"`
	ParentSlug string             `bson:"parent_slug,omitempty" json:"parent_slug,omitempty"`
	Order      int                `bson:"order" json:"order"`
	Active     bool               `bson:"active" json:"active"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// App version check outcomes.
const (
	VersionOK             = "ok"
	VersionUpdateOptional = "update_available"
	VersionUpdateRequired = "update_required"
)

// AppVersion is the per-platform version gate document. One document per
// platform ("ios", "android").
type AppVersion struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Platform       string             `bson:"platform" json:"platform"`
	MinimumVersion string             `bson:"minimum_version" json:"minimum_version"`
	LatestVersion  string             `bson:"latest_version" json:"latest_version"`
	StoreURL       string             `bson:"store_url,omitempty" json:"store_url,omitempty"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// VersionCheckResult is the version gate response.
type VersionCheckResult struct {
	Status        string `json:"status"`
	LatestVersion string `json:"latest_version,omitempty"`
	StoreURL      string `json:"store_url,omitempty"`
}
