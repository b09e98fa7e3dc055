// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow records that FollowerID follows FolloweeID. A unique compound
// index on (follower_id, followee_id) makes follows idempotent.
type Follow struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FollowerID primitive.ObjectID `bson:"follower_id" json:"follower_id"`
	FolloweeID primitive.ObjectID `bson:"followee_id" json:"followee_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Rating is one user's rating of another, optionally tied to a listing.
// A unique compound index on (rater_id, rated_id, listing_id) keeps one
// rating per pair per listing; re-rating updates in place.
type Rating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RaterID   primitive.ObjectID `bson:"rater_id" json:"rater_id"`
	RatedID   primitive.ObjectID `bson:"rated_id" json:"rated_id"`
	ListingID primitive.ObjectID `bson:"listing_id,omitempty" json:"listing_id,omitempty"`
	Stars     int                `bson:"stars" json:"stars"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Report statuses.
const (
	ReportStatusOpen      = "open"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// Report targets.
const (
	ReportTargetListing = "listing"
	ReportTargetUser    = "user"
	ReportTargetMessage = "message"
)

// Report is an abuse report filed by a user against a listing, user, or
// message. Moderators resolve or dismiss reports through the admin API.
type Report struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReporterID primitive.ObjectID `bson:"reporter_id" json:"reporter_id"`
	TargetType string             `bson:"target_type" json:"target_type"`
	TargetID   primitive.ObjectID `bson:"target_id" json:"target_id"`
	Reason     string             `bson:"reason" json:"reason"`
	Details    string             `bson:"details,omitempty" json:"details,omitempty"`

	Status     string              `bson:"status" json:"status"`
	ResolvedBy *primitive.ObjectID `bson:"resolved_by,omitempty" json:"resolved_by,omitempty"`
	Resolution string              `bson:"resolution,omitempty" json:"resolution,omitempty"`
	ResolvedAt *time.Time          `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
