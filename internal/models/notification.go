// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types. The type decides which per-user settings switch
// gates delivery during fan-out.
const (
	NotificationNewListing   = "new_listing"
	NotificationNewMessage   = "new_message"
	NotificationNewFollower  = "new_follower"
	NotificationNewRating    = "new_rating"
	NotificationListingFaved = "listing_faved"
)

// Notification is a per-recipient notification document produced by the
// fan-out service. SubjectID points at the listing, conversation, or
// rating the event concerns, depending on Type.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipient_id"`
	ActorID     primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	Type        string             `bson:"type" json:"type"`
	SubjectID   primitive.ObjectID `bson:"subject_id,omitempty" json:"subject_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Body        string             `bson:"body,omitempty" json:"body,omitempty"`
	Read        bool               `bson:"read" json:"read"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// WantsNotification reports whether the settings allow a notification of
// the given type.
func (s NotificationSettings) WantsNotification(notifType string) bool {
	switch notifType {
	case NotificationNewListing:
		return s.NewListing
	case NotificationNewMessage:
		return s.NewMessage
	case NotificationNewFollower:
		return s.NewFollower
	case NotificationNewRating:
		return s.NewRating
	case NotificationListingFaved:
		return s.ListingFaved
	}
	return false
}
