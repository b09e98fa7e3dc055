// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation is a two-party message thread attached to a listing.
// Unread counters are keyed by participant ID hex so a single $inc
// update can bump the right counter.
type Conversation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ListingID primitive.ObjectID `bson:"listing_id" json:"listing_id"`

	// Participants always holds exactly two user IDs: buyer then seller.
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`

	LastMessage   string    `bson:"last_message,omitempty" json:"last_message,omitempty"`
	LastMessageAt time.Time `bson:"last_message_at" json:"last_message_at"`

	Unread map[string]int64 `bson:"unread,omitempty" json:"unread,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasParticipant reports whether the given user takes part in the
// conversation.
func (c *Conversation) HasParticipant(id primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not the given user.
// Returns the zero ObjectID if the user is not a participant.
func (c *Conversation) OtherParticipant(id primitive.ObjectID) primitive.ObjectID {
	if !c.HasParticipant(id) {
		return primitive.NilObjectID
	}
	for _, p := range c.Participants {
		if p != id {
			return p
		}
	}
	return primitive.NilObjectID
}

// Message is a single message inside a conversation.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"conversation_id"`
	SenderID       primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	Body           string             `bson:"body" json:"body"`
	Read           bool               `bson:"read" json:"read"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
