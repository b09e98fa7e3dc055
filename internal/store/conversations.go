// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/serajapp/seraj/internal/metrics"
	"github.com/serajapp/seraj/internal/models"
)

// ConversationStore persists conversations and their messages.
type ConversationStore struct {
	convs   *mongo.Collection
	msgs    *mongo.Collection
	timeout time.Duration
}

// FindOrCreate returns the conversation between buyer and seller about a
// listing, creating it on first contact. The participant order is fixed
// as [buyer, seller] so the same pair never produces two documents.
func (s *ConversationStore) FindOrCreate(ctx context.Context, listingID, buyerID, sellerID primitive.ObjectID) (*models.Conversation, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{
		"listing_id":   listingID,
		"participants": bson.M{"$all": bson.A{buyerID, sellerID}},
	}

	var conv models.Conversation
	err := s.convs.FindOne(ctx, filter).Decode(&conv)
	if err == nil {
		return &conv, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, wrapErr(err)
	}

	now := time.Now().UTC()
	conv = models.Conversation{
		ListingID:    listingID,
		Participants: []primitive.ObjectID{buyerID, sellerID},
		Unread:       map[string]int64{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := s.convs.InsertOne(ctx, &conv)
	if err != nil {
		return nil, false, wrapErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		conv.ID = oid
	}
	return &conv, true, nil
}

// GetByID loads a conversation by ID.
func (s *ConversationStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var conv models.Conversation
	err := s.convs.FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &conv, nil
}

// ListForUser returns the user's conversations, most recently active
// first.
func (s *ConversationStore) ListForUser(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "last_message_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	start := time.Now()
	cursor, err := s.convs.Find(ctx, bson.M{"participants": userID}, opts)
	metrics.ObserveMongoOp("find", collConversations, start, err)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	convs := make([]models.Conversation, 0, limit)
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, wrapErr(err)
	}
	return convs, nil
}

// InsertMessage appends a message and updates the conversation's
// last-message snapshot, bumping the recipient's unread counter.
func (s *ConversationStore) InsertMessage(ctx context.Context, msg *models.Message, recipientID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	now := time.Now().UTC()
	msg.CreatedAt = now

	res, err := s.msgs.InsertOne(ctx, msg)
	metrics.ObserveMongoOp("insert", collMessages, start, err)
	if err != nil {
		return wrapErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}

	update := bson.M{
		"$set": bson.M{
			"last_message":    msg.Body,
			"last_message_at": now,
			"updated_at":      now,
		},
		"$inc": bson.M{"unread." + recipientID.Hex(): 1},
	}
	_, err = s.convs.UpdateOne(ctx, bson.M{"_id": msg.ConversationID}, update)
	return wrapErr(err)
}

// MessagesForConversation returns one page of messages, newest first.
func (s *ConversationStore) MessagesForConversation(ctx context.Context, convID primitive.ObjectID, limit, offset int) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := s.msgs.Find(ctx, bson.M{"conversation_id": convID}, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	msgs := make([]models.Message, 0, limit)
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, wrapErr(err)
	}
	return msgs, nil
}

// MarkRead flags the other side's messages as read and zeroes the
// reader's unread counter.
func (s *ConversationStore) MarkRead(ctx context.Context, convID, readerID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.msgs.UpdateMany(ctx,
		bson.M{
			"conversation_id": convID,
			"sender_id":       bson.M{"$ne": readerID},
			"read":            false,
		},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return wrapErr(err)
	}

	_, err = s.convs.UpdateOne(ctx,
		bson.M{"_id": convID},
		bson.M{"$set": bson.M{"unread." + readerID.Hex(): 0}},
	)
	return wrapErr(err)
}

// UnreadTotal sums the user's unread counters across all conversations.
func (s *ConversationStore) UnreadTotal(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	field := "$unread." + userID.Hex()
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"participants": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": bson.M{"$ifNull": bson.A{field, 0}}},
		}}},
	}

	cursor, err := s.convs.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, wrapErr(err)
	}
	defer cursor.Close(ctx)

	var out []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, wrapErr(err)
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}
