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

// NotificationStore persists per-user notification documents.
type NotificationStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// InsertMany writes a batch of notifications in one call. The fan-out
// service slices its recipient set into batches before calling this.
func (s *NotificationStore) InsertMany(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	docs := make([]interface{}, len(notifications))
	for i := range notifications {
		notifications[i].CreatedAt = now
		docs[i] = &notifications[i]
	}

	start := time.Now()
	_, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	metrics.ObserveMongoOp("insert_many", collNotifications, start, err)
	return wrapErr(err)
}

// ListForUser returns one page of the user's notifications, newest
// first.
func (s *NotificationStore) ListForUser(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, bson.M{"recipient_id": userID}, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	notifications := make([]models.Notification, 0, limit)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, wrapErr(err)
	}
	return notifications, nil
}

// UnreadCount counts the user's unread notifications.
func (s *NotificationStore) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.coll.CountDocuments(ctx, bson.M{"recipient_id": userID, "read": false})
	if err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// MarkRead flags one notification as read. Scoped to the recipient so a
// user cannot touch someone else's notifications.
func (s *NotificationStore) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "recipient_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of the user as read.
func (s *NotificationStore) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.UpdateMany(ctx,
		bson.M{"recipient_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, wrapErr(err)
	}
	return res.ModifiedCount, nil
}

// Delete removes one notification owned by the user.
func (s *NotificationStore) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "recipient_id": userID})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
