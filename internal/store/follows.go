// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/serajapp/seraj/internal/models"
)

// FollowStore persists follower relationships.
type FollowStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// Follow records that follower follows followee. Returns false when the
// relationship already existed; the unique index makes the operation
// idempotent.
func (s *FollowStore) Follow(ctx context.Context, followerID, followeeID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	follow := models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.coll.InsertOne(ctx, &follow)
	if err != nil {
		if errors.Is(wrapErr(err), ErrDuplicate) {
			return false, nil
		}
		return false, wrapErr(err)
	}
	return true, nil
}

// Unfollow removes the relationship. Returns false when it did not
// exist.
func (s *FollowStore) Unfollow(ctx context.Context, followerID, followeeID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{
		"follower_id": followerID,
		"followee_id": followeeID,
	})
	if err != nil {
		return false, wrapErr(err)
	}
	return res.DeletedCount > 0, nil
}

// IsFollowing reports whether the relationship exists.
func (s *FollowStore) IsFollowing(ctx context.Context, followerID, followeeID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.coll.CountDocuments(ctx, bson.M{
		"follower_id": followerID,
		"followee_id": followeeID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, wrapErr(err)
	}
	return count > 0, nil
}

// Followers returns one page of the user's followers, newest first.
func (s *FollowStore) Followers(ctx context.Context, followeeID primitive.ObjectID, limit, offset int) ([]models.Follow, error) {
	return s.list(ctx, bson.M{"followee_id": followeeID}, limit, offset)
}

// Following returns one page of the users this user follows.
func (s *FollowStore) Following(ctx context.Context, followerID primitive.ObjectID, limit, offset int) ([]models.Follow, error) {
	return s.list(ctx, bson.M{"follower_id": followerID}, limit, offset)
}

func (s *FollowStore) list(ctx context.Context, filter bson.M, limit, offset int) ([]models.Follow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	follows := make([]models.Follow, 0, limit)
	if err := cursor.All(ctx, &follows); err != nil {
		return nil, wrapErr(err)
	}
	return follows, nil
}

// FollowerIDs returns every follower of the user. Used by notification
// fan-out, which batches the result itself.
func (s *FollowStore) FollowerIDs(ctx context.Context, followeeID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"follower_id": 1})
	cursor, err := s.coll.Find(ctx, bson.M{"followee_id": followeeID}, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		FollowerID primitive.ObjectID `bson:"follower_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, wrapErr(err)
	}

	ids := make([]primitive.ObjectID, len(rows))
	for i, r := range rows {
		ids[i] = r.FollowerID
	}
	return ids, nil
}
