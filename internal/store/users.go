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

	"github.com/serajapp/seraj/internal/metrics"
	"github.com/serajapp/seraj/internal/models"
)

// UserStore persists user documents.
type UserStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// Create inserts a new user. Returns ErrDuplicate when the email is
// already registered.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.LastSeenAt = now

	res, err := s.coll.InsertOne(ctx, user)
	metrics.ObserveMongoOp("insert", collUsers, start, err)
	if err != nil {
		return wrapErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// GetByID loads a user by ID.
func (s *UserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

// GetByEmail loads a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

// UpdateProfile applies the given profile field updates.
func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, sets bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sets["updated_at"] = time.Now().UTC()
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": sets})
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPassword replaces the stored password hash.
func (s *UserStore) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return s.UpdateProfile(ctx, id, bson.M{"password_hash": hash})
}

// SetPushToken registers the device push token and the platform the
// gateway needs to route deliveries.
func (s *UserStore) SetPushToken(ctx context.Context, id primitive.ObjectID, token, platform string) error {
	return s.UpdateProfile(ctx, id, bson.M{"push_token": token, "push_platform": platform})
}

// SetNotificationSettings replaces the notification switches.
func (s *UserStore) SetNotificationSettings(ctx context.Context, id primitive.ObjectID, settings models.NotificationSettings) error {
	return s.UpdateProfile(ctx, id, bson.M{"notifications": settings})
}

// SetSuspended flips the account suspension flag.
func (s *UserStore) SetSuspended(ctx context.Context, id primitive.ObjectID, suspended bool) error {
	return s.UpdateProfile(ctx, id, bson.M{"suspended": suspended})
}

// TouchLastSeen marks the session active by bumping last_seen_at.
func (s *UserStore) TouchLastSeen(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_seen_at": time.Now().UTC()}},
	)
	return wrapErr(err)
}

// Block adds target to the user's block list.
func (s *UserStore) Block(ctx context.Context, id, target primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"blocked": target}},
	)
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Unblock removes target from the user's block list.
func (s *UserStore) Unblock(ctx context.Context, id, target primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"blocked": target}},
	)
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFavorite adds the listing to the user's favorites, or removes
// it when already present. Returns the new favorited state.
func (s *UserStore) ToggleFavorite(ctx context.Context, id, listingID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// $addToSet reports via ModifiedCount whether the listing was new
	// in the set; absent means it was already favorited and gets pulled.
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"favorites": listingID}},
	)
	if err != nil {
		return false, wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}

	_, err = s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"favorites": listingID}},
	)
	if err != nil {
		return false, wrapErr(err)
	}
	return false, nil
}

// FavoriteIDs returns the user's favorited listing IDs.
func (s *UserStore) FavoriteIDs(ctx context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Favorites, nil
}

// IncFollowCounts adjusts the denormalized follower/following counters
// after a follow or unfollow.
func (s *UserStore) IncFollowCounts(ctx context.Context, followerID, followeeID primitive.ObjectID, delta int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{"$inc": bson.M{"following_count": delta}},
	); err != nil {
		return wrapErr(err)
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": followeeID},
		bson.M{"$inc": bson.M{"follower_count": delta}},
	)
	return wrapErr(err)
}

// SetRatingSummary writes the recomputed rating aggregate.
func (s *UserStore) SetRatingSummary(ctx context.Context, id primitive.ObjectID, summary models.RatingSummary) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"rating": summary}},
	)
	return wrapErr(err)
}

// GetMany loads the users with the given IDs. Used to hydrate profiles
// in list responses; missing IDs are silently skipped.
func (s *UserStore) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]*models.User{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	users := make(map[primitive.ObjectID]*models.User, len(ids))
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, wrapErr(err)
		}
		u := user
		users[u.ID] = &u
	}
	return users, wrapErr(cursor.Err())
}
