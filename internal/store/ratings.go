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

// RatingStore persists ratings and maintains the denormalized rating
// summary on user documents.
type RatingStore struct {
	coll    *mongo.Collection
	users   *mongo.Collection
	timeout time.Duration
}

// Upsert writes the rater's rating of the rated user for a listing,
// replacing any previous rating for the same triple. Returns true when
// a new rating was created rather than updated.
func (s *RatingStore) Upsert(ctx context.Context, rating *models.Rating) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{
		"rater_id":   rating.RaterID,
		"rated_id":   rating.RatedID,
		"listing_id": rating.ListingID,
	}
	update := bson.M{
		"$set": bson.M{
			"stars":      rating.Stars,
			"comment":    rating.Comment,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}

	start := time.Now()
	res, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	metrics.ObserveMongoOp("upsert", collRatings, start, err)
	if err != nil {
		return false, wrapErr(err)
	}
	if res.UpsertedID != nil {
		if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
			rating.ID = oid
		}
		return true, nil
	}
	return false, nil
}

// ListForUser returns one page of ratings received by the user, newest
// first.
func (s *RatingStore) ListForUser(ctx context.Context, ratedID primitive.ObjectID, limit, offset int) ([]models.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, bson.M{"rated_id": ratedID}, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	ratings := make([]models.Rating, 0, limit)
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, wrapErr(err)
	}
	return ratings, nil
}

// Recompute aggregates the user's ratings and writes the fresh summary
// onto the user document. Called after every rating upsert.
func (s *RatingStore) Recompute(ctx context.Context, ratedID primitive.ObjectID) (models.RatingSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"rated_id": ratedID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$stars"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	start := time.Now()
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	metrics.ObserveMongoOp("aggregate", collRatings, start, err)
	if err != nil {
		return models.RatingSummary{}, wrapErr(err)
	}
	defer cursor.Close(ctx)

	var out []struct {
		Average float64 `bson:"average"`
		Count   int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return models.RatingSummary{}, wrapErr(err)
	}

	summary := models.RatingSummary{}
	if len(out) > 0 {
		summary.Average = out[0].Average
		summary.Count = out[0].Count
	}

	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": ratedID},
		bson.M{"$set": bson.M{"rating": summary}},
	)
	if err != nil {
		return summary, wrapErr(err)
	}
	return summary, nil
}
