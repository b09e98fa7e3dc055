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

	"github.com/serajapp/seraj/internal/models"
)

// CategoryStore persists the category tree.
type CategoryStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// ListActive returns the active categories in display order.
func (s *CategoryStore) ListActive(ctx context.Context) ([]models.Category, error) {
	return s.list(ctx, bson.M{"active": true})
}

// ListAll returns every category, including inactive ones. Admin use.
func (s *CategoryStore) ListAll(ctx context.Context) ([]models.Category, error) {
	return s.list(ctx, bson.M{})
}

func (s *CategoryStore) list(ctx context.Context, filter bson.M) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "slug", Value: 1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, wrapErr(err)
	}
	return categories, nil
}

// GetBySlug loads a category by its slug.
func (s *CategoryStore) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var category models.Category
	err := s.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&category)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &category, nil
}

// Create inserts a new category. The unique slug index rejects
// duplicates.
func (s *CategoryStore) Create(ctx context.Context, category *models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	res, err := s.coll.InsertOne(ctx, category)
	if err != nil {
		return wrapErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		category.ID = oid
	}
	return nil
}

// Update applies field updates to the category with the given slug.
func (s *CategoryStore) Update(ctx context.Context, slug string, sets bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sets["updated_at"] = time.Now().UTC()
	res, err := s.coll.UpdateOne(ctx, bson.M{"slug": slug}, bson.M{"$set": sets})
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category by slug.
func (s *CategoryStore) Delete(ctx context.Context, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
