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

// StatusAny disables the status clause in listing queries. It is never
// stored on a document, so it cannot collide with a real status.
const StatusAny = "all"

// ListingStore persists listing documents.
type ListingStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// Create inserts a new listing.
func (s *ListingStore) Create(ctx context.Context, listing *models.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	res, err := s.coll.InsertOne(ctx, listing)
	metrics.ObserveMongoOp("insert", collListings, start, err)
	if err != nil {
		return wrapErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		listing.ID = oid
	}
	return nil
}

// GetByID loads a listing by ID.
func (s *ListingStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var listing models.Listing
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &listing, nil
}

// Update applies the given field updates to a listing.
func (s *ListingStore) Update(ctx context.Context, id primitive.ObjectID, sets bson.M) error {
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

// Delete removes a listing.
func (s *ListingStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSold transitions a listing to sold and stamps sold_at.
func (s *ListingStore) MarkSold(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	return s.Update(ctx, id, bson.M{
		"status":  models.ListingStatusSold,
		"sold_at": now,
	})
}

// SetStatus sets the lifecycle status (moderation path).
func (s *ListingStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return s.Update(ctx, id, bson.M{"status": status})
}

// IncrementViews bumps the view counter. Best effort; callers ignore
// the error beyond logging.
func (s *ListingStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"view_count": 1}})
	return wrapErr(err)
}

// IncFavoriteCount adjusts the denormalized favorite counter.
func (s *ListingStore) IncFavoriteCount(ctx context.Context, id primitive.ObjectID, delta int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"favorite_count": delta}})
	return wrapErr(err)
}

// Search runs the filtered listing query and returns one page plus the
// total match count.
func (s *ListingStore) Search(ctx context.Context, filter models.ListingFilter) ([]models.Listing, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := buildListingQuery(filter)
	start := time.Now()

	// $nearSphere queries cannot be counted; skip the total for geo
	// searches and let the client page until an empty result.
	var total int64
	var err error
	if filter.RadiusKm <= 0 {
		total, err = s.coll.CountDocuments(ctx, query)
		if err != nil {
			metrics.ObserveMongoOp("count", collListings, start, err)
			return nil, 0, wrapErr(err)
		}
	}

	opts := options.Find().
		SetSort(buildListingSort(filter)).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))

	cursor, err := s.coll.Find(ctx, query, opts)
	metrics.ObserveMongoOp("find", collListings, start, err)
	if err != nil {
		return nil, 0, wrapErr(err)
	}
	defer cursor.Close(ctx)

	listings := make([]models.Listing, 0, filter.Limit)
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, 0, wrapErr(err)
	}
	return listings, total, nil
}

// GetMany loads listings by ID, preserving no particular order.
func (s *ListingStore) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.Listing, error) {
	if len(ids) == 0 {
		return []models.Listing{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	listings := make([]models.Listing, 0, len(ids))
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, wrapErr(err)
	}
	return listings, nil
}

// buildListingQuery assembles the Mongo filter document from the search
// criteria. Every step is conditional; an empty filter matches all
// active listings.
func buildListingQuery(filter models.ListingFilter) bson.M {
	query := bson.M{}

	switch filter.Status {
	case "":
		query["status"] = models.ListingStatusActive
	case StatusAny:
	default:
		query["status"] = filter.Status
	}
	if filter.CategorySlug != "" {
		query["category_slug"] = filter.CategorySlug
	}
	if filter.City != "" {
		query["city"] = filter.City
	}
	if !filter.SellerID.IsZero() {
		query["seller_id"] = filter.SellerID
	}
	if filter.Query != "" {
		query["$text"] = bson.M{"$search": filter.Query}
	}

	if filter.MinPrice > 0 || filter.MaxPrice > 0 {
		price := bson.M{}
		if filter.MinPrice > 0 {
			price["$gte"] = filter.MinPrice
		}
		if filter.MaxPrice > 0 {
			price["$lte"] = filter.MaxPrice
		}
		query["price"] = price
	}

	// Mongo rejects filters with both $text and $nearSphere. The API
	// layer refuses the combination; if one slips through anyway the
	// text match wins and the radius is dropped.
	if filter.RadiusKm > 0 && filter.Query == "" {
		query["location"] = bson.M{
			"$nearSphere": bson.M{
				"$geometry":    models.NewGeoPoint(filter.Lat, filter.Lng),
				"$maxDistance": filter.RadiusKm * 1000,
			},
		}
	}

	return query
}

// buildListingSort maps the sort name to a Mongo sort document. Geo
// queries get no explicit sort; $nearSphere already orders by distance.
func buildListingSort(filter models.ListingFilter) bson.D {
	if filter.RadiusKm > 0 && filter.Query == "" {
		return bson.D{}
	}
	switch filter.Sort {
	case "price_asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "price", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}
