// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

// Package store is the MongoDB persistence layer. One store per
// collection; each store issues the small number of targeted queries
// and updates its route group needs and leaves indexing, text search,
// and geospatial work to the database's query planner.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/serajapp/seraj/internal/config"
)

// d and e abbreviate ordered BSON documents in index definitions.
type d = bson.D

func e(key string, value interface{}) bson.E {
	return bson.E{Key: key, Value: value}
}

// Sentinel errors returned by all stores. Handlers translate these to
// 404 and 409 responses.
var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
)

// Collection names.
const (
	collUsers         = "users"
	collListings      = "listings"
	collConversations = "conversations"
	collMessages      = "messages"
	collFollows       = "follows"
	collNotifications = "notifications"
	collReports       = "reports"
	collRatings       = "ratings"
	collCategories    = "categories"
	collVersions      = "app_versions"
)

// Store bundles the per-collection stores over one Mongo connection.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration

	Users         *UserStore
	Listings      *ListingStore
	Conversations *ConversationStore
	Follows       *FollowStore
	Notifications *NotificationStore
	Reports       *ReportStore
	Ratings       *RatingStore
	Categories    *CategoryStore
	Versions      *VersionStore
}

// Connect opens the Mongo connection, verifies it with a ping, and
// builds the per-collection stores.
func Connect(ctx context.Context, cfg *config.MongoConfig) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout)

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return New(client, db, timeout), nil
}

// New builds a Store over an existing database handle. Used by Connect
// and by integration tests that bring their own container.
func New(client *mongo.Client, db *mongo.Database, timeout time.Duration) *Store {
	return &Store{
		client:        client,
		db:            db,
		timeout:       timeout,
		Users:         &UserStore{coll: db.Collection(collUsers), timeout: timeout},
		Listings:      &ListingStore{coll: db.Collection(collListings), timeout: timeout},
		Conversations: &ConversationStore{convs: db.Collection(collConversations), msgs: db.Collection(collMessages), timeout: timeout},
		Follows:       &FollowStore{coll: db.Collection(collFollows), timeout: timeout},
		Notifications: &NotificationStore{coll: db.Collection(collNotifications), timeout: timeout},
		Reports:       &ReportStore{coll: db.Collection(collReports), timeout: timeout},
		Ratings:       &RatingStore{coll: db.Collection(collRatings), users: db.Collection(collUsers), timeout: timeout},
		Categories:    &CategoryStore{coll: db.Collection(collCategories), timeout: timeout},
		Versions:      &VersionStore{coll: db.Collection(collVersions), timeout: timeout},
	}
}

// Ping verifies the database connection. Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the database.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the query patterns rely on. Safe to
// call on every startup; Mongo treats existing indexes as a no-op.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: d{e("email", 1)}, Options: unique},
			{Keys: d{e("location", "2dsphere")}},
		},
		collListings: {
			{Keys: d{e("title", "text"), e("description", "text")}},
			{Keys: d{e("location", "2dsphere")}},
			{Keys: d{e("seller_id", 1), e("created_at", -1)}},
			{Keys: d{e("status", 1), e("category_slug", 1), e("created_at", -1)}},
		},
		collConversations: {
			{Keys: d{e("participants", 1), e("last_message_at", -1)}},
			{Keys: d{e("listing_id", 1), e("participants", 1)}},
		},
		collMessages: {
			{Keys: d{e("conversation_id", 1), e("created_at", -1)}},
		},
		collFollows: {
			{Keys: d{e("follower_id", 1), e("followee_id", 1)}, Options: unique},
			{Keys: d{e("followee_id", 1)}},
		},
		collNotifications: {
			{Keys: d{e("recipient_id", 1), e("created_at", -1)}},
			{Keys: d{e("recipient_id", 1), e("read", 1)}},
		},
		collReports: {
			{Keys: d{e("status", 1), e("created_at", -1)}},
		},
		collRatings: {
			{Keys: d{e("rater_id", 1), e("rated_id", 1), e("listing_id", 1)}, Options: unique},
			{Keys: d{e("rated_id", 1), e("created_at", -1)}},
		},
		collCategories: {
			{Keys: d{e("slug", 1)}, Options: unique},
		},
		collVersions: {
			{Keys: d{e("platform", 1)}, Options: unique},
		},
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", coll, err)
		}
	}
	return nil
}

// wrapErr maps driver errors onto the store's sentinel errors.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
