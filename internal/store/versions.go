// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/serajapp/seraj/internal/models"
)

// VersionStore persists the per-platform app version requirements.
type VersionStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// GetByPlatform loads the version document for a platform.
func (s *VersionStore) GetByPlatform(ctx context.Context, platform string) (*models.AppVersion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var v models.AppVersion
	err := s.coll.FindOne(ctx, bson.M{"platform": platform}).Decode(&v)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &v, nil
}

// Upsert writes the version requirements for a platform, one document
// per platform.
func (s *VersionStore) Upsert(ctx context.Context, v *models.AppVersion) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"minimum_version": v.MinimumVersion,
			"latest_version":  v.LatestVersion,
			"store_url":       v.StoreURL,
			"updated_at":      time.Now().UTC(),
		},
	}

	_, err := s.coll.UpdateOne(ctx, bson.M{"platform": v.Platform}, update, options.Update().SetUpsert(true))
	return wrapErr(err)
}
