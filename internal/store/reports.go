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

// ReportStore persists abuse reports.
type ReportStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// Create inserts a new report in the open state.
func (s *ReportStore) Create(ctx context.Context, report *models.Report) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report.Status = models.ReportStatusOpen
	report.CreatedAt = time.Now().UTC()

	res, err := s.coll.InsertOne(ctx, report)
	if err != nil {
		return wrapErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid
	}
	return nil
}

// GetByID loads a report by ID.
func (s *ReportStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var report models.Report
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &report, nil
}

// ListByStatus returns one page of reports in the given state, oldest
// first so moderators work the queue in arrival order. An empty status
// lists everything.
func (s *ReportStore) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cursor.Close(ctx)

	reports := make([]models.Report, 0, limit)
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, wrapErr(err)
	}
	return reports, nil
}

// Resolve closes a report with the moderator's outcome. Only open
// reports can be resolved.
func (s *ReportStore) Resolve(ctx context.Context, id, moderatorID primitive.ObjectID, status, resolution string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ReportStatusOpen},
		bson.M{"$set": bson.M{
			"status":      status,
			"resolved_by": moderatorID,
			"resolution":  resolution,
			"resolved_at": now,
		}},
	)
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
