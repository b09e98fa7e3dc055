// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

// Package notify turns marketplace events into per-recipient
// notification documents and push deliveries. Fan-out is synchronous
// and best-effort: failures are logged and counted, never retried, and
// never fail the request that triggered the event.
package notify

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/serajapp/seraj/internal/logging"
	"github.com/serajapp/seraj/internal/metrics"
	"github.com/serajapp/seraj/internal/models"
)

// FollowerSource yields the followers of a user for listing fan-out.
type FollowerSource interface {
	FollowerIDs(ctx context.Context, followeeID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// UserSource loads recipients so their settings and blocklists can gate
// delivery.
type UserSource interface {
	GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// NotificationSink persists notification batches.
type NotificationSink interface {
	InsertMany(ctx context.Context, notifications []models.Notification) error
}

// PushSender delivers a push message to a device token. Implementations
// swallow nothing: errors come back so the service can count them.
type PushSender interface {
	Send(ctx context.Context, token, title, body string) error
}

// Service is the notification fan-out engine.
type Service struct {
	followers FollowerSource
	users     UserSource
	sink      NotificationSink
	push      PushSender // nil disables push delivery

	batchSize int
}

// NewService creates the fan-out service. batchSize bounds the size of
// each bulk insert.
func NewService(followers FollowerSource, users UserSource, sink NotificationSink, push PushSender, batchSize int) *Service {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Service{
		followers: followers,
		users:     users,
		sink:      sink,
		push:      push,
		batchSize: batchSize,
	}
}

// ListingPublished notifies every follower of the seller, subject to
// each follower's settings and blocklist.
func (s *Service) ListingPublished(ctx context.Context, seller *models.User, listing *models.Listing) {
	followerIDs, err := s.followers.FollowerIDs(ctx, seller.ID)
	if err != nil {
		metrics.NotificationFanoutErrors.Inc()
		logging.CtxError(ctx).Err(err).Str("seller_id", seller.ID.Hex()).Msg("Follower lookup failed")
		return
	}
	if len(followerIDs) == 0 {
		return
	}

	title := fmt.Sprintf("%s posted a new listing", seller.Name)
	s.fanOut(ctx, followerIDs, models.Notification{
		ActorID:   seller.ID,
		Type:      models.NotificationNewListing,
		SubjectID: listing.ID,
		Title:     title,
		Body:      listing.Title,
	})
}

// MessageReceived notifies the other participant of a conversation.
func (s *Service) MessageReceived(ctx context.Context, sender *models.User, conv *models.Conversation, msg *models.Message) {
	recipientID := conv.OtherParticipant(sender.ID)
	if recipientID.IsZero() {
		return
	}
	s.deliverOne(ctx, recipientID, sender, models.Notification{
		ActorID:   sender.ID,
		Type:      models.NotificationNewMessage,
		SubjectID: conv.ID,
		Title:     fmt.Sprintf("New message from %s", sender.Name),
		Body:      truncate(msg.Body, 120),
	})
}

// FollowerGained notifies a user of a new follower.
func (s *Service) FollowerGained(ctx context.Context, follower *models.User, followeeID primitive.ObjectID) {
	s.deliverOne(ctx, followeeID, follower, models.Notification{
		ActorID: follower.ID,
		Type:    models.NotificationNewFollower,
		Title:   fmt.Sprintf("%s started following you", follower.Name),
	})
}

// RatingReceived notifies a user of a new rating.
func (s *Service) RatingReceived(ctx context.Context, rater *models.User, rating *models.Rating) {
	s.deliverOne(ctx, rating.RatedID, rater, models.Notification{
		ActorID:   rater.ID,
		Type:      models.NotificationNewRating,
		SubjectID: rating.ID,
		Title:     fmt.Sprintf("%s rated you %d stars", rater.Name, rating.Stars),
		Body:      truncate(rating.Comment, 120),
	})
}

// ListingFaved notifies a seller that someone favorited their listing.
func (s *Service) ListingFaved(ctx context.Context, faver *models.User, listing *models.Listing) {
	s.deliverOne(ctx, listing.SellerID, faver, models.Notification{
		ActorID:   faver.ID,
		Type:      models.NotificationListingFaved,
		SubjectID: listing.ID,
		Title:     fmt.Sprintf("%s favorited your listing", faver.Name),
		Body:      listing.Title,
	})
}

// deliverOne gates a single-recipient notification on the recipient's
// settings and blocklist, then persists it and pushes it.
func (s *Service) deliverOne(ctx context.Context, recipientID primitive.ObjectID, actor *models.User, template models.Notification) {
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		metrics.NotificationFanoutErrors.Inc()
		logging.CtxError(ctx).Err(err).Str("recipient_id", recipientID.Hex()).Msg("Recipient lookup failed")
		return
	}

	if !recipient.Notifications.WantsNotification(template.Type) || recipient.HasBlocked(actor.ID) {
		return
	}

	template.RecipientID = recipientID
	if err := s.sink.InsertMany(ctx, []models.Notification{template}); err != nil {
		metrics.NotificationFanoutErrors.Inc()
		logging.CtxError(ctx).Err(err).Str("type", template.Type).Msg("Notification insert failed")
		return
	}
	metrics.NotificationsFanned.WithLabelValues(template.Type).Inc()

	s.pushTo(ctx, recipient, template)
}

// fanOut filters a recipient set by settings and blocklist and inserts
// notifications in batches.
func (s *Service) fanOut(ctx context.Context, recipientIDs []primitive.ObjectID, template models.Notification) {
	recipients, err := s.users.GetMany(ctx, recipientIDs)
	if err != nil {
		metrics.NotificationFanoutErrors.Inc()
		logging.CtxError(ctx).Err(err).Str("type", template.Type).Msg("Recipient load failed")
		return
	}

	batch := make([]models.Notification, 0, s.batchSize)
	pushTargets := make([]*models.User, 0, len(recipients))

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.sink.InsertMany(ctx, batch); err != nil {
			metrics.NotificationFanoutErrors.Inc()
			logging.CtxError(ctx).Err(err).Str("type", template.Type).Int("batch", len(batch)).Msg("Notification batch insert failed")
		} else {
			metrics.NotificationsFanned.WithLabelValues(template.Type).Add(float64(len(batch)))
		}
		batch = batch[:0]
	}

	for _, id := range recipientIDs {
		recipient, ok := recipients[id]
		if !ok {
			continue
		}
		if !recipient.Notifications.WantsNotification(template.Type) || recipient.HasBlocked(template.ActorID) {
			continue
		}

		n := template
		n.RecipientID = id
		batch = append(batch, n)
		pushTargets = append(pushTargets, recipient)

		if len(batch) >= s.batchSize {
			flush()
		}
	}
	flush()

	for _, recipient := range pushTargets {
		s.pushTo(ctx, recipient, template)
	}
}

// pushTo sends the push companion of a notification when the recipient
// has a registered device token.
func (s *Service) pushTo(ctx context.Context, recipient *models.User, n models.Notification) {
	if s.push == nil || recipient.PushToken == "" {
		return
	}
	if err := s.push.Send(ctx, recipient.PushToken, n.Title, n.Body); err != nil {
		logging.CtxWarn(ctx).Err(err).Str("recipient_id", recipient.ID.Hex()).Msg("Push delivery failed")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
