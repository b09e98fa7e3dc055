// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/serajapp/seraj/internal/auth"
	"github.com/serajapp/seraj/internal/config"
	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/store"
)

// UserStore is the user persistence surface the handlers need.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, sets bson.M) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetPushToken(ctx context.Context, id primitive.ObjectID, token, platform string) error
	SetNotificationSettings(ctx context.Context, id primitive.ObjectID, settings models.NotificationSettings) error
	SetSuspended(ctx context.Context, id primitive.ObjectID, suspended bool) error
	Block(ctx context.Context, id, blockedID primitive.ObjectID) error
	Unblock(ctx context.Context, id, blockedID primitive.ObjectID) error
	ToggleFavorite(ctx context.Context, id, listingID primitive.ObjectID) (bool, error)
	FavoriteIDs(ctx context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error)
	IncFollowCounts(ctx context.Context, followerID, followeeID primitive.ObjectID, delta int64) error
}

// ListingStore is the listing persistence surface the handlers need.
type ListingStore interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.Listing, error)
	Update(ctx context.Context, id primitive.ObjectID, sets bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	MarkSold(ctx context.Context, id primitive.ObjectID) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Search(ctx context.Context, filter models.ListingFilter) ([]models.Listing, int64, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	IncFavoriteCount(ctx context.Context, id primitive.ObjectID, delta int64) error
}

// ConversationStore is the messaging persistence surface.
type ConversationStore interface {
	FindOrCreate(ctx context.Context, listingID, buyerID, sellerID primitive.ObjectID) (*models.Conversation, bool, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]models.Conversation, error)
	InsertMessage(ctx context.Context, msg *models.Message, recipientID primitive.ObjectID) error
	MessagesForConversation(ctx context.Context, convID primitive.ObjectID, limit, offset int) ([]models.Message, error)
	MarkRead(ctx context.Context, convID, readerID primitive.ObjectID) error
	UnreadTotal(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// FollowStore is the follow-graph persistence surface.
type FollowStore interface {
	Follow(ctx context.Context, followerID, followeeID primitive.ObjectID) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID primitive.ObjectID) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID primitive.ObjectID) (bool, error)
	Followers(ctx context.Context, followeeID primitive.ObjectID, limit, offset int) ([]models.Follow, error)
	Following(ctx context.Context, followerID primitive.ObjectID, limit, offset int) ([]models.Follow, error)
}

// NotificationStore is the notification persistence surface.
type NotificationStore interface {
	ListForUser(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// ReportStore is the abuse report persistence surface.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Report, error)
	Resolve(ctx context.Context, id, moderatorID primitive.ObjectID, status, resolution string) error
}

// RatingStore is the rating persistence surface.
type RatingStore interface {
	Upsert(ctx context.Context, rating *models.Rating) (bool, error)
	ListForUser(ctx context.Context, ratedID primitive.ObjectID, limit, offset int) ([]models.Rating, error)
	Recompute(ctx context.Context, ratedID primitive.ObjectID) (models.RatingSummary, error)
}

// CategoryStore is the category persistence surface.
type CategoryStore interface {
	ListActive(ctx context.Context) ([]models.Category, error)
	ListAll(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, slug string, sets bson.M) error
	Delete(ctx context.Context, slug string) error
}

// VersionStore is the app version gate persistence surface.
type VersionStore interface {
	GetByPlatform(ctx context.Context, platform string) (*models.AppVersion, error)
	Upsert(ctx context.Context, v *models.AppVersion) error
}

// Notifier delivers event notifications to interested users. Delivery
// failures are logged by the implementation; handlers never fail a
// request over them.
type Notifier interface {
	ListingPublished(ctx context.Context, seller *models.User, listing *models.Listing)
	MessageReceived(ctx context.Context, sender *models.User, conv *models.Conversation, msg *models.Message)
	FollowerGained(ctx context.Context, follower *models.User, followeeID primitive.ObjectID)
	RatingReceived(ctx context.Context, rater *models.User, rating *models.Rating)
	ListingFaved(ctx context.Context, faver *models.User, listing *models.Listing)
}

// Mailer sends the transactional emails triggered by the API.
type Mailer interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

// ResetTokenStore issues and redeems password reset tokens.
type ResetTokenStore interface {
	Issue(userID string) (string, error)
	Redeem(token string) (string, error)
}

// HealthChecker reports backend reachability for the readiness probe.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handler bundles the dependencies of every HTTP handler. Stores are
// interfaces so tests can substitute fakes.
type Handler struct {
	users         UserStore
	listings      ListingStore
	conversations ConversationStore
	follows       FollowStore
	notifications NotificationStore
	reports       ReportStore
	ratings       RatingStore
	categories    CategoryStore
	versions      VersionStore

	jwt         *auth.JWTManager
	notifier    Notifier
	mailer      Mailer
	resetTokens ResetTokenStore
	health      HealthChecker

	bcryptCost      int
	publicURL       string
	defaultPageSize int
	maxPageSize     int
	startedAt       time.Time
}

// HandlerDeps collects the external services the handler needs beyond
// the store.
type HandlerDeps struct {
	JWT         *auth.JWTManager
	Notifier    Notifier
	Mailer      Mailer
	ResetTokens ResetTokenStore
}

// NewHandler creates the API handler wired to the real store.
func NewHandler(cfg *config.Config, st *store.Store, deps HandlerDeps) *Handler {
	return &Handler{
		users:         st.Users,
		listings:      st.Listings,
		conversations: st.Conversations,
		follows:       st.Follows,
		notifications: st.Notifications,
		reports:       st.Reports,
		ratings:       st.Ratings,
		categories:    st.Categories,
		versions:      st.Versions,

		jwt:         deps.JWT,
		notifier:    deps.Notifier,
		mailer:      deps.Mailer,
		resetTokens: deps.ResetTokens,
		health:      st,

		bcryptCost:      cfg.Security.BcryptCost,
		publicURL:       cfg.Server.PublicURL,
		defaultPageSize: cfg.API.DefaultPageSize,
		maxPageSize:     cfg.API.MaxPageSize,
		startedAt:       time.Now(),
	}
}
