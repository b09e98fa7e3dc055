// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/serajapp/seraj/internal/auth"
	"github.com/serajapp/seraj/internal/config"
	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/store"
)

// Test doubles. Each fake implements the narrow store interface the
// handlers depend on; unconfigured methods answer ErrNotFound or
// zero values so tests only wire what they exercise.

type fakeUserStore struct {
	byEmail map[string]*models.User
	byID    map[primitive.ObjectID]*models.User

	createErr error
	created   []*models.User

	pushToken    string
	pushPlatform string
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[primitive.ObjectID]*models.User),
	}
	for _, u := range users {
		f.byEmail[u.Email] = u
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = primitive.NewObjectID()
	f.created = append(f.created, user)
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetMany(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	out := make(map[primitive.ObjectID]*models.User)
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, _ primitive.ObjectID, _ bson.M) error {
	return nil
}

func (f *fakeUserStore) SetPassword(_ context.Context, _ primitive.ObjectID, _ string) error {
	return nil
}

func (f *fakeUserStore) SetPushToken(_ context.Context, _ primitive.ObjectID, token, platform string) error {
	f.pushToken = token
	f.pushPlatform = platform
	return nil
}

func (f *fakeUserStore) SetNotificationSettings(_ context.Context, _ primitive.ObjectID, _ models.NotificationSettings) error {
	return nil
}

func (f *fakeUserStore) SetSuspended(_ context.Context, _ primitive.ObjectID, _ bool) error {
	return nil
}

func (f *fakeUserStore) Block(_ context.Context, _, _ primitive.ObjectID) error   { return nil }
func (f *fakeUserStore) Unblock(_ context.Context, _, _ primitive.ObjectID) error { return nil }

func (f *fakeUserStore) ToggleFavorite(_ context.Context, _, _ primitive.ObjectID) (bool, error) {
	return true, nil
}

func (f *fakeUserStore) FavoriteIDs(_ context.Context, _ primitive.ObjectID) ([]primitive.ObjectID, error) {
	return nil, nil
}

func (f *fakeUserStore) IncFollowCounts(_ context.Context, _, _ primitive.ObjectID, _ int64) error {
	return nil
}

type fakeListingStore struct {
	byID map[primitive.ObjectID]*models.Listing
}

func newFakeListingStore(listings ...*models.Listing) *fakeListingStore {
	f := &fakeListingStore{byID: make(map[primitive.ObjectID]*models.Listing)}
	for _, l := range listings {
		f.byID[l.ID] = l
	}
	return f
}

func (f *fakeListingStore) Create(_ context.Context, listing *models.Listing) error {
	listing.ID = primitive.NewObjectID()
	f.byID[listing.ID] = listing
	return nil
}

func (f *fakeListingStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Listing, error) {
	if l, ok := f.byID[id]; ok {
		return l, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeListingStore) GetMany(_ context.Context, ids []primitive.ObjectID) ([]models.Listing, error) {
	var out []models.Listing
	for _, id := range ids {
		if l, ok := f.byID[id]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeListingStore) Update(_ context.Context, id primitive.ObjectID, _ bson.M) error {
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	return nil
}

func (f *fakeListingStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeListingStore) MarkSold(_ context.Context, id primitive.ObjectID) error {
	l, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	l.Status = models.ListingStatusSold
	return nil
}

func (f *fakeListingStore) SetStatus(_ context.Context, id primitive.ObjectID, status string) error {
	l, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	l.Status = status
	return nil
}

func (f *fakeListingStore) Search(_ context.Context, _ models.ListingFilter) ([]models.Listing, int64, error) {
	return nil, 0, nil
}

func (f *fakeListingStore) IncrementViews(_ context.Context, _ primitive.ObjectID) error { return nil }

func (f *fakeListingStore) IncFavoriteCount(_ context.Context, _ primitive.ObjectID, _ int64) error {
	return nil
}

type fakeConversationStore struct {
	byID map[primitive.ObjectID]*models.Conversation
}

func newFakeConversationStore(convs ...*models.Conversation) *fakeConversationStore {
	f := &fakeConversationStore{byID: make(map[primitive.ObjectID]*models.Conversation)}
	for _, c := range convs {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeConversationStore) FindOrCreate(_ context.Context, listingID, buyerID, sellerID primitive.ObjectID) (*models.Conversation, bool, error) {
	conv := &models.Conversation{
		ID:           primitive.NewObjectID(),
		ListingID:    listingID,
		Participants: []primitive.ObjectID{buyerID, sellerID},
	}
	f.byID[conv.ID] = conv
	return conv, true, nil
}

func (f *fakeConversationStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeConversationStore) ListForUser(_ context.Context, _ primitive.ObjectID, _, _ int) ([]models.Conversation, error) {
	return nil, nil
}

func (f *fakeConversationStore) InsertMessage(_ context.Context, msg *models.Message, _ primitive.ObjectID) error {
	msg.ID = primitive.NewObjectID()
	return nil
}

func (f *fakeConversationStore) MessagesForConversation(_ context.Context, _ primitive.ObjectID, _, _ int) ([]models.Message, error) {
	return []models.Message{}, nil
}

func (f *fakeConversationStore) MarkRead(_ context.Context, _, _ primitive.ObjectID) error {
	return nil
}

func (f *fakeConversationStore) UnreadTotal(_ context.Context, _ primitive.ObjectID) (int64, error) {
	return 0, nil
}

type fakeCategoryStore struct {
	bySlug map[string]*models.Category
}

func newFakeCategoryStore(categories ...*models.Category) *fakeCategoryStore {
	f := &fakeCategoryStore{bySlug: make(map[string]*models.Category)}
	for _, c := range categories {
		f.bySlug[c.Slug] = c
	}
	return f
}

func (f *fakeCategoryStore) ListActive(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.bySlug {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) ListAll(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.bySlug {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryStore) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	if c, ok := f.bySlug[slug]; ok {
		return c, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeCategoryStore) Create(_ context.Context, category *models.Category) error {
	if _, ok := f.bySlug[category.Slug]; ok {
		return store.ErrDuplicate
	}
	f.bySlug[category.Slug] = category
	return nil
}

func (f *fakeCategoryStore) Update(_ context.Context, slug string, _ bson.M) error {
	if _, ok := f.bySlug[slug]; !ok {
		return store.ErrNotFound
	}
	return nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, slug string) error {
	if _, ok := f.bySlug[slug]; !ok {
		return store.ErrNotFound
	}
	delete(f.bySlug, slug)
	return nil
}

type fakeVersionStore struct {
	byPlatform map[string]*models.AppVersion
}

func (f *fakeVersionStore) GetByPlatform(_ context.Context, platform string) (*models.AppVersion, error) {
	if v, ok := f.byPlatform[platform]; ok {
		return v, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeVersionStore) Upsert(_ context.Context, v *models.AppVersion) error {
	if f.byPlatform == nil {
		f.byPlatform = make(map[string]*models.AppVersion)
	}
	f.byPlatform[v.Platform] = v
	return nil
}

type fakeNotifier struct{}

func (fakeNotifier) ListingPublished(context.Context, *models.User, *models.Listing)                 {}
func (fakeNotifier) MessageReceived(context.Context, *models.User, *models.Conversation, *models.Message) {
}
func (fakeNotifier) FollowerGained(context.Context, *models.User, primitive.ObjectID) {}
func (fakeNotifier) RatingReceived(context.Context, *models.User, *models.Rating)     {}
func (fakeNotifier) ListingFaved(context.Context, *models.User, *models.Listing)      {}

type fakeResetTokens struct {
	issued map[string]string
}

func (f *fakeResetTokens) Issue(userID string) (string, error) {
	if f.issued == nil {
		f.issued = make(map[string]string)
	}
	token := "test-reset-token-" + userID
	f.issued[token] = userID
	return token, nil
}

func (f *fakeResetTokens) Redeem(token string) (string, error) {
	if userID, ok := f.issued[token]; ok {
		delete(f.issued, token)
		return userID, nil
	}
	return "", store.ErrNotFound
}

type fakeHealth struct{ err error }

func (f *fakeHealth) Ping(context.Context) error { return f.err }

// newTestHandler builds a handler with fakes and a low bcrypt cost so
// password tests stay fast.
func newTestHandler(t interface{ Fatalf(string, ...interface{}) }) *Handler {
	jwt, err := auth.NewJWTManager(&config.SecurityConfig{
		JWTSecret: "0123456789abcdef0123456789abcdef",
		TokenTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return &Handler{
		users:         newFakeUserStore(),
		listings:      newFakeListingStore(),
		conversations: newFakeConversationStore(),
		categories:    newFakeCategoryStore(),
		versions:      &fakeVersionStore{},
		jwt:           jwt,
		notifier:      fakeNotifier{},
		resetTokens:   &fakeResetTokens{},
		health:        &fakeHealth{},

		bcryptCost:      4,
		defaultPageSize: 20,
		maxPageSize:     100,
		startedAt:       time.Now(),
	}
}

// authedRequest attaches the acting user the way the auth middleware
// does.
func authedRequest(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(auth.ContextWithUser(r.Context(), user))
}

func newJSONBody(s string) io.Reader {
	return strings.NewReader(s)
}
