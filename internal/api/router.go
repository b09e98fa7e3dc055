// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/serajapp/seraj/internal/auth"
	"github.com/serajapp/seraj/internal/authz"
	"github.com/serajapp/seraj/internal/middleware"
)

// Router assembles the HTTP surface from the handler, the auth
// middleware, and the middleware factories.
type Router struct {
	handler       *Handler
	authMW        *auth.Middleware
	enforcer      *authz.Enforcer
	chiMiddleware *ChiMiddleware
}

// NewRouter creates the router.
func NewRouter(handler *Handler, authMW *auth.Middleware, enforcer *authz.Enforcer, chiMW *ChiMiddleware) *Router {
	return &Router{
		handler:       handler,
		authMW:        authMW,
		enforcer:      enforcer,
		chiMiddleware: chiMW,
	}
}

// Setup builds the chi route tree.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(SecurityHeaders())
	r.Use(middleware.PrometheusMetrics)

	r.Handle("/metrics", promhttp.Handler())

	// Public endpoints: health, version gate, categories, auth.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Get("/ping", h.Liveness)
		r.Get("/health", h.Readiness)
		r.Get("/version", h.CheckVersion)
		r.Get("/categories", h.ListCategories)

		r.Route("/auth", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitLogin()).Post("/register", h.Register)
			r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", h.Login)
			r.With(router.chiMiddleware.RateLimitLogin()).Post("/password-reset", h.RequestPasswordReset)
			r.With(router.chiMiddleware.RateLimitLogin()).Post("/password-reset/confirm", h.ConfirmPasswordReset)

			r.Group(func(r chi.Router) {
				r.Use(router.authMW.Authenticate)
				r.Get("/me", h.Me)
				r.Post("/refresh", h.RefreshToken)
			})
		})

		// Authenticated endpoints.
		r.Group(func(r chi.Router) {
			r.Use(router.authMW.Authenticate)

			r.Route("/users", func(r chi.Router) {
				r.Patch("/me", h.UpdateProfile)
				r.Get("/me/listings", h.MyListings)
				r.Get("/me/favorites", h.ListFavorites)
				r.Put("/me/push-token", h.SetPushToken)
				r.Put("/me/notification-settings", h.UpdateNotificationSettings)

				r.Get("/{userID}", h.GetProfile)
				r.Get("/{userID}/ratings", h.ListUserRatings)
				r.Post("/{userID}/ratings", h.RateUser)
				r.Get("/{userID}/followers", h.ListFollowers)
				r.Get("/{userID}/following", h.ListFollowing)
				r.Put("/{userID}/follow", h.FollowUser)
				r.Delete("/{userID}/follow", h.UnfollowUser)
				r.Put("/{userID}/block", h.BlockUser)
				r.Delete("/{userID}/block", h.UnblockUser)
			})

			r.Route("/listings", func(r chi.Router) {
				r.Get("/", h.SearchListings)
				r.Post("/", h.CreateListing)
				r.Get("/{listingID}", h.GetListing)
				r.Patch("/{listingID}", h.UpdateListing)
				r.Delete("/{listingID}", h.DeleteListing)
				r.Post("/{listingID}/sold", h.MarkListingSold)
				r.Post("/{listingID}/favorite", h.ToggleFavorite)
			})

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", h.ListConversations)
				r.Post("/", h.StartConversation)
				r.Get("/unread", h.UnreadMessages)
				r.Get("/{conversationID}/messages", h.ListMessages)
				r.Post("/{conversationID}/messages", h.SendMessage)
				r.Post("/{conversationID}/read", h.MarkConversationRead)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.ListNotifications)
				r.Get("/unread", h.UnreadNotifications)
				r.Post("/read-all", h.MarkAllNotificationsRead)
				r.Post("/{notificationID}/read", h.MarkNotificationRead)
				r.Delete("/{notificationID}", h.DeleteNotification)
			})

			r.Post("/reports", h.CreateReport)

			// Staff endpoints. The enforcer checks the acting user's role
			// against the path-based policy.
			r.Route("/admin", func(r chi.Router) {
				r.Use(router.enforcer.Middleware)

				r.Get("/reports", h.AdminListReports)
				r.Post("/reports/{reportID}/resolve", h.AdminResolveReport)

				r.Post("/listings/{listingID}/suspend", h.AdminSuspendListing)
				r.Delete("/listings/{listingID}/suspend", h.AdminSuspendListing)

				r.Post("/users/{userID}/suspend", h.AdminSuspendUser)
				r.Delete("/users/{userID}/suspend", h.AdminSuspendUser)

				r.Get("/categories", h.AdminListCategories)
				r.Post("/categories", h.AdminCreateCategory)
				r.Put("/categories/{slug}", h.AdminUpdateCategory)
				r.Delete("/categories/{slug}", h.AdminDeleteCategory)

				r.Put("/version", h.AdminSetVersion)
			})
		})
	})

	return r
}
