// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"errors"
	"net/http"

	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/store"
)

// ListNotifications returns one page of the acting user's notifications.
//
// GET /api/v1/notifications
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)
	limit, offset := h.pagination(r)

	notifications, err := h.notifications.ListForUser(r.Context(), user.ID, limit, offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithPagination(notifications, pageMeta(-1, len(notifications), limit, offset))
}

// UnreadNotifications reports the acting user's unread notification
// count. Clients poll this for the badge.
//
// GET /api/v1/notifications/unread
func (h *Handler) UnreadNotifications(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	count, err := h.notifications.UnreadCount(r.Context(), user.ID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(models.UnreadCountResponse{Unread: count})
}

// MarkNotificationRead flags one notification as read.
//
// POST /api/v1/notifications/{notificationID}/read
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	id, ok := objectIDParam(w, r, "notificationID")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Notification not found")
			return
		}
		rw.DatabaseError(err)
		return
	}
	rw.Success(map[string]string{"status": "read"})
}

// MarkAllNotificationsRead flags every unread notification as read.
//
// POST /api/v1/notifications/read-all
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	updated, err := h.notifications.MarkAllRead(r.Context(), user.ID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(map[string]int64{"updated": updated})
}

// DeleteNotification removes one of the acting user's notifications.
//
// DELETE /api/v1/notifications/{notificationID}
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	id, ok := objectIDParam(w, r, "notificationID")
	if !ok {
		return
	}

	if err := h.notifications.Delete(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Notification not found")
			return
		}
		rw.DatabaseError(err)
		return
	}
	rw.NoContent()
}
