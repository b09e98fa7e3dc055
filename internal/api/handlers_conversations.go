// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/store"
)

// StartConversation opens (or reuses) a conversation with a listing's
// seller and sends the first message.
//
// POST /api/v1/conversations
func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	var req models.StartConversationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	listingID := mustObjectID(req.ListingID)
	listing, err := h.listings.GetByID(r.Context(), listingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Listing not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	if listing.SellerID == user.ID {
		rw.BadRequest("Cannot message yourself")
		return
	}

	seller, err := h.users.GetByID(r.Context(), listing.SellerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Seller not found")
			return
		}
		rw.DatabaseError(err)
		return
	}
	if seller.HasBlocked(user.ID) || user.HasBlocked(seller.ID) {
		rw.Forbidden("Messaging unavailable")
		return
	}

	conv, _, err := h.conversations.FindOrCreate(r.Context(), listingID, user.ID, listing.SellerID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       user.ID,
		Body:           req.Body,
	}
	if err := h.conversations.InsertMessage(r.Context(), msg, listing.SellerID); err != nil {
		rw.DatabaseError(err)
		return
	}

	if h.notifier != nil {
		h.notifier.MessageReceived(r.Context(), user, conv, msg)
	}

	rw.Created(map[string]interface{}{
		"conversation": conv,
		"message":      msg,
	})
}

// ListConversations returns the acting user's conversations.
//
// GET /api/v1/conversations
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)
	limit, offset := h.pagination(r)

	convs, err := h.conversations.ListForUser(r.Context(), user.ID, limit, offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithPagination(convs, pageMeta(-1, len(convs), limit, offset))
}

// ListMessages returns one page of a conversation's messages.
//
// GET /api/v1/conversations/{conversationID}/messages
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	convID, ok := objectIDParam(w, r, "conversationID")
	if !ok {
		return
	}

	conv := h.conversationForUser(w, r, convID, user)
	if conv == nil {
		return
	}

	limit, offset := h.pagination(r)
	msgs, err := h.conversations.MessagesForConversation(r.Context(), convID, limit, offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithPagination(msgs, pageMeta(-1, len(msgs), limit, offset))
}

// SendMessage appends a message to an existing conversation.
//
// POST /api/v1/conversations/{conversationID}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	convID, ok := objectIDParam(w, r, "conversationID")
	if !ok {
		return
	}

	conv := h.conversationForUser(w, r, convID, user)
	if conv == nil {
		return
	}

	var req models.SendMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	recipientID := conv.OtherParticipant(user.ID)
	recipient, err := h.users.GetByID(r.Context(), recipientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Recipient not found")
			return
		}
		rw.DatabaseError(err)
		return
	}
	if recipient.HasBlocked(user.ID) || user.HasBlocked(recipient.ID) {
		rw.Forbidden("Messaging unavailable")
		return
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       user.ID,
		Body:           req.Body,
	}
	if err := h.conversations.InsertMessage(r.Context(), msg, recipientID); err != nil {
		rw.DatabaseError(err)
		return
	}

	if h.notifier != nil {
		h.notifier.MessageReceived(r.Context(), user, conv, msg)
	}

	rw.Created(msg)
}

// MarkConversationRead marks the other side's messages as read.
//
// POST /api/v1/conversations/{conversationID}/read
func (h *Handler) MarkConversationRead(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	convID, ok := objectIDParam(w, r, "conversationID")
	if !ok {
		return
	}

	conv := h.conversationForUser(w, r, convID, user)
	if conv == nil {
		return
	}

	if err := h.conversations.MarkRead(r.Context(), convID, user.ID); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(map[string]string{"status": "read"})
}

// UnreadMessages reports the total unread message count across all
// conversations.
//
// GET /api/v1/conversations/unread
func (h *Handler) UnreadMessages(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	total, err := h.conversations.UnreadTotal(r.Context(), user.ID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(models.UnreadCountResponse{Unread: total})
}

// conversationForUser loads a conversation and verifies the acting user
// participates in it, writing the error response otherwise.
func (h *Handler) conversationForUser(w http.ResponseWriter, r *http.Request, convID primitive.ObjectID, user *models.User) *models.Conversation {
	rw := NewResponseWriter(w, r)

	conv, err := h.conversations.GetByID(r.Context(), convID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Conversation not found")
			return nil
		}
		rw.DatabaseError(err)
		return nil
	}

	if !conv.HasParticipant(user.ID) {
		// 404 rather than 403 so conversation IDs cannot be probed.
		rw.NotFound("Conversation not found")
		return nil
	}
	return conv
}
