// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"errors"
	"net/http"

	"github.com/serajapp/seraj/internal/logging"
	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/store"
)

// CreateReport files an abuse report against a listing, user, or
// message.
//
// POST /api/v1/reports
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	user := currentUser(r)

	var req models.CreateReportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	targetID := mustObjectID(req.TargetID)

	// Verify the target exists for the types that are cheap to check.
	// Message targets are accepted as-is; moderators resolve them from
	// the conversation view.
	switch req.TargetType {
	case models.ReportTargetListing:
		if _, err := h.listings.GetByID(r.Context(), targetID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				rw.NotFound("Listing not found")
				return
			}
			rw.DatabaseError(err)
			return
		}
	case models.ReportTargetUser:
		if _, err := h.users.GetByID(r.Context(), targetID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				rw.NotFound("User not found")
				return
			}
			rw.DatabaseError(err)
			return
		}
	}

	report := &models.Report{
		ReporterID: user.ID,
		TargetType: req.TargetType,
		TargetID:   targetID,
		Reason:     req.Reason,
		Details:    req.Details,
	}

	if err := h.reports.Create(r.Context(), report); err != nil {
		rw.DatabaseError(err)
		return
	}

	logging.CtxInfo(r.Context()).
		Str("report_id", report.ID.Hex()).
		Str("target_type", report.TargetType).
		Msg("Abuse report filed")

	rw.Created(report)
}

// AdminListReports returns the moderation queue, filtered by status.
//
// GET /api/v1/admin/reports
func (h *Handler) AdminListReports(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	limit, offset := h.pagination(r)

	status := r.URL.Query().Get("status")
	switch status {
	case "", models.ReportStatusOpen, models.ReportStatusResolved, models.ReportStatusDismissed:
	default:
		rw.BadRequest("Invalid status")
		return
	}

	reports, err := h.reports.ListByStatus(r.Context(), status, limit, offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithPagination(reports, pageMeta(-1, len(reports), limit, offset))
}

// AdminResolveReport closes a report with the moderator's outcome.
//
// POST /api/v1/admin/reports/{reportID}/resolve
func (h *Handler) AdminResolveReport(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	moderator := currentUser(r)

	id, ok := objectIDParam(w, r, "reportID")
	if !ok {
		return
	}

	var req models.ResolveReportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.reports.Resolve(r.Context(), id, moderator.ID, req.Status, req.Resolution); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("No open report with this ID")
			return
		}
		rw.DatabaseError(err)
		return
	}

	report, err := h.reports.GetByID(r.Context(), id)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	logging.CtxInfo(r.Context()).
		Str("report_id", id.Hex()).
		Str("status", req.Status).
		Str("moderator_id", moderator.ID.Hex()).
		Msg("Report resolved")

	rw.Success(report)
}

// AdminSuspendListing suspends or reinstates a listing.
//
// POST /api/v1/admin/listings/{listingID}/suspend
// DELETE /api/v1/admin/listings/{listingID}/suspend
func (h *Handler) AdminSuspendListing(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := objectIDParam(w, r, "listingID")
	if !ok {
		return
	}

	status := models.ListingStatusSuspended
	if r.Method == http.MethodDelete {
		status = models.ListingStatusActive
	}

	if err := h.listings.SetStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Listing not found")
			return
		}
		rw.DatabaseError(err)
		return
	}
	rw.Success(map[string]string{"status": status})
}

// AdminSuspendUser suspends or reinstates an account.
//
// POST /api/v1/admin/users/{userID}/suspend
// DELETE /api/v1/admin/users/{userID}/suspend
func (h *Handler) AdminSuspendUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	actor := currentUser(r)

	id, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}
	if id == actor.ID {
		rw.BadRequest("Cannot suspend yourself")
		return
	}

	suspend := r.Method != http.MethodDelete

	if err := h.users.SetSuspended(r.Context(), id, suspend); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("User not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	logging.CtxInfo(r.Context()).
		Str("user_id", id.Hex()).
		Bool("suspended", suspend).
		Str("actor_id", actor.ID.Hex()).
		Msg("Account suspension changed")

	rw.Success(map[string]bool{"suspended": suspend})
}
