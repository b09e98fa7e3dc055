// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/serajapp/seraj/internal/auth"
	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/validation"
)

// maxBodySize caps request bodies at 1 MiB. Listings carry image URLs,
// not image bytes, so nothing legitimate comes close.
const maxBodySize = 1 << 20

// decodeAndValidate reads the JSON body into dst and runs struct
// validation. On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	rw := NewResponseWriter(w, r)

	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	defer io.Copy(io.Discard, body) //nolint:errcheck

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		rw.BadRequest("Invalid JSON body")
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// objectIDParam parses a hex ObjectID from the named chi URL parameter.
// Writes a 400 and returns false on malformed input.
func objectIDParam(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		NewResponseWriter(w, r).BadRequest("Invalid " + name)
		return primitive.NilObjectID, false
	}
	return id, true
}

// mustObjectID parses a hex ObjectID that the caller produced itself.
// Corrupt input yields the nil ID, which no document ever has.
func mustObjectID(hex string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(hex)
	return id
}

// currentUser returns the authenticated user placed in the context by
// the auth middleware. The middleware guarantees presence on protected
// routes; the zero return only happens on wiring mistakes.
func currentUser(r *http.Request) *models.User {
	return auth.UserFromContext(r.Context())
}

// pagination extracts limit/offset query parameters, clamped to the
// configured bounds.
func (h *Handler) pagination(r *http.Request) (limit, offset int) {
	limit = h.defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > h.maxPageSize {
		limit = h.maxPageSize
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// pageMeta builds the pagination metadata for a list response. A total
// of -1 means the query could not produce a count.
func pageMeta(total int64, count, limit, offset int) *PaginationMeta {
	meta := &PaginationMeta{
		Count:  count,
		Offset: offset,
		Limit:  limit,
	}
	if total >= 0 {
		meta.Total = total
		meta.HasMore = int64(offset+count) < total
	} else {
		meta.HasMore = count == limit
	}
	return meta
}

// queryFloat parses a float query parameter, returning 0 when absent or
// malformed.
func queryFloat(r *http.Request, name string) float64 {
	v, _ := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	return v
}
