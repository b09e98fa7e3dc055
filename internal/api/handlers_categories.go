// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/store"
)

// ListCategories returns the active category tree. Public.
//
// GET /api/v1/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	categories, err := h.categories.ListActive(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(categories)
}

// AdminListCategories returns every category, inactive included.
//
// GET /api/v1/admin/categories
func (h *Handler) AdminListCategories(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	categories, err := h.categories.ListAll(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(categories)
}

// AdminCreateCategory adds a category.
//
// POST /api/v1/admin/categories
func (h *Handler) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.ParentSlug != "" {
		if _, err := h.categories.GetBySlug(r.Context(), req.ParentSlug); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				rw.BadRequest("Unknown parent category")
				return
			}
			rw.DatabaseError(err)
			return
		}
	}

	category := &models.Category{
		Slug:       req.Slug,
		Name:       req.Name,
		NameAr:     req.NameAr,
		IconURL:    req.IconURL,
		ParentSlug: req.ParentSlug,
		Order:      req.Order,
		Active:     req.Active,
	}

	if err := h.categories.Create(r.Context(), category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			rw.Conflict("A category with this slug already exists")
			return
		}
		rw.DatabaseError(err)
		return
	}
	rw.Created(category)
}

// AdminUpdateCategory updates a category by slug.
//
// PUT /api/v1/admin/categories/{slug}
func (h *Handler) AdminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	slug := chi.URLParam(r, "slug")

	var req models.CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sets := bson.M{
		"name":        req.Name,
		"name_ar":     req.NameAr,
		"icon_url":    req.IconURL,
		"parent_slug": req.ParentSlug,
		"order":       req.Order,
		"active":      req.Active,
	}

	if err := h.categories.Update(r.Context(), slug, sets); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Category not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	category, err := h.categories.GetBySlug(r.Context(), slug)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(category)
}

// AdminDeleteCategory removes a category by slug. Listings keep their
// slug; orphaned slugs simply stop matching the category filter UI.
//
// DELETE /api/v1/admin/categories/{slug}
func (h *Handler) AdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	slug := chi.URLParam(r, "slug")

	if err := h.categories.Delete(r.Context(), slug); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("Category not found")
			return
		}
		rw.DatabaseError(err)
		return
	}
	rw.NoContent()
}
