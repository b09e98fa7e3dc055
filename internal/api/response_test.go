// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

func TestSuccessEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	NewResponseWriter(rec, req).Success(map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Error != nil {
		t.Errorf("error = %+v, want nil", resp.Error)
	}
	if resp.Meta == nil || resp.Meta.Timestamp.IsZero() {
		t.Error("meta timestamp missing")
	}
}

func TestErrorEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	NewResponseWriter(rec, req).NotFound("Listing not found")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Success {
		t.Error("success = true, want false")
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeNotFound)
	}
	if resp.Error.Message != "Listing not found" {
		t.Errorf("message = %q", resp.Error.Message)
	}
}

func TestNoContent(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/test", nil)
	rec := httptest.NewRecorder()

	NewResponseWriter(rec, req).NoContent()

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestPageMeta(t *testing.T) {
	tests := []struct {
		name        string
		total       int64
		count       int
		limit       int
		offset      int
		wantHasMore bool
	}{
		{"first page of many", 100, 20, 20, 0, true},
		{"last page", 100, 10, 20, 90, false},
		{"exact boundary", 40, 20, 20, 20, false},
		{"empty result", 0, 0, 20, 0, false},
		{"unknown total full page", -1, 20, 20, 0, true},
		{"unknown total short page", -1, 7, 20, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pageMeta(tt.total, tt.count, tt.limit, tt.offset)
			if meta.HasMore != tt.wantHasMore {
				t.Errorf("HasMore = %v, want %v", meta.HasMore, tt.wantHasMore)
			}
			if tt.total >= 0 && meta.Total != tt.total {
				t.Errorf("Total = %d, want %d", meta.Total, tt.total)
			}
			if meta.Count != tt.count {
				t.Errorf("Count = %d, want %d", meta.Count, tt.count)
			}
		})
	}
}

func TestPaginationClamping(t *testing.T) {
	h := &Handler{defaultPageSize: 20, maxPageSize: 100}

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 20, 0},
		{"explicit", "?limit=50&offset=10", 50, 10},
		{"above max", "?limit=9999", 100, 0},
		{"zero limit ignored", "?limit=0", 20, 0},
		{"negative offset ignored", "?offset=-5", 20, 0},
		{"garbage ignored", "?limit=abc&offset=xyz", 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/test"+tt.query, nil)
			limit, offset := h.pagination(r)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("pagination() = (%d, %d), want (%d, %d)",
					limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}
