// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/serajapp/seraj/internal/models"
	"github.com/serajapp/seraj/internal/store"
	"github.com/serajapp/seraj/internal/validation"
)

// CheckVersion tells a client whether its app version is current,
// outdated, or below the supported minimum. Public; called on app
// launch before authentication.
//
// GET /api/v1/version?platform=ios&version=2.1.0
func (h *Handler) CheckVersion(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := models.VersionCheckRequest{
		Platform: r.URL.Query().Get("platform"),
		Version:  r.URL.Query().Get("version"),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	gate, err := h.versions.GetByPlatform(r.Context(), req.Platform)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// No gate configured for the platform means every version
			// is acceptable.
			rw.Success(models.VersionCheckResult{Status: models.VersionOK})
			return
		}
		rw.DatabaseError(err)
		return
	}

	result := models.VersionCheckResult{
		Status:        models.VersionOK,
		LatestVersion: gate.LatestVersion,
		StoreURL:      gate.StoreURL,
	}
	switch {
	case compareVersions(req.Version, gate.MinimumVersion) < 0:
		result.Status = models.VersionUpdateRequired
	case compareVersions(req.Version, gate.LatestVersion) < 0:
		result.Status = models.VersionUpdateOptional
	}

	if result.Status == models.VersionUpdateRequired {
		rw.UpdateRequired(result)
		return
	}
	rw.Success(result)
}

// AdminSetVersion writes the version gate for a platform.
//
// PUT /api/v1/admin/version
func (h *Handler) AdminSetVersion(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.AppVersionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if compareVersions(req.MinimumVersion, req.LatestVersion) > 0 {
		rw.BadRequest("minimum_version cannot exceed latest_version")
		return
	}

	gate := &models.AppVersion{
		Platform:       req.Platform,
		MinimumVersion: req.MinimumVersion,
		LatestVersion:  req.LatestVersion,
		StoreURL:       req.StoreURL,
	}
	if err := h.versions.Upsert(r.Context(), gate); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(gate)
}

// compareVersions compares two dotted numeric versions. Returns -1, 0,
// or 1. Missing segments count as zero, so "2.1" equals "2.1.0".
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
