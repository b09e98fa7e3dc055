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

	"github.com/serajapp/seraj/internal/models"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"2.1", "2.1.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.0.1", "1.0.0", 1},
		{"1.9.0", "1.10.0", -1},
		{"2.0.0", "1.99.99", 1},
		{"1", "1.0.0", 0},
		{"0.9", "1.0", -1},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func checkVersionResponse(t *testing.T, h *Handler, query string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/version"+query, nil)
	rec := httptest.NewRecorder()
	h.CheckVersion(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	return rec, resp
}

func TestCheckVersionMissingParams(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := checkVersionResponse(t, h, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v, want %s", resp.Error, ErrCodeValidationFailed)
	}
}

func TestCheckVersionNoGateConfigured(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := checkVersionResponse(t, h, "?platform=ios&version=1.0.0")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["status"] != models.VersionOK {
		t.Errorf("status = %v, want %q", data["status"], models.VersionOK)
	}
}

func TestCheckVersionGate(t *testing.T) {
	gate := &models.AppVersion{
		Platform:       "ios",
		MinimumVersion: "2.0.0",
		LatestVersion:  "2.5.0",
		StoreURL:       "https://apps.example.com/seraj",
	}

	tests := []struct {
		name       string
		version    string
		wantCode   int
		wantStatus string
	}{
		{"current", "2.5.0", http.StatusOK, models.VersionOK},
		{"newer than latest", "2.6.0", http.StatusOK, models.VersionOK},
		{"outdated but supported", "2.1.0", http.StatusOK, models.VersionUpdateOptional},
		{"below minimum", "1.9.9", http.StatusUpgradeRequired, models.VersionUpdateRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)
			h.versions = &fakeVersionStore{byPlatform: map[string]*models.AppVersion{"ios": gate}}

			rec, resp := checkVersionResponse(t, h, "?platform=ios&version="+tt.version)
			if rec.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.wantCode)
			}

			var payload map[string]interface{}
			if tt.wantCode == http.StatusUpgradeRequired {
				if resp.Error == nil || resp.Error.Code != ErrCodeUpdateRequired {
					t.Fatalf("error = %+v, want %s", resp.Error, ErrCodeUpdateRequired)
				}
				payload = resp.Error.Details.(map[string]interface{})
			} else {
				payload = resp.Data.(map[string]interface{})
			}
			if payload["status"] != tt.wantStatus {
				t.Errorf("version status = %v, want %q", payload["status"], tt.wantStatus)
			}
		})
	}
}

func TestAdminSetVersionRejectsInvertedRange(t *testing.T) {
	h := newTestHandler(t)

	body := `{"platform":"ios","minimum_version":"3.0.0","latest_version":"2.0.0"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/version", newJSONBody(body))
	rec := httptest.NewRecorder()
	h.AdminSetVersion(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
