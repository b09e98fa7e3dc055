// Seraj - Classifieds Marketplace Backend
// Copyright 2026 Seraj Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/serajapp/seraj

package validation

import (
	"strings"
	"testing"

	"github.com/serajapp/seraj/internal/models"
)

func TestValidateStruct_RegisterRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       models.RegisterRequest
		wantValid bool
		wantField string
	}{
		{
			name: "valid",
			req: models.RegisterRequest{
				Email:    "buyer@example.com",
				Password: "correct-horse",
				Name:     "Layla",
				Phone:    "+96170123456",
				City:     "Beirut",
			},
			wantValid: true,
		},
		{
			name: "bad email",
			req: models.RegisterRequest{
				Email:    "not-an-email",
				Password: "correct-horse",
				Name:     "Layla",
			},
			wantValid: false,
			wantField: "Email",
		},
		{
			name: "short password",
			req: models.RegisterRequest{
				Email:    "buyer@example.com",
				Password: "short",
				Name:     "Layla",
			},
			wantValid: false,
			wantField: "Password",
		},
		{
			name: "bad phone",
			req: models.RegisterRequest{
				Email:    "buyer@example.com",
				Password: "correct-horse",
				Name:     "Layla",
				Phone:    "not a phone",
			},
			wantValid: false,
			wantField: "Phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if tt.wantValid {
				if err != nil {
					t.Fatalf("expected valid, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			found := false
			for _, fe := range err.Errors() {
				if fe.Field() == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected failure on field %s, got %v", tt.wantField, err)
			}
		})
	}
}

func TestValidateStruct_CustomTags(t *testing.T) {
	valid := models.CreateReportRequest{
		TargetType: "listing",
		TargetID:   "507f1f77bcf86cd799439011",
		Reason:     "spam",
	}
	if err := ValidateStruct(&valid); err != nil {
		t.Fatalf("expected valid report, got: %v", err)
	}

	invalid := valid
	invalid.TargetID = "not-an-object-id"
	err := ValidateStruct(&invalid)
	if err == nil {
		t.Fatal("expected objectid validation to fail")
	}
	if !strings.Contains(err.Error(), "valid ID") {
		t.Errorf("unexpected message: %v", err)
	}

	version := models.VersionCheckRequest{Platform: "ios", Version: "1.4.2"}
	if err := ValidateStruct(&version); err != nil {
		t.Fatalf("expected valid version check, got: %v", err)
	}
	version.Version = "v1.banana"
	if err := ValidateStruct(&version); err == nil {
		t.Fatal("expected appversion validation to fail")
	}
	version.Version = "1.4.2"
	version.Platform = "windows"
	if err := ValidateStruct(&version); err == nil {
		t.Fatal("expected platform oneof validation to fail")
	}

	listing := models.CreateListingRequest{
		Title:        "Road bike",
		Description:  "Aluminium frame, barely used.",
		Price:        350,
		Currency:     "usd",
		CategorySlug: "vehicles",
	}
	if err := ValidateStruct(&listing); err == nil {
		t.Fatal("expected lowercase currency to fail")
	}
	listing.Currency = "USD"
	if err := ValidateStruct(&listing); err != nil {
		t.Fatalf("expected valid listing, got: %v", err)
	}
}

func TestToAPIError_MultipleFields(t *testing.T) {
	req := models.RegisterRequest{}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %s", apiErr.Code)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("expected fields detail, got %v", apiErr.Details)
	}
	if len(fields) < 3 {
		t.Errorf("expected at least 3 field errors, got %d", len(fields))
	}
}
