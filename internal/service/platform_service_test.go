package service_test

import (
	"testing"

	"github.com/invportal/portfolio-backend/internal/testutil"
)

// TestPlatformService_TokenSealing tests API token encryption at rest.
//
// WHY: Platform API tokens must never reach the database in clear text. The
// sealed form must round-trip back to the original through the service and
// nothing else.
func TestPlatformService_TokenSealing(t *testing.T) {
	t.Run("token is sealed at rest and opens to the original", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPlatformService(t, db)

		// Execute
		platform, err := svc.CreatePlatform("Broker X", "Trading Platform", "secret-token")

		// Assert
		if err != nil {
			t.Fatalf("CreatePlatform() returned unexpected error: %v", err)
		}
		if platform.APIToken == "secret-token" {
			t.Error("Expected the stored token to be sealed, got clear text")
		}

		var stored string
		if err := db.QueryRow(`SELECT api_token FROM external_platform WHERE id = ?`, platform.ID).Scan(&stored); err != nil {
			t.Fatalf("Failed to read stored token: %v", err)
		}
		if stored == "secret-token" {
			t.Error("Clear-text token found in the database")
		}

		opened, err := svc.Token(platform)
		if err != nil {
			t.Fatalf("Token() returned unexpected error: %v", err)
		}
		if opened != "secret-token" {
			t.Errorf("Expected the opened token to match, got %q", opened)
		}
	})

	t.Run("empty token stays empty", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPlatformService(t, db)

		// Execute
		platform, err := svc.CreatePlatform("Broker Y", "Trading Platform", "")

		// Assert
		if err != nil {
			t.Fatalf("CreatePlatform() returned unexpected error: %v", err)
		}
		opened, err := svc.Token(platform)
		if err != nil {
			t.Fatalf("Token() returned unexpected error: %v", err)
		}
		if opened != "" {
			t.Errorf("Expected empty token, got %q", opened)
		}
	})

	t.Run("rejects unknown platform types", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPlatformService(t, db)

		// Execute
		_, err := svc.CreatePlatform("Broker Z", "Casino", "")

		// Assert
		if err == nil {
			t.Error("Expected an error for an unknown platform type, got nil")
		}
	})
}

// TestPlatformService_EnsurePlatform tests idempotent platform provisioning.
//
// WHY: The nightly refresh calls EnsurePlatform on every run; repeated calls
// must converge on one row instead of accumulating duplicates.
func TestPlatformService_EnsurePlatform(t *testing.T) {
	t.Run("creates the platform once and then reuses it", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPlatformService(t, db)

		// Execute
		first, err := svc.EnsurePlatform("Yahoo Finance", "Pricing Platform")
		if err != nil {
			t.Fatalf("First EnsurePlatform() returned unexpected error: %v", err)
		}
		second, err := svc.EnsurePlatform("Yahoo Finance", "Pricing Platform")
		if err != nil {
			t.Fatalf("Second EnsurePlatform() returned unexpected error: %v", err)
		}

		// Assert
		if first.ID != second.ID {
			t.Errorf("Expected the same platform both times, got %s and %s", first.ID, second.ID)
		}
		testutil.AssertRowCount(t, db, "external_platform", 1)
	})
}
