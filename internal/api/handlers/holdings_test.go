package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/invportal/portfolio-backend/internal/model"
	"github.com/invportal/portfolio-backend/internal/testutil"
)

func setupHoldingHandler(t *testing.T) (*HoldingHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestHoldingService(t, db)
	return NewHoldingHandler(svc), db
}

func TestHoldingHandler_Recalculate(t *testing.T) {
	t.Run("recalculates and returns the summary", func(t *testing.T) {
		handler, db := setupHoldingHandler(t)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)
		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-01", 10, 10)

		req := testutil.NewRequestWithQueryParams(http.MethodPost, "/api/holdings/recalculate",
			map[string]string{"date": "2024-01-31"})
		w := httptest.NewRecorder()

		handler.Recalculate(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var summary model.RecalcSummary
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&summary)

		if summary.Deleted != 0 || summary.Inserted != 1 {
			t.Errorf("Expected {0, 1}, got %+v", summary)
		}
	})

	t.Run("rejects a missing date", func(t *testing.T) {
		handler, _ := setupHoldingHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/holdings/recalculate", nil)
		w := httptest.NewRecorder()

		handler.Recalculate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		handler, _ := setupHoldingHandler(t)

		req := testutil.NewRequestWithQueryParams(http.MethodPost, "/api/holdings/recalculate",
			map[string]string{"date": "31-01-2024"})
		w := httptest.NewRecorder()

		handler.Recalculate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects an invalid userId", func(t *testing.T) {
		handler, _ := setupHoldingHandler(t)

		req := testutil.NewRequestWithQueryParams(http.MethodPost, "/api/holdings/recalculate",
			map[string]string{"date": "2024-01-31", "userId": "not-a-uuid"})
		w := httptest.NewRecorder()

		handler.Recalculate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestHoldingHandler_Holdings(t *testing.T) {
	t.Run("returns the snapshot for a date", func(t *testing.T) {
		handler, db := setupHoldingHandler(t)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)
		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-01", 10, 10)

		recalc := testutil.NewRequestWithQueryParams(http.MethodPost, "/api/holdings/recalculate",
			map[string]string{"date": "2024-01-31"})
		handler.Recalculate(httptest.NewRecorder(), recalc)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/holdings",
			map[string]string{"date": "2024-01-31"})
		w := httptest.NewRecorder()

		handler.Holdings(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var holdings []model.Holding
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&holdings)

		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}
		if holdings[0].Quantity != 10 {
			t.Errorf("Expected quantity 10, got %v", holdings[0].Quantity)
		}
	})

	t.Run("returns an empty list without a stored snapshot", func(t *testing.T) {
		handler, _ := setupHoldingHandler(t)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/holdings",
			map[string]string{"date": "2024-01-31"})
		w := httptest.NewRecorder()

		handler.Holdings(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if body := strings.TrimSpace(w.Body.String()); body != "[]" {
			t.Errorf("Expected an empty JSON array, got %s", body)
		}
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		handler, _ := setupHoldingHandler(t)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/holdings",
			map[string]string{"date": "yesterday"})
		w := httptest.NewRecorder()

		handler.Holdings(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestHoldingHandler_ExportCSV(t *testing.T) {
	t.Run("streams holdings as a CSV attachment", func(t *testing.T) {
		handler, db := setupHoldingHandler(t)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)
		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-01", 10, 10)

		recalc := testutil.NewRequestWithQueryParams(http.MethodPost, "/api/holdings/recalculate",
			map[string]string{"date": "2024-01-31"})
		handler.Recalculate(httptest.NewRecorder(), recalc)

		req := httptest.NewRequest(http.MethodGet, "/api/holdings/export.csv", nil)
		w := httptest.NewRecorder()

		handler.ExportCSV(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("Expected Content-Type text/csv, got %q", ct)
		}

		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("Expected header plus 1 row, got %d lines", len(lines))
		}
		if !strings.HasPrefix(lines[0], "id,holding_date") {
			t.Errorf("Unexpected CSV header: %s", lines[0])
		}
	})
}
