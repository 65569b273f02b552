package service_test

import (
	"testing"
	"time"

	"github.com/invportal/portfolio-backend/internal/testutil"
)

func date(s string) time.Time {
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("invalid test date: " + s)
	}
	return parsed
}

// TestHoldingService_RecalculateForDate tests the full snapshot recalculation.
//
// WHY: Recalculation is the core operation of the system. It must replay the
// ledger into positions, price them, and atomically replace the stored
// snapshot for the target date, reporting how many rows went out and in.
func TestHoldingService_RecalculateForDate(t *testing.T) {
	t.Run("builds a snapshot from the ledger", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-01", 10, 10)
		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-02", 10, 20)
		testutil.CreatePrice(t, db, security.ID, platform.ID, "2024-01-02", 25)

		// Execute
		summary, err := svc.RecalculateForDate(date("2024-01-05"), "")

		// Assert
		if err != nil {
			t.Fatalf("RecalculateForDate() returned unexpected error: %v", err)
		}
		if summary.Deleted != 0 {
			t.Errorf("Expected 0 deleted on first run, got %d", summary.Deleted)
		}
		if summary.Inserted != 1 {
			t.Errorf("Expected 1 inserted, got %d", summary.Inserted)
		}

		holdings, err := svc.GetHoldingsForDate(date("2024-01-05"))
		if err != nil {
			t.Fatalf("GetHoldingsForDate() returned unexpected error: %v", err)
		}
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}

		h := holdings[0]
		if h.Quantity != 20 {
			t.Errorf("Expected quantity 20, got %v", h.Quantity)
		}
		if h.AvgCost != 15 {
			t.Errorf("Expected avg cost 15, got %v", h.AvgCost)
		}
		if h.Price != 25 {
			t.Errorf("Expected price 25, got %v", h.Price)
		}
		if h.MarketValue != 500 {
			t.Errorf("Expected market value 500, got %v", h.MarketValue)
		}
		if h.HoldingCostAmt != 300 {
			t.Errorf("Expected cost 300, got %v", h.HoldingCostAmt)
		}
		if h.UnrealGainLossAmt != 200 {
			t.Errorf("Expected gain 200, got %v", h.UnrealGainLossAmt)
		}
		if h.UnrealGainLossPerc != 66.6667 {
			t.Errorf("Expected percentage 66.6667, got %v", h.UnrealGainLossPerc)
		}
		if h.PriceDate == nil || !h.PriceDate.Equal(date("2024-01-02")) {
			t.Errorf("Expected price date 2024-01-02, got %v", h.PriceDate)
		}
	})

	t.Run("repeated runs are idempotent", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-01", 10, 10)
		testutil.CreatePrice(t, db, security.ID, platform.ID, "2024-01-01", 12)

		// Execute twice with unchanged inputs
		first, err := svc.RecalculateForDate(date("2024-01-05"), "")
		if err != nil {
			t.Fatalf("First run returned unexpected error: %v", err)
		}
		second, err := svc.RecalculateForDate(date("2024-01-05"), "")
		if err != nil {
			t.Fatalf("Second run returned unexpected error: %v", err)
		}

		// Assert: the second run replaces exactly what the first inserted
		if second.Deleted != first.Inserted {
			t.Errorf("Expected second run to delete %d rows, deleted %d", first.Inserted, second.Deleted)
		}
		if second.Inserted != first.Inserted {
			t.Errorf("Expected second run to insert %d rows, inserted %d", first.Inserted, second.Inserted)
		}
		testutil.AssertRowCount(t, db, "holding", 1)
	})

	t.Run("transactions after the target date are excluded", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-01", 10, 10)
		testutil.CreateSell(t, db, portfolio.ID, security.ID, platform.ID, "2024-02-01", 10, 15)

		// Execute as of mid-January: the February sell must not count
		_, err := svc.RecalculateForDate(date("2024-01-15"), "")
		if err != nil {
			t.Fatalf("RecalculateForDate() returned unexpected error: %v", err)
		}

		holdings, err := svc.GetHoldingsForDate(date("2024-01-15"))
		if err != nil {
			t.Fatalf("GetHoldingsForDate() returned unexpected error: %v", err)
		}
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding before the sell, got %d", len(holdings))
		}
		if holdings[0].Quantity != 10 {
			t.Errorf("Expected quantity 10, got %v", holdings[0].Quantity)
		}
	})

	t.Run("snapshots for other dates are untouched", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-01", 10, 10)

		if _, err := svc.RecalculateForDate(date("2024-01-10"), ""); err != nil {
			t.Fatalf("First snapshot returned unexpected error: %v", err)
		}
		if _, err := svc.RecalculateForDate(date("2024-01-20"), ""); err != nil {
			t.Fatalf("Second snapshot returned unexpected error: %v", err)
		}

		// Assert: one row per date, both generations present
		testutil.AssertRowCount(t, db, "holding", 2)

		older, err := svc.GetHoldingsForDate(date("2024-01-10"))
		if err != nil {
			t.Fatalf("GetHoldingsForDate() returned unexpected error: %v", err)
		}
		if len(older) != 1 {
			t.Errorf("Expected the older snapshot to survive, got %d rows", len(older))
		}
	})

	t.Run("empty ledger produces an empty snapshot", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		// Execute
		summary, err := svc.RecalculateForDate(date("2024-01-05"), "")

		// Assert
		if err != nil {
			t.Fatalf("RecalculateForDate() returned unexpected error: %v", err)
		}
		if summary.Deleted != 0 || summary.Inserted != 0 {
			t.Errorf("Expected {0, 0}, got %+v", summary)
		}
	})

	t.Run("recalculation clears a stale snapshot when positions close", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-01", 10, 10)
		if _, err := svc.RecalculateForDate(date("2024-01-05"), ""); err != nil {
			t.Fatalf("First run returned unexpected error: %v", err)
		}

		// The position closes before the target date; re-running must delete
		// the old row and insert nothing.
		testutil.CreateSell(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-03", 10, 12)

		summary, err := svc.RecalculateForDate(date("2024-01-05"), "")
		if err != nil {
			t.Fatalf("Second run returned unexpected error: %v", err)
		}
		if summary.Deleted != 1 {
			t.Errorf("Expected 1 deleted, got %d", summary.Deleted)
		}
		if summary.Inserted != 0 {
			t.Errorf("Expected 0 inserted, got %d", summary.Inserted)
		}
		testutil.AssertRowCount(t, db, "holding", 0)
	})
}

// TestHoldingService_PriceResolution tests the valuation price fallback chain.
//
// WHY: Pricing prefers the newest stored quote on or before the target date,
// falls back to the position's last positive transaction price, and finally
// values the position at zero with no price date. Each rung changes the
// stored row in a way users see directly.
func TestHoldingService_PriceResolution(t *testing.T) {
	t.Run("latest quote on or before the date wins", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-01", 10, 10)
		testutil.CreatePrice(t, db, security.ID, platform.ID, "2024-01-02", 11)
		testutil.CreatePrice(t, db, security.ID, platform.ID, "2024-01-04", 13)
		// A quote after the target date must be ignored
		testutil.CreatePrice(t, db, security.ID, platform.ID, "2024-01-09", 99)

		// Execute
		if _, err := svc.RecalculateForDate(date("2024-01-05"), ""); err != nil {
			t.Fatalf("RecalculateForDate() returned unexpected error: %v", err)
		}

		// Assert
		holdings, err := svc.GetHoldingsForDate(date("2024-01-05"))
		if err != nil {
			t.Fatalf("GetHoldingsForDate() returned unexpected error: %v", err)
		}
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}
		if holdings[0].Price != 13 {
			t.Errorf("Expected price 13, got %v", holdings[0].Price)
		}
		if holdings[0].PriceDate == nil || !holdings[0].PriceDate.Equal(date("2024-01-04")) {
			t.Errorf("Expected price date 2024-01-04, got %v", holdings[0].PriceDate)
		}
	})

	t.Run("falls back to the last transaction price", func(t *testing.T) {
		// Setup: no stored quotes at all
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-01", 10, 10)
		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-03", 5, 42)

		// Execute
		if _, err := svc.RecalculateForDate(date("2024-01-05"), ""); err != nil {
			t.Fatalf("RecalculateForDate() returned unexpected error: %v", err)
		}

		// Assert: priced at the most recent transaction
		holdings, err := svc.GetHoldingsForDate(date("2024-01-05"))
		if err != nil {
			t.Fatalf("GetHoldingsForDate() returned unexpected error: %v", err)
		}
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}
		if holdings[0].Price != 42 {
			t.Errorf("Expected fallback price 42, got %v", holdings[0].Price)
		}
		if holdings[0].PriceDate == nil || !holdings[0].PriceDate.Equal(date("2024-01-03")) {
			t.Errorf("Expected price date 2024-01-03, got %v", holdings[0].PriceDate)
		}
	})

	t.Run("unpriced position stores zero and no price date", func(t *testing.T) {
		// Setup: no quotes, and the only transaction has a zero price
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-01", 10, 0)

		// Execute
		if _, err := svc.RecalculateForDate(date("2024-01-05"), ""); err != nil {
			t.Fatalf("RecalculateForDate() returned unexpected error: %v", err)
		}

		// Assert
		holdings, err := svc.GetHoldingsForDate(date("2024-01-05"))
		if err != nil {
			t.Fatalf("GetHoldingsForDate() returned unexpected error: %v", err)
		}
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}
		if holdings[0].Price != 0 {
			t.Errorf("Expected price 0, got %v", holdings[0].Price)
		}
		if holdings[0].PriceDate != nil {
			t.Errorf("Expected nil price date, got %v", holdings[0].PriceDate)
		}
		if holdings[0].MarketValue != 0 {
			t.Errorf("Expected market value 0, got %v", holdings[0].MarketValue)
		}
	})
}

// TestHoldingService_OwnershipFilter tests per-user recalculation.
//
// WHY: When a user ID is supplied, only that user's portfolios feed the
// replay. Other users' transactions must be filtered out before aggregation,
// not after.
func TestHoldingService_OwnershipFilter(t *testing.T) {
	t.Run("only the owner's portfolios are replayed", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		ownerID := testutil.MakeID()
		otherID := testutil.MakeID()

		mine := testutil.NewPortfolio().WithUserID(ownerID).Build(t, db)
		theirs := testutil.NewPortfolio().WithUserID(otherID).Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, mine.ID, security.ID, platform.ID, "2024-01-01", 10, 10)
		testutil.CreateBuy(t, db, theirs.ID, security.ID, platform.ID, "2024-01-01", 99, 10)

		// Execute
		summary, err := svc.RecalculateForDate(date("2024-01-05"), ownerID)

		// Assert
		if err != nil {
			t.Fatalf("RecalculateForDate() returned unexpected error: %v", err)
		}
		if summary.Inserted != 1 {
			t.Errorf("Expected 1 inserted, got %d", summary.Inserted)
		}

		holdings, err := svc.GetHoldingsForDate(date("2024-01-05"))
		if err != nil {
			t.Fatalf("GetHoldingsForDate() returned unexpected error: %v", err)
		}
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}
		if holdings[0].PortfolioID != mine.ID {
			t.Errorf("Expected holding for portfolio %s, got %s", mine.ID, holdings[0].PortfolioID)
		}
	})

	t.Run("empty user ID replays everything", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		p1 := testutil.NewPortfolio().Build(t, db)
		p2 := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, p1.ID, security.ID, platform.ID, "2024-01-01", 10, 10)
		testutil.CreateBuy(t, db, p2.ID, security.ID, platform.ID, "2024-01-01", 5, 10)

		// Execute
		summary, err := svc.RecalculateForDate(date("2024-01-05"), "")

		// Assert
		if err != nil {
			t.Fatalf("RecalculateForDate() returned unexpected error: %v", err)
		}
		if summary.Inserted != 2 {
			t.Errorf("Expected 2 inserted, got %d", summary.Inserted)
		}
	})
}
