package repository_test

import (
	"testing"

	"github.com/invportal/portfolio-backend/internal/model"
	"github.com/invportal/portfolio-backend/internal/repository"
	"github.com/invportal/portfolio-backend/internal/testutil"
)

// TestTransactionRepository_ListUpToDate tests the ledger read.
//
// WHY: The holdings aggregation replays rows exactly as this query returns
// them. Ordering by (portfolio, security, date, seq) and the date cutoff are
// therefore correctness requirements, not cosmetics.
func TestTransactionRepository_ListUpToDate(t *testing.T) {
	t.Run("excludes transactions after the cutoff", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-01", 10, 10)
		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-15", 5, 12)
		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-02-01", 3, 14)

		// Execute
		transactions, err := repo.ListUpToDate(date("2024-01-20"), "")

		// Assert
		if err != nil {
			t.Fatalf("ListUpToDate() returned unexpected error: %v", err)
		}
		if len(transactions) != 2 {
			t.Fatalf("Expected 2 transactions, got %d", len(transactions))
		}
	})

	t.Run("transaction on the cutoff date is included", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-20", 10, 10)

		// Execute
		transactions, err := repo.ListUpToDate(date("2024-01-20"), "")

		// Assert
		if err != nil {
			t.Fatalf("ListUpToDate() returned unexpected error: %v", err)
		}
		if len(transactions) != 1 {
			t.Errorf("Expected the cutoff-date transaction included, got %d rows", len(transactions))
		}
	})

	t.Run("orders by portfolio, security, date, then insertion", func(t *testing.T) {
		// Setup: insert out of date order within one key, plus a second key
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		secA := testutil.NewSecurity().WithID("aaaaaaaa-0000-0000-0000-000000000000").Build(t, db)
		secB := testutil.NewSecurity().WithID("bbbbbbbb-0000-0000-0000-000000000000").Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		testutil.CreateBuy(t, db, portfolio.ID, secB.ID, platform.ID, "2024-01-01", 1, 1)
		late := testutil.CreateBuy(t, db, portfolio.ID, secA.ID, platform.ID, "2024-01-05", 2, 2)
		early := testutil.CreateBuy(t, db, portfolio.ID, secA.ID, platform.ID, "2024-01-02", 3, 3)

		// Execute
		transactions, err := repo.ListUpToDate(date("2024-01-31"), "")

		// Assert
		if err != nil {
			t.Fatalf("ListUpToDate() returned unexpected error: %v", err)
		}
		if len(transactions) != 3 {
			t.Fatalf("Expected 3 transactions, got %d", len(transactions))
		}

		// secA's rows come first (key order), sorted by date within the key
		if transactions[0].ID != early.ID {
			t.Errorf("Expected earliest secA transaction first, got %s", transactions[0].ID)
		}
		if transactions[1].ID != late.ID {
			t.Errorf("Expected later secA transaction second, got %s", transactions[1].ID)
		}
		if transactions[2].SecurityID != secB.ID {
			t.Errorf("Expected secB transaction last, got security %s", transactions[2].SecurityID)
		}
	})

	t.Run("same-date ties break by insertion order", func(t *testing.T) {
		// Setup: three rows on one date, inserted in a known order
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		first := testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-10", 1, 10)
		second := testutil.CreateSell(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-10", 1, 11)
		third := testutil.CreateBuy(t, db, portfolio.ID, security.ID, platform.ID, "2024-01-10", 1, 12)

		// Execute
		transactions, err := repo.ListUpToDate(date("2024-01-31"), "")

		// Assert
		if err != nil {
			t.Fatalf("ListUpToDate() returned unexpected error: %v", err)
		}
		if len(transactions) != 3 {
			t.Fatalf("Expected 3 transactions, got %d", len(transactions))
		}
		for i, expected := range []model.Transaction{first, second, third} {
			if transactions[i].ID != expected.ID {
				t.Errorf("Position %d: expected transaction %s, got %s", i, expected.ID, transactions[i].ID)
			}
		}
	})

	t.Run("user filter keeps only owned portfolios", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)

		ownerID := testutil.MakeID()
		mine := testutil.NewPortfolio().WithUserID(ownerID).Build(t, db)
		theirs := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		kept := testutil.CreateBuy(t, db, mine.ID, security.ID, platform.ID, "2024-01-01", 10, 10)
		testutil.CreateBuy(t, db, theirs.ID, security.ID, platform.ID, "2024-01-01", 99, 10)

		// Execute
		transactions, err := repo.ListUpToDate(date("2024-01-31"), ownerID)

		// Assert
		if err != nil {
			t.Fatalf("ListUpToDate() returned unexpected error: %v", err)
		}
		if len(transactions) != 1 {
			t.Fatalf("Expected 1 transaction for the owner, got %d", len(transactions))
		}
		if transactions[0].ID != kept.ID {
			t.Errorf("Expected transaction %s, got %s", kept.ID, transactions[0].ID)
		}
	})
}

// TestTransactionRepository_Insert tests ledger appends.
func TestTransactionRepository_Insert(t *testing.T) {
	t.Run("assigns increasing seq values", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)

		portfolio := testutil.NewPortfolio().Build(t, db)
		security := testutil.NewSecurity().Build(t, db)
		platform := testutil.NewPlatform().Build(t, db)

		tx := model.Transaction{
			ID:          testutil.MakeID(),
			PortfolioID: portfolio.ID,
			SecurityID:  security.ID,
			PlatformID:  platform.ID,
			Date:        date("2024-01-01"),
			Type:        model.TransactionTypeBuy,
			Quantity:    10,
			Price:       10,
		}

		// Execute
		if err := repo.Insert(tx); err != nil {
			t.Fatalf("Insert() returned unexpected error: %v", err)
		}
		tx2 := tx
		tx2.ID = testutil.MakeID()
		if err := repo.Insert(tx2); err != nil {
			t.Fatalf("Insert() returned unexpected error: %v", err)
		}

		// Assert
		transactions, err := repo.ListUpToDate(date("2024-01-31"), "")
		if err != nil {
			t.Fatalf("ListUpToDate() returned unexpected error: %v", err)
		}
		if len(transactions) != 2 {
			t.Fatalf("Expected 2 transactions, got %d", len(transactions))
		}
		if transactions[1].Seq <= transactions[0].Seq {
			t.Errorf("Expected increasing seq, got %d then %d", transactions[0].Seq, transactions[1].Seq)
		}
	})
}
