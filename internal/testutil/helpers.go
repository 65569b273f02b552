package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/invportal/portfolio-backend/internal/repository"
	"github.com/invportal/portfolio-backend/internal/service"
	"github.com/invportal/portfolio-backend/internal/yahoo"
)

func NewTestHoldingService(t *testing.T, db *sql.DB) *service.HoldingService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)
	priceRepo := repository.NewSecurityPriceRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)

	return service.NewHoldingService(
		transactionRepo,
		priceRepo,
		holdingRepo,
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)

	return service.NewTransactionService(transactionRepo)
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	portfolioRepo := repository.NewPortfolioRepository(db)

	return service.NewPortfolioService(portfolioRepo)
}

func NewTestSecurityService(t *testing.T, db *sql.DB) *service.SecurityService {
	t.Helper()

	securityRepo := repository.NewSecurityRepository(db)

	return service.NewSecurityService(securityRepo)
}

func NewTestPlatformService(t *testing.T, db *sql.DB) *service.PlatformService {
	t.Helper()

	platformRepo := repository.NewPlatformRepository(db)

	svc, err := service.NewPlatformService(platformRepo, TestFernetKey)
	if err != nil {
		t.Fatalf("Failed to create platform service: %v", err)
	}

	return svc
}

func NewTestPriceService(t *testing.T, db *sql.DB) *service.PriceService {
	t.Helper()

	return NewTestPriceServiceWithFinance(t, db, yahoo.NewFinanceClient())
}

// NewTestPriceServiceWithFinance creates a PriceService backed by the given
// finance client. Point the client at an httptest server to exercise quote
// refreshes without real API calls.
func NewTestPriceServiceWithFinance(t *testing.T, db *sql.DB, finance *yahoo.FinanceClient) *service.PriceService {
	t.Helper()

	priceRepo := repository.NewSecurityPriceRepository(db)
	securityRepo := repository.NewSecurityRepository(db)

	return service.NewPriceService(
		priceRepo,
		securityRepo,
		finance,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// TestFernetKey is a fixed base64 fernet key used only in tests.
const TestFernetKey = "cx54-LWsPS2qssQ8AUbRV5H5zhDTg4szsTHajFbyX3I="

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
