package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/invportal/portfolio-backend/internal/model"
)

const dateFormat = "2006-01-02"

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    WithUserID(userID).
//	    Build(t, db)
type PortfolioBuilder struct {
	ID       string
	UserID   string
	Name     string
	OpenDate time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:       MakeID(),
		UserID:   MakeID(),
		Name:     MakePortfolioName("Test Portfolio"),
		OpenDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithUserID sets the owning user.
func (b *PortfolioBuilder) WithUserID(userID string) *PortfolioBuilder {
	b.UserID = userID
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, user_id, name, open_date)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.Name, b.OpenDate.Format(dateFormat))
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:       b.ID,
		UserID:   b.UserID,
		Name:     b.Name,
		OpenDate: b.OpenDate,
	}
}

// SecurityBuilder provides a fluent interface for creating test securities.
type SecurityBuilder struct {
	ID          string
	Ticker      string
	Name        string
	CompanyName string
	Currency    string
	IsPrivate   bool
}

// NewSecurity creates a SecurityBuilder with sensible defaults.
func NewSecurity() *SecurityBuilder {
	ticker := MakeSymbol("TST")
	return &SecurityBuilder{
		ID:          MakeID(),
		Ticker:      ticker,
		Name:        ticker + " Security",
		CompanyName: ticker + " Inc",
		Currency:    "USD",
		IsPrivate:   false,
	}
}

// WithID sets a custom ID.
func (b *SecurityBuilder) WithID(id string) *SecurityBuilder {
	b.ID = id
	return b
}

// WithTicker sets a custom ticker.
func (b *SecurityBuilder) WithTicker(ticker string) *SecurityBuilder {
	b.Ticker = ticker
	return b
}

// WithName sets a custom name.
func (b *SecurityBuilder) WithName(name string) *SecurityBuilder {
	b.Name = name
	return b
}

// WithCurrency sets a custom currency.
func (b *SecurityBuilder) WithCurrency(currency string) *SecurityBuilder {
	b.Currency = currency
	return b
}

// Private marks the security as privately traded.
func (b *SecurityBuilder) Private() *SecurityBuilder {
	b.IsPrivate = true
	return b
}

// Build creates the security in the database and returns it.
func (b *SecurityBuilder) Build(t *testing.T, db *sql.DB) model.Security {
	t.Helper()

	query := `
		INSERT INTO security (id, ticker, name, company_name, currency, is_private)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Ticker, b.Name, b.CompanyName, b.Currency, b.IsPrivate)
	if err != nil {
		t.Fatalf("Failed to create test security: %v", err)
	}

	return model.Security{
		ID:          b.ID,
		Ticker:      b.Ticker,
		Name:        b.Name,
		CompanyName: b.CompanyName,
		Currency:    b.Currency,
		IsPrivate:   b.IsPrivate,
	}
}

// PlatformBuilder provides a fluent interface for creating test platforms.
type PlatformBuilder struct {
	ID       string
	Name     string
	Type     string
	APIToken string
}

// NewPlatform creates a PlatformBuilder with sensible defaults.
func NewPlatform() *PlatformBuilder {
	return &PlatformBuilder{
		ID:   MakeID(),
		Name: MakePortfolioName("Test Platform"),
		Type: "Trading Platform",
	}
}

// WithID sets a custom ID.
func (b *PlatformBuilder) WithID(id string) *PlatformBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PlatformBuilder) WithName(name string) *PlatformBuilder {
	b.Name = name
	return b
}

// WithType sets a custom platform type.
func (b *PlatformBuilder) WithType(platformType string) *PlatformBuilder {
	b.Type = platformType
	return b
}

// Build creates the platform in the database and returns it.
func (b *PlatformBuilder) Build(t *testing.T, db *sql.DB) model.Platform {
	t.Helper()

	query := `
		INSERT INTO external_platform (id, name, platform_type, api_token)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Type, b.APIToken)
	if err != nil {
		t.Fatalf("Failed to create test platform: %v", err)
	}

	return model.Platform{
		ID:       b.ID,
		Name:     b.Name,
		Type:     b.Type,
		APIToken: b.APIToken,
	}
}

// TransactionBuilder provides a fluent interface for creating test
// transactions. The ledger assigns seq on insert, so building transactions
// in order gives them increasing seq values.
//
// Example usage:
//
//	tx := testutil.NewTransaction(portfolio.ID, security.ID, platform.ID).
//	    Buy(10, 100.0).
//	    OnDate("2024-01-15").
//	    Build(t, db)
type TransactionBuilder struct {
	ID          string
	PortfolioID string
	SecurityID  string
	PlatformID  string
	Date        time.Time
	Type        string
	Quantity    float64
	Price       float64
	Fee         float64
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction(portfolioID, securityID, platformID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		SecurityID:  securityID,
		PlatformID:  platformID,
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Type:        model.TransactionTypeBuy,
		Quantity:    10,
		Price:       100,
	}
}

// Buy makes the transaction a buy with the given quantity and price.
func (b *TransactionBuilder) Buy(quantity, price float64) *TransactionBuilder {
	b.Type = model.TransactionTypeBuy
	b.Quantity = quantity
	b.Price = price
	return b
}

// Sell makes the transaction a sell with the given quantity and price.
func (b *TransactionBuilder) Sell(quantity, price float64) *TransactionBuilder {
	b.Type = model.TransactionTypeSell
	b.Quantity = quantity
	b.Price = price
	return b
}

// WithType sets a raw transaction type. Useful for testing how the replay
// treats unknown or long-form type codes.
func (b *TransactionBuilder) WithType(txType string) *TransactionBuilder {
	b.Type = txType
	return b
}

// WithFee sets the transaction fee.
func (b *TransactionBuilder) WithFee(fee float64) *TransactionBuilder {
	b.Fee = fee
	return b
}

// OnDate sets the transaction date from a "2006-01-02" string.
func (b *TransactionBuilder) OnDate(date string) *TransactionBuilder {
	parsed, err := time.Parse(dateFormat, date)
	if err != nil {
		panic("invalid test date: " + date)
	}
	b.Date = parsed
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO "transaction" (id, portfolio_id, security_id, platform_id, date, type, quantity, price, fee)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.PortfolioID, b.SecurityID, b.PlatformID,
		b.Date.Format(dateFormat), b.Type, b.Quantity, b.Price, b.Fee,
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	var seq int64
	if err := db.QueryRow(`SELECT seq FROM "transaction" WHERE id = ?`, b.ID).Scan(&seq); err != nil {
		t.Fatalf("Failed to read back transaction seq: %v", err)
	}

	return model.Transaction{
		ID:          b.ID,
		Seq:         seq,
		PortfolioID: b.PortfolioID,
		SecurityID:  b.SecurityID,
		PlatformID:  b.PlatformID,
		Date:        b.Date,
		Type:        b.Type,
		Quantity:    b.Quantity,
		Price:       b.Price,
		Fee:         b.Fee,
	}
}

// PriceBuilder provides a fluent interface for creating test security prices.
type PriceBuilder struct {
	ID         string
	SecurityID string
	PlatformID string
	PriceDate  time.Time
	Price      float64
	Currency   string
}

// NewPrice creates a PriceBuilder with sensible defaults.
func NewPrice(securityID, platformID string) *PriceBuilder {
	return &PriceBuilder{
		ID:         MakeID(),
		SecurityID: securityID,
		PlatformID: platformID,
		PriceDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Price:      100,
		Currency:   "USD",
	}
}

// WithPrice sets the quote price.
func (b *PriceBuilder) WithPrice(price float64) *PriceBuilder {
	b.Price = price
	return b
}

// OnDate sets the price date from a "2006-01-02" string.
func (b *PriceBuilder) OnDate(date string) *PriceBuilder {
	parsed, err := time.Parse(dateFormat, date)
	if err != nil {
		panic("invalid test date: " + date)
	}
	b.PriceDate = parsed
	return b
}

// Build creates the price in the database and returns it.
func (b *PriceBuilder) Build(t *testing.T, db *sql.DB) model.SecurityPrice {
	t.Helper()

	query := `
		INSERT INTO security_price (id, security_id, platform_id, price_date, price, currency)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.SecurityID, b.PlatformID,
		b.PriceDate.Format(dateFormat), b.Price, b.Currency,
	)
	if err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}

	var seq int64
	if err := db.QueryRow(`SELECT seq FROM security_price WHERE id = ?`, b.ID).Scan(&seq); err != nil {
		t.Fatalf("Failed to read back price seq: %v", err)
	}

	return model.SecurityPrice{
		ID:         b.ID,
		Seq:        seq,
		SecurityID: b.SecurityID,
		PlatformID: b.PlatformID,
		PriceDate:  b.PriceDate,
		Price:      b.Price,
		Currency:   b.Currency,
	}
}

// Convenience functions

// CreatePortfolio creates a portfolio with the given name and default values.
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// CreateSecurity creates a security with the given ticker and default values.
func CreateSecurity(t *testing.T, db *sql.DB, ticker string) model.Security {
	t.Helper()
	return NewSecurity().WithTicker(ticker).Build(t, db)
}

// CreatePlatform creates a platform with the given name and default values.
func CreatePlatform(t *testing.T, db *sql.DB, name string) model.Platform {
	t.Helper()
	return NewPlatform().WithName(name).Build(t, db)
}

// CreateBuy inserts a buy transaction on the given date.
func CreateBuy(t *testing.T, db *sql.DB, portfolioID, securityID, platformID, date string, quantity, price float64) model.Transaction {
	t.Helper()
	return NewTransaction(portfolioID, securityID, platformID).
		Buy(quantity, price).
		OnDate(date).
		Build(t, db)
}

// CreateSell inserts a sell transaction on the given date.
func CreateSell(t *testing.T, db *sql.DB, portfolioID, securityID, platformID, date string, quantity, price float64) model.Transaction {
	t.Helper()
	return NewTransaction(portfolioID, securityID, platformID).
		Sell(quantity, price).
		OnDate(date).
		Build(t, db)
}

// CreatePrice inserts a price quote on the given date.
func CreatePrice(t *testing.T, db *sql.DB, securityID, platformID, date string, price float64) model.SecurityPrice {
	t.Helper()
	return NewPrice(securityID, platformID).
		WithPrice(price).
		OnDate(date).
		Build(t, db)
}
