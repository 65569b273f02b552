package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with internal/database/migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Portfolio table
		CREATE TABLE portfolio (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			name VARCHAR(100) NOT NULL,
			open_date DATE NOT NULL,
			close_date DATE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Security table
		CREATE TABLE security (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(10) NOT NULL UNIQUE,
			name VARCHAR(100) NOT NULL,
			company_name VARCHAR(255) NOT NULL,
			currency VARCHAR(3) NOT NULL DEFAULT 'USD',
			is_private BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- External platform table
		CREATE TABLE external_platform (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE,
			platform_type VARCHAR(30) NOT NULL,
			api_token TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Transaction ledger (quoted because transaction is a reserved keyword).
		-- seq is the insertion-order tie-break for same-date transactions.
		CREATE TABLE "transaction" (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id VARCHAR(36) NOT NULL UNIQUE,
			portfolio_id VARCHAR(36) NOT NULL,
			security_id VARCHAR(36) NOT NULL,
			platform_id VARCHAR(36) NOT NULL,
			date DATE NOT NULL,
			type VARCHAR(4) NOT NULL,
			quantity FLOAT NOT NULL,
			price FLOAT NOT NULL,
			fee FLOAT NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolio(id) ON DELETE CASCADE,
			FOREIGN KEY(security_id) REFERENCES security(id),
			FOREIGN KEY(platform_id) REFERENCES external_platform(id)
		);

		-- Security price table with natural-key uniqueness
		CREATE TABLE security_price (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id VARCHAR(36) NOT NULL UNIQUE,
			security_id VARCHAR(36) NOT NULL,
			platform_id VARCHAR(36) NOT NULL,
			price_date DATE NOT NULL,
			price FLOAT NOT NULL,
			open_px FLOAT,
			close_px FLOAT,
			high_px FLOAT,
			low_px FLOAT,
			volume FLOAT,
			currency VARCHAR(3) NOT NULL DEFAULT 'USD',
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(security_id) REFERENCES security(id),
			FOREIGN KEY(platform_id) REFERENCES external_platform(id),
			CONSTRAINT unique_security_price UNIQUE (security_id, platform_id, price_date)
		);

		-- Holdings snapshot table
		CREATE TABLE holding (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			holding_date DATE NOT NULL,
			portfolio_id VARCHAR(36) NOT NULL,
			security_id VARCHAR(36) NOT NULL,
			quantity FLOAT NOT NULL,
			price FLOAT NOT NULL,
			avg_cost FLOAT NOT NULL DEFAULT 0,
			market_value FLOAT NOT NULL,
			price_date DATE,
			holding_cost_amt FLOAT NOT NULL DEFAULT 0,
			unreal_gain_loss_amt FLOAT NOT NULL DEFAULT 0,
			unreal_gain_loss_perc FLOAT NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolio(id) ON DELETE CASCADE,
			FOREIGN KEY(security_id) REFERENCES security(id)
		);

		-- Indexes for performance
		CREATE INDEX ix_transaction_date ON "transaction"(date);
		CREATE INDEX ix_transaction_portfolio_security ON "transaction"(portfolio_id, security_id, date);
		CREATE INDEX ix_security_price_lookup ON security_price(security_id, price_date);
		CREATE INDEX ix_holding_date ON holding(holding_date);
		CREATE INDEX ix_holding_portfolio ON holding(portfolio_id);
		CREATE INDEX ix_portfolio_user ON portfolio(user_id);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables in dependency order.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	// Order matters: delete children before parents due to foreign keys
	tables := []string{
		"holding",
		"security_price",
		"transaction",
		"external_platform",
		"security",
		"portfolio",
	}

	for _, table := range tables {
		query := `DELETE FROM "` + table + `"`
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := `SELECT COUNT(*) FROM "` + table + `"`
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}
