package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/invportal/portfolio-backend/internal/model"
)

// TransactionRepository provides data access methods for the transaction ledger.
// The ledger is append-only: rows are inserted and read, never mutated.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ListUpToDate retrieves all transactions dated on or before upToDate, ordered
// by (portfolio_id, security_id, date, seq). The ordering is load-bearing: the
// holdings aggregation replays rows in exactly this order, with seq breaking
// same-date ties by insertion order.
//
// If userID is non-empty, only transactions belonging to portfolios owned by
// that user are returned. The filter is applied in SQL, before aggregation ever
// sees the rows.
func (s *TransactionRepository) ListUpToDate(upToDate time.Time, userID string) ([]model.Transaction, error) {
	query := `
		SELECT t.seq, t.id, t.portfolio_id, t.security_id, t.platform_id,
		       t.date, t.type, t.quantity, t.price, t.fee, t.created_at
		FROM "transaction" t
	`
	var args []any

	if userID != "" {
		query += `
		JOIN portfolio p ON t.portfolio_id = p.id
		WHERE t.date <= ? AND p.user_id = ?
		`
		args = append(args, upToDate.Format(dateFormat), userID)
	} else {
		query += `
		WHERE t.date <= ?
		`
		args = append(args, upToDate.Format(dateFormat))
	}

	query += `
		ORDER BY t.portfolio_id, t.security_id, t.date, t.seq
	`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction

	for rows.Next() {
		var dateStr, createdAtStr string
		var t model.Transaction

		err := rows.Scan(
			&t.Seq,
			&t.ID,
			&t.PortfolioID,
			&t.SecurityID,
			&t.PlatformID,
			&dateStr,
			&t.Type,
			&t.Quantity,
			&t.Price,
			&t.Fee,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}
		t.Date, err = ParseTime(dateStr)
		if err != nil || t.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil || t.CreatedAt.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// Insert appends a transaction to the ledger. The store assigns seq; the
// caller provides the uuid business ID.
func (s *TransactionRepository) Insert(t model.Transaction) error {
	query := `
		INSERT INTO "transaction" (id, portfolio_id, security_id, platform_id, date, type, quantity, price, fee)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		t.ID,
		t.PortfolioID,
		t.SecurityID,
		t.PlatformID,
		t.Date.Format(dateFormat),
		t.Type,
		t.Quantity,
		t.Price,
		t.Fee,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// ListPerPortfolio retrieves the enriched transaction view, optionally
// restricted to one portfolio. Results are ordered by date then seq.
func (s *TransactionRepository) ListPerPortfolio(portfolioID string) ([]model.TransactionResponse, error) {
	query := `
		SELECT
			t.id,
			t.portfolio_id,
			p.name,
			t.security_id,
			s.ticker,
			s.name,
			t.platform_id,
			ep.name,
			t.date,
			t.type,
			t.quantity,
			t.price,
			t.fee
		FROM "transaction" t
		JOIN portfolio p ON t.portfolio_id = p.id
		JOIN security s ON t.security_id = s.id
		JOIN external_platform ep ON t.platform_id = ep.id
	`

	var args []any

	if portfolioID == "" {
		query += `
		ORDER BY t.date ASC, t.seq ASC
		`
	} else {
		query += `
		WHERE t.portfolio_id = ?
		ORDER BY t.date ASC, t.seq ASC
		`
		args = append(args, portfolioID)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactionResponse := []model.TransactionResponse{}

	for rows.Next() {
		var dateStr string
		var t model.TransactionResponse

		err := rows.Scan(
			&t.ID,
			&t.PortfolioID,
			&t.PortfolioName,
			&t.SecurityID,
			&t.Ticker,
			&t.SecurityName,
			&t.PlatformID,
			&t.PlatformName,
			&dateStr,
			&t.Type,
			&t.Quantity,
			&t.Price,
			&t.Fee,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}
		t.Date, err = ParseTime(dateStr)
		if err != nil || t.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		transactionResponse = append(transactionResponse, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactionResponse, nil
}

// GetTransaction retrieves one enriched transaction by its business ID.
// Returns a zero value if the transaction does not exist.
func (s *TransactionRepository) GetTransaction(transactionID string) (model.TransactionResponse, error) {
	if transactionID == "" {
		return model.TransactionResponse{}, nil
	}

	query := `
		SELECT
			t.id,
			t.portfolio_id,
			p.name,
			t.security_id,
			s.ticker,
			s.name,
			t.platform_id,
			ep.name,
			t.date,
			t.type,
			t.quantity,
			t.price,
			t.fee
		FROM "transaction" t
		JOIN portfolio p ON t.portfolio_id = p.id
		JOIN security s ON t.security_id = s.id
		JOIN external_platform ep ON t.platform_id = ep.id
		WHERE t.id = ?
	`

	var t model.TransactionResponse
	var dateStr string
	err := s.db.QueryRow(query, transactionID).Scan(
		&t.ID,
		&t.PortfolioID,
		&t.PortfolioName,
		&t.SecurityID,
		&t.Ticker,
		&t.SecurityName,
		&t.PlatformID,
		&t.PlatformName,
		&dateStr,
		&t.Type,
		&t.Quantity,
		&t.Price,
		&t.Fee,
	)
	if err == sql.ErrNoRows {
		return model.TransactionResponse{}, nil
	}

	if err != nil {
		return t, fmt.Errorf("failed to scan transaction table results: %w", err)
	}
	t.Date, err = ParseTime(dateStr)
	if err != nil || t.Date.IsZero() {
		return t, fmt.Errorf("failed to parse date: %w", err)
	}

	return t, nil
}
