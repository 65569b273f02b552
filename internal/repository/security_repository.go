package repository

import (
	"database/sql"
	"fmt"

	"github.com/invportal/portfolio-backend/internal/model"
)

// SecurityRepository provides data access methods for the security table.
type SecurityRepository struct {
	db *sql.DB
}

// NewSecurityRepository creates a new SecurityRepository with the provided database connection.
func NewSecurityRepository(db *sql.DB) *SecurityRepository {
	return &SecurityRepository{db: db}
}

// GetAllSecurities retrieves all securities ordered by ticker.
// If publicOnly is true, private securities are excluded.
func (s *SecurityRepository) GetAllSecurities(publicOnly bool) ([]model.Security, error) {
	query := `
		SELECT id, ticker, name, company_name, currency, is_private
		FROM security
	`
	if publicOnly {
		query += `
		WHERE is_private = FALSE
		`
	}
	query += `
		ORDER BY ticker ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query security table: %w", err)
	}
	defer rows.Close()

	securities := []model.Security{}

	for rows.Next() {
		var sec model.Security
		err := rows.Scan(&sec.ID, &sec.Ticker, &sec.Name, &sec.CompanyName, &sec.Currency, &sec.IsPrivate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan security table results: %w", err)
		}
		securities = append(securities, sec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating security table: %w", err)
	}

	return securities, nil
}

// GetByTicker retrieves a security by its ticker symbol.
// Returns sql.ErrNoRows wrapped if the ticker is unknown.
func (s *SecurityRepository) GetByTicker(ticker string) (model.Security, error) {
	query := `
		SELECT id, ticker, name, company_name, currency, is_private
		FROM security
		WHERE ticker = ?
	`

	var sec model.Security
	err := s.db.QueryRow(query, ticker).Scan(&sec.ID, &sec.Ticker, &sec.Name, &sec.CompanyName, &sec.Currency, &sec.IsPrivate)
	if err != nil {
		return model.Security{}, fmt.Errorf("failed to query security by ticker: %w", err)
	}

	return sec, nil
}

// Insert creates a new security row.
func (s *SecurityRepository) Insert(sec model.Security) error {
	query := `
		INSERT INTO security (id, ticker, name, company_name, currency, is_private)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query, sec.ID, sec.Ticker, sec.Name, sec.CompanyName, sec.Currency, sec.IsPrivate)
	if err != nil {
		return fmt.Errorf("failed to insert security: %w", err)
	}

	return nil
}
