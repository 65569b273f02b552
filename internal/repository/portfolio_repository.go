package repository

import (
	"database/sql"
	"fmt"

	"github.com/invportal/portfolio-backend/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetAllPortfolios retrieves all portfolios ordered by name.
func (s *PortfolioRepository) GetAllPortfolios() ([]model.Portfolio, error) {
	query := `
		SELECT id, user_id, name, open_date, close_date
		FROM portfolio
		ORDER BY name ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		var p model.Portfolio
		var openDateStr string
		var closeDateStr sql.NullString

		err := rows.Scan(&p.ID, &p.UserID, &p.Name, &openDateStr, &closeDateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}

		p.OpenDate, err = ParseTime(openDateStr)
		if err != nil || p.OpenDate.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		p.CloseDate, err = parseNullTime(closeDateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolioIDsForUser returns the IDs of all portfolios owned by the given user.
func (s *PortfolioRepository) GetPortfolioIDsForUser(userID string) ([]string, error) {
	query := `
		SELECT id
		FROM portfolio
		WHERE user_id = ?
	`

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return ids, nil
}

// Insert creates a new portfolio row.
func (s *PortfolioRepository) Insert(p model.Portfolio) error {
	query := `
		INSERT INTO portfolio (id, user_id, name, open_date, close_date)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query, p.ID, p.UserID, p.Name, p.OpenDate.Format(dateFormat), formatNullTime(p.CloseDate))
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return nil
}
