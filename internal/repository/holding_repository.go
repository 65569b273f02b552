package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/invportal/portfolio-backend/internal/model"
)

// HoldingRepository provides data access methods for the holding snapshot table.
// Snapshots are written generation-at-a-time: ReplaceForDate swaps the whole
// row set for one holding date inside a single transaction.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// ReplaceForDate deletes every holding row for holdingDate and inserts the
// given rows, all inside one transaction. A reader never observes the gap
// between delete and insert, and any failure rolls the whole replace back so
// the previous snapshot stays intact. SQLite's single-writer lock serializes
// concurrent replaces, which covers the same-date exclusivity requirement.
//
// Returns the number of rows deleted and inserted.
func (s *HoldingRepository) ReplaceForDate(holdingDate time.Time, holdings []model.Holding) (deleted, inserted int, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.Exec(`DELETE FROM holding WHERE holding_date = ?`, holdingDate.Format(dateFormat))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete holdings for date: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read deleted row count: %w", err)
	}
	deleted = int(affected)

	stmt, err := tx.Prepare(`
		INSERT INTO holding (id, holding_date, portfolio_id, security_id, quantity, price, avg_cost,
		                     market_value, price_date, holding_cost_amt, unreal_gain_loss_amt, unreal_gain_loss_perc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare holding insert: %w", err)
	}
	defer stmt.Close()

	for _, h := range holdings {
		_, err = stmt.Exec(
			h.ID,
			holdingDate.Format(dateFormat),
			h.PortfolioID,
			h.SecurityID,
			h.Quantity,
			h.Price,
			h.AvgCost,
			h.MarketValue,
			formatNullTime(h.PriceDate),
			h.HoldingCostAmt,
			h.UnrealGainLossAmt,
			h.UnrealGainLossPerc,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert holding: %w", err)
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit snapshot replace: %w", err)
	}

	return deleted, inserted, nil
}

// ListForDate retrieves the holdings snapshot for one date, ordered by
// (portfolio_id, security_id).
func (s *HoldingRepository) ListForDate(holdingDate time.Time) ([]model.Holding, error) {
	query := holdingSelect + `
		WHERE holding_date = ?
		ORDER BY portfolio_id, security_id
	`
	return s.queryHoldings(query, holdingDate.Format(dateFormat))
}

// ListAll retrieves every stored holding row, newest snapshot first.
func (s *HoldingRepository) ListAll() ([]model.Holding, error) {
	query := holdingSelect + `
		ORDER BY holding_date DESC, portfolio_id, security_id
	`
	return s.queryHoldings(query)
}

const holdingSelect = `
		SELECT id, holding_date, portfolio_id, security_id, quantity, price, avg_cost,
		       market_value, price_date, holding_cost_amt, unreal_gain_loss_amt, unreal_gain_loss_perc, created_at
		FROM holding
`

func (s *HoldingRepository) queryHoldings(query string, args ...any) ([]model.Holding, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}

	for rows.Next() {
		var h model.Holding
		var holdingDateStr, createdAtStr string
		var priceDateStr sql.NullString

		err := rows.Scan(
			&h.ID,
			&holdingDateStr,
			&h.PortfolioID,
			&h.SecurityID,
			&h.Quantity,
			&h.Price,
			&h.AvgCost,
			&h.MarketValue,
			&priceDateStr,
			&h.HoldingCostAmt,
			&h.UnrealGainLossAmt,
			&h.UnrealGainLossPerc,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding table results: %w", err)
		}

		h.HoldingDate, err = ParseTime(holdingDateStr)
		if err != nil || h.HoldingDate.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		h.PriceDate, err = parseNullTime(priceDateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		h.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil || h.CreatedAt.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}
