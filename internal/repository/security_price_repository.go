package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/invportal/portfolio-backend/internal/model"
)

// SecurityPriceRepository provides data access methods for the security_price table.
// Writes go through a natural-key upsert: (security_id, platform_id, price_date)
// decides whether a quote is inserted or updates an existing row.
type SecurityPriceRepository struct {
	db *sql.DB
}

// NewSecurityPriceRepository creates a new SecurityPriceRepository with the provided database connection.
func NewSecurityPriceRepository(db *sql.DB) *SecurityPriceRepository {
	return &SecurityPriceRepository{db: db}
}

// LatestOnOrBefore returns the most recent quote for the security with
// price_date <= asOf. Same-date ties go to the most recently inserted row
// (highest seq). The second return value is false when no quote qualifies;
// that is not an error.
func (s *SecurityPriceRepository) LatestOnOrBefore(securityID string, asOf time.Time) (model.SecurityPrice, bool, error) {
	query := `
		SELECT seq, id, security_id, platform_id, price_date, price, currency
		FROM security_price
		WHERE security_id = ? AND price_date <= ?
		ORDER BY price_date DESC, seq DESC
		LIMIT 1
	`

	var p model.SecurityPrice
	var dateStr string
	err := s.db.QueryRow(query, securityID, asOf.Format(dateFormat)).Scan(
		&p.Seq,
		&p.ID,
		&p.SecurityID,
		&p.PlatformID,
		&dateStr,
		&p.Price,
		&p.Currency,
	)
	if err == sql.ErrNoRows {
		return model.SecurityPrice{}, false, nil
	}
	if err != nil {
		return model.SecurityPrice{}, false, fmt.Errorf("failed to query security_price table: %w", err)
	}

	p.PriceDate, err = ParseTime(dateStr)
	if err != nil || p.PriceDate.IsZero() {
		return model.SecurityPrice{}, false, fmt.Errorf("failed to parse date: %w", err)
	}

	return p, true, nil
}

// Upsert inserts the quote, or updates the existing row carrying the same
// natural key (security_id, platform_id, price_date). The row keeps its seq
// on update, so a refreshed quote does not jump ahead of later inserts.
func (s *SecurityPriceRepository) Upsert(p model.SecurityPrice) error {
	query := `
		INSERT INTO security_price (id, security_id, platform_id, price_date, price, open_px, close_px, high_px, low_px, volume, currency, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (security_id, platform_id, price_date) DO UPDATE SET
			price = excluded.price,
			open_px = excluded.open_px,
			close_px = excluded.close_px,
			high_px = excluded.high_px,
			low_px = excluded.low_px,
			volume = excluded.volume,
			currency = excluded.currency,
			notes = excluded.notes
	`

	_, err := s.db.Exec(query,
		p.ID,
		p.SecurityID,
		p.PlatformID,
		p.PriceDate.Format(dateFormat),
		p.Price,
		p.OpenPx,
		p.ClosePx,
		p.HighPx,
		p.LowPx,
		p.Volume,
		p.Currency,
		p.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert security price: %w", err)
	}

	return nil
}

// ListByRange retrieves quotes for one security within [from, to], oldest first.
func (s *SecurityPriceRepository) ListByRange(securityID string, from, to time.Time) ([]model.SecurityPrice, error) {
	query := `
		SELECT seq, id, security_id, platform_id, price_date, price, currency
		FROM security_price
		WHERE security_id = ? AND price_date >= ? AND price_date <= ?
		ORDER BY price_date ASC, seq ASC
	`

	rows, err := s.db.Query(query, securityID, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query security_price table: %w", err)
	}
	defer rows.Close()

	prices := []model.SecurityPrice{}

	for rows.Next() {
		var p model.SecurityPrice
		var dateStr string

		err := rows.Scan(&p.Seq, &p.ID, &p.SecurityID, &p.PlatformID, &dateStr, &p.Price, &p.Currency)
		if err != nil {
			return nil, fmt.Errorf("failed to scan security_price table results: %w", err)
		}

		p.PriceDate, err = ParseTime(dateStr)
		if err != nil || p.PriceDate.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		prices = append(prices, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating security_price table: %w", err)
	}

	return prices, nil
}
