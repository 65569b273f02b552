package model

import "time"

// SecurityPrice represents one price quote from the database.
// The natural key (security_id, platform_id, price_date) decides
// insert-vs-update during ingestion; Seq is assigned on insert and breaks
// ties when several quotes share a price date (most recent insert wins).
type SecurityPrice struct {
	ID         string    `json:"id"`
	Seq        int64     `json:"seq"`
	SecurityID string    `json:"securityId"`
	PlatformID string    `json:"platformId"`
	PriceDate  time.Time `json:"priceDate"`
	Price      float64   `json:"price"`
	OpenPx     *float64  `json:"openPx,omitempty"`
	ClosePx    *float64  `json:"closePx,omitempty"`
	HighPx     *float64  `json:"highPx,omitempty"`
	LowPx      *float64  `json:"lowPx,omitempty"`
	Volume     *float64  `json:"volume,omitempty"`
	Currency   string    `json:"currency"`
	Notes      string    `json:"notes,omitempty"`
}

// PriceImportSummary reports the outcome of a bulk price import.
type PriceImportSummary struct {
	TotalRows      int      `json:"totalRows"`
	Imported       int      `json:"imported"`
	SkippedTickers []string `json:"skippedTickers,omitempty"`
	SkippedRows    int      `json:"skippedRows"`
}
