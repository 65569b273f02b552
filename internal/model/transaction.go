package model

import "time"

// Transaction types accepted by the ledger. Short codes are what the store
// persists; the long forms are accepted on input and normalized.
const (
	TransactionTypeBuy  = "B"
	TransactionTypeSell = "S"
)

// Transaction represents one row of the append-only transaction ledger.
// Seq is assigned by the store on insert and is a strictly increasing
// tie-break for transactions sharing the same date.
type Transaction struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"seq"`
	PortfolioID string    `json:"portfolioId"`
	SecurityID  string    `json:"securityId"`
	PlatformID  string    `json:"platformId"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Quantity    float64   `json:"quantity"`
	Price       float64   `json:"price"`
	Fee         float64   `json:"fee"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// TransactionResponse represents a transaction with enriched data for API
// responses. Includes portfolio, security and platform names.
type TransactionResponse struct {
	ID            string    `json:"id"`
	PortfolioID   string    `json:"portfolioId"`
	PortfolioName string    `json:"portfolioName"`
	SecurityID    string    `json:"securityId"`
	Ticker        string    `json:"ticker"`
	SecurityName  string    `json:"securityName"`
	PlatformID    string    `json:"platformId"`
	PlatformName  string    `json:"platformName"`
	Date          time.Time `json:"date"`
	Type          string    `json:"type"`
	Quantity      float64   `json:"quantity"`
	Price         float64   `json:"price"`
	Fee           float64   `json:"fee"`
}
