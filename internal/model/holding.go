package model

import "time"

// Holding represents one row of the holdings snapshot for a given holding date.
// A whole generation (all rows for one date) is replaced atomically whenever
// the snapshot is recalculated; rows are never patched individually.
type Holding struct {
	ID                 string     `json:"id"`
	HoldingDate        time.Time  `json:"holdingDate"`
	PortfolioID        string     `json:"portfolioId"`
	SecurityID         string     `json:"securityId"`
	Quantity           float64    `json:"quantity"`
	Price              float64    `json:"price"`
	AvgCost            float64    `json:"avgCost"`
	MarketValue        float64    `json:"marketValue"`
	PriceDate          *time.Time `json:"priceDate,omitempty"`
	HoldingCostAmt     float64    `json:"holdingCostAmt"`
	UnrealGainLossAmt  float64    `json:"unrealGainLossAmt"`
	UnrealGainLossPerc float64    `json:"unrealGainLossPerc"`
	CreatedAt          time.Time  `json:"createdAt,omitempty"`
}

// RecalcSummary reports the outcome of one snapshot recalculation:
// how many rows of the previous generation were deleted and how many
// newly computed rows were inserted.
type RecalcSummary struct {
	Deleted  int `json:"deleted"`
	Inserted int `json:"inserted"`
}
