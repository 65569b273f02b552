package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/invportal/portfolio-backend/internal/model"
	"github.com/invportal/portfolio-backend/internal/repository"
)

// HoldingService owns the holdings snapshot: it replays the transaction ledger
// up to a target date, resolves valuation prices and atomically replaces the
// stored snapshot for that date. Each run is memoryless; the stored rows for a
// date are always a pure function of ledger and price state at call time.
type HoldingService struct {
	transactionRepo *repository.TransactionRepository
	priceRepo       *repository.SecurityPriceRepository
	holdingRepo     *repository.HoldingRepository
}

// NewHoldingService creates a new HoldingService
func NewHoldingService(
	transactionRepo *repository.TransactionRepository,
	priceRepo *repository.SecurityPriceRepository,
	holdingRepo *repository.HoldingRepository,
) *HoldingService {
	return &HoldingService{
		transactionRepo: transactionRepo,
		priceRepo:       priceRepo,
		holdingRepo:     holdingRepo,
	}
}

// RecalculateForDate recomputes the holdings snapshot for targetDate and
// replaces the stored generation for that date.
//
// The run is synchronous and single-threaded: read the ordered ledger
// (optionally restricted to portfolios owned by userID), aggregate net
// quantity and moving-average cost per (portfolio, security), resolve a
// valuation price per surviving position, derive the valuation fields, then
// swap the snapshot in one transaction. Any error aborts the whole run and
// leaves the previous snapshot untouched.
func (s *HoldingService) RecalculateForDate(targetDate time.Time, userID string) (model.RecalcSummary, error) {
	transactions, err := s.transactionRepo.ListUpToDate(targetDate, userID)
	if err != nil {
		return model.RecalcSummary{}, fmt.Errorf("failed to read transaction ledger: %w", err)
	}

	positions := aggregatePositions(transactions)

	holdings := make([]model.Holding, 0, len(positions))
	for _, pos := range positions {
		price, priceDate, err := s.resolvePrice(pos, targetDate)
		if err != nil {
			return model.RecalcSummary{}, err
		}

		v := computeValuation(pos.Quantity, pos.AvgCost, price)

		holdings = append(holdings, model.Holding{
			ID:                 uuid.NewString(),
			HoldingDate:        targetDate,
			PortfolioID:        pos.Key.PortfolioID,
			SecurityID:         pos.Key.SecurityID,
			Quantity:           pos.Quantity,
			Price:              price,
			AvgCost:            pos.AvgCost,
			MarketValue:        v.MarketValue,
			PriceDate:          priceDate,
			HoldingCostAmt:     v.HoldingCostAmt,
			UnrealGainLossAmt:  v.UnrealGainLossAmt,
			UnrealGainLossPerc: v.UnrealGainLossPerc,
		})
	}

	deleted, inserted, err := s.holdingRepo.ReplaceForDate(targetDate, holdings)
	if err != nil {
		return model.RecalcSummary{}, fmt.Errorf("failed to replace holdings snapshot: %w", err)
	}

	return model.RecalcSummary{Deleted: deleted, Inserted: inserted}, nil
}

// resolvePrice returns the valuation price and its date for one position.
//
// Order of preference: the latest stored quote on or before the target date,
// then the position's last transaction price when strictly positive, then the
// explicit unpriced state (0, nil). Missing price data is never an error.
func (s *HoldingService) resolvePrice(pos position, targetDate time.Time) (float64, *time.Time, error) {
	quote, found, err := s.priceRepo.LatestOnOrBefore(pos.Key.SecurityID, targetDate)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to resolve price: %w", err)
	}
	if found {
		priceDate := quote.PriceDate
		return quote.Price, &priceDate, nil
	}

	if pos.LastTxPrice > 0 {
		lastDate := pos.LastTxDate
		return pos.LastTxPrice, &lastDate, nil
	}

	return 0, nil, nil
}

// GetHoldingsForDate returns the stored snapshot for one date.
func (s *HoldingService) GetHoldingsForDate(holdingDate time.Time) ([]model.Holding, error) {
	return s.holdingRepo.ListForDate(holdingDate)
}

// GetAllHoldings returns every stored holding row, newest snapshot first.
func (s *HoldingService) GetAllHoldings() ([]model.Holding, error) {
	return s.holdingRepo.ListAll()
}
