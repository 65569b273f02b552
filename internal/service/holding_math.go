package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/invportal/portfolio-backend/internal/model"
)

// positionKey identifies one (portfolio, security) pair during ledger replay.
type positionKey struct {
	PortfolioID string
	SecurityID  string
}

// position is the running cost-basis state for one key, built transaction by
// transaction. LastTxPrice/LastTxDate are tracked alongside the state machine
// because the price resolver falls back to them when no quote exists.
type position struct {
	Key         positionKey
	Quantity    float64
	AvgCost     float64
	LastTxPrice float64
	LastTxDate  time.Time
}

// normalizeTransactionType maps accepted ledger codes to the short form.
// Returns false for anything other than a buy or sell; such rows are ignored
// by the replay, not treated as errors.
func normalizeTransactionType(ttype string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(ttype)) {
	case "B", "BUY":
		return model.TransactionTypeBuy, true
	case "S", "SELL":
		return model.TransactionTypeSell, true
	default:
		return "", false
	}
}

// apply folds one transaction into the position.
//
// A buy blends into the running weighted average:
//
//	new_avg = (cur_qty*cur_avg + qty*price) / new_qty
//
// A sell leaves the average cost of the remainder unchanged; once the position
// is closed (or over-sold into negative territory) the average resets to zero,
// so a later re-entry starts a fresh basis instead of blending with the closed
// lot. Negative quantities are kept as-is; the snapshot filter drops them.
func (p *position) apply(quantity, price float64, ttype string) {
	switch ttype {
	case model.TransactionTypeBuy:
		newQty := p.Quantity + quantity
		if newQty > 0 {
			p.AvgCost = (p.Quantity*p.AvgCost + quantity*price) / newQty
		} else {
			p.AvgCost = 0
		}
		p.Quantity = newQty
	case model.TransactionTypeSell:
		p.Quantity -= quantity
		if p.Quantity <= 0 {
			p.AvgCost = 0
		}
	}
}

// aggregatePositions replays the ordered ledger and returns one position per
// (portfolio, security) key that still has a positive net quantity, sorted by
// key. Quantities are rounded to six decimal places so buy/sell cycles don't
// leak float residue into valuation.
//
// The input must already be ordered by (portfolio_id, security_id, date, seq);
// the replay folds rows in the order given.
func aggregatePositions(transactions []model.Transaction) []position {
	byKey := make(map[positionKey]*position)

	for _, t := range transactions {
		key := positionKey{PortfolioID: t.PortfolioID, SecurityID: t.SecurityID}
		pos, ok := byKey[key]
		if !ok {
			pos = &position{Key: key}
			byKey[key] = pos
		}

		// Last transaction info is tracked for every row, including types
		// the cost-basis replay ignores.
		pos.LastTxPrice = t.Price
		pos.LastTxDate = t.Date

		ttype, ok := normalizeTransactionType(t.Type)
		if !ok {
			continue
		}
		pos.apply(t.Quantity, t.Price, ttype)
	}

	survivors := make([]position, 0, len(byKey))
	for _, pos := range byKey {
		if pos.Quantity <= 0 {
			continue
		}
		p := *pos
		p.Quantity = roundTo(p.Quantity, 6)
		survivors = append(survivors, p)
	}

	sort.Slice(survivors, func(i, j int) bool {
		if survivors[i].Key.PortfolioID != survivors[j].Key.PortfolioID {
			return survivors[i].Key.PortfolioID < survivors[j].Key.PortfolioID
		}
		return survivors[i].Key.SecurityID < survivors[j].Key.SecurityID
	})

	return survivors
}

// valuation holds the derived monetary fields for one snapshot row.
type valuation struct {
	MarketValue        float64
	HoldingCostAmt     float64
	UnrealGainLossAmt  float64
	UnrealGainLossPerc float64
}

// computeValuation derives market value, cost amount and unrealized gain/loss
// from quantity, average cost and the resolved price. Amounts are rounded to
// two decimals, the percentage to four. A zero cost amount yields a zero
// percentage rather than a division by zero.
func computeValuation(quantity, avgCost, price float64) valuation {
	marketValue := roundTo(quantity*price, 2)
	costAmt := roundTo(quantity*avgCost, 2)
	gainLossAmt := roundTo(marketValue-costAmt, 2)

	var gainLossPerc float64
	if costAmt != 0 {
		gainLossPerc = roundTo(gainLossAmt/costAmt*100, 4)
	}

	return valuation{
		MarketValue:        marketValue,
		HoldingCostAmt:     costAmt,
		UnrealGainLossAmt:  gainLossAmt,
		UnrealGainLossPerc: gainLossPerc,
	}
}

// roundTo rounds half away from zero at the given number of decimal places.
func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
