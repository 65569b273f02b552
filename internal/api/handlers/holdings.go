package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/invportal/portfolio-backend/internal/api/response"
	"github.com/invportal/portfolio-backend/internal/service"
	"github.com/invportal/portfolio-backend/internal/validation"
)

// HoldingHandler handles HTTP requests for the holdings snapshot: listing,
// CSV export and triggering a recalculation. Authorization and scheduling are
// the caller's concern; the handler only parses parameters and delegates.
type HoldingHandler struct {
	holdingService *service.HoldingService
}

// NewHoldingHandler creates a new HoldingHandler
func NewHoldingHandler(holdingService *service.HoldingService) *HoldingHandler {
	return &HoldingHandler{
		holdingService: holdingService,
	}
}

// Recalculate rebuilds the holdings snapshot for the date given in the
// required "date" query parameter. An optional "userId" restricts the
// underlying ledger to portfolios owned by that user. Responds with the
// {deleted, inserted} summary of the snapshot replace.
func (h *HoldingHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	targetDate, err := validation.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid or missing date parameter", err.Error())
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID != "" {
		if err := validation.ValidateUUID(userID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "Invalid userId parameter", err.Error())
			return
		}
	}

	summary, err := h.holdingService.RecalculateForDate(targetDate, userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to recalculate holdings", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Holdings lists stored holdings. With a "date" query parameter only that
// snapshot generation is returned; without it, all rows, newest first.
func (h *HoldingHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("date")

	if dateParam == "" {
		holdings, err := h.holdingService.GetAllHoldings()
		if err != nil {
			response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve holdings", err.Error())
			return
		}
		response.RespondJSON(w, http.StatusOK, holdings)
		return
	}

	holdingDate, err := validation.ParseDate(dateParam)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid date parameter", err.Error())
		return
	}

	holdings, err := h.holdingService.GetHoldingsForDate(holdingDate)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve holdings", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// ExportCSV streams every stored holding row as a CSV attachment.
func (h *HoldingHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.holdingService.GetAllHoldings()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve holdings", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="holdings.csv"`)

	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"id", "holding_date", "portfolio_id", "security_id", "quantity", "price", "avg_cost",
		"market_value", "price_date", "holding_cost_amt", "unreal_gain_loss_amt", "unreal_gain_loss_perc",
	}
	if err := writer.Write(header); err != nil {
		return
	}

	for _, holding := range holdings {
		priceDate := ""
		if holding.PriceDate != nil {
			priceDate = holding.PriceDate.Format("2006-01-02")
		}

		record := []string{
			holding.ID,
			holding.HoldingDate.Format("2006-01-02"),
			holding.PortfolioID,
			holding.SecurityID,
			strconv.FormatFloat(holding.Quantity, 'f', -1, 64),
			strconv.FormatFloat(holding.Price, 'f', -1, 64),
			strconv.FormatFloat(holding.AvgCost, 'f', -1, 64),
			strconv.FormatFloat(holding.MarketValue, 'f', -1, 64),
			priceDate,
			strconv.FormatFloat(holding.HoldingCostAmt, 'f', -1, 64),
			strconv.FormatFloat(holding.UnrealGainLossAmt, 'f', -1, 64),
			strconv.FormatFloat(holding.UnrealGainLossPerc, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return
		}
	}
}
