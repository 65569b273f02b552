package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/invportal/portfolio-backend/internal/api/response"
	"github.com/invportal/portfolio-backend/internal/model"
	"github.com/invportal/portfolio-backend/internal/service"
	"github.com/invportal/portfolio-backend/internal/validation"
)

// maxImportSize caps price CSV uploads at 16 MiB.
const maxImportSize = 16 << 20

// PriceHandler handles security price HTTP requests: range queries, bulk
// upserts, CSV imports and quote refreshes.
type PriceHandler struct {
	priceService *service.PriceService
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(priceService *service.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

// Prices returns quotes for the ticker in the required "ticker" query
// parameter, bounded by optional "from"/"to" dates.
func (h *PriceHandler) Prices(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		response.RespondError(w, http.StatusBadRequest, "Missing ticker parameter", nil)
		return
	}

	from, err := validation.ParseDateOrDefault(r.URL.Query().Get("from"), time.Time{})
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid from parameter", err.Error())
		return
	}
	to, err := validation.ParseDateOrDefault(r.URL.Query().Get("to"), time.Now().UTC())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid to parameter", err.Error())
		return
	}
	if to.Before(from) {
		response.RespondError(w, http.StatusBadRequest, "Invalid date range", "from is after to")
		return
	}

	prices, err := h.priceService.GetPricesByTicker(ticker, from, to)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve prices", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, prices)
}

// BulkSave upserts a JSON array of quotes keyed by their natural key.
func (h *PriceHandler) BulkSave(w http.ResponseWriter, r *http.Request) {
	var prices []model.SecurityPrice
	if err := json.NewDecoder(r.Body).Decode(&prices); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(prices) == 0 {
		response.RespondJSON(w, http.StatusOK, model.PriceImportSummary{})
		return
	}

	for _, p := range prices {
		if err := validation.ValidateUUID(p.SecurityID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "Invalid securityId in request body", err.Error())
			return
		}
		if err := validation.ValidateUUID(p.PlatformID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "Invalid platformId in request body", err.Error())
			return
		}
	}

	if err := h.priceService.SavePrices(prices); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to save prices", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, model.PriceImportSummary{TotalRows: len(prices), Imported: len(prices)})
}

// ImportCSV ingests a multipart CSV upload ("file" field) of daily prices and
// responds with the import summary.
func (h *PriceHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	platformID := r.URL.Query().Get("platformId")
	if err := validation.ValidateUUID(platformID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid platformId parameter", err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid multipart form", err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Missing file upload", err.Error())
		return
	}
	defer file.Close()

	summary, err := h.priceService.ImportCSV(file, platformID)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Failed to import prices", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Refresh fetches the latest close for every public security from the quote
// provider and upserts the results under the given platform.
func (h *PriceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	platformID := r.URL.Query().Get("platformId")
	if err := validation.ValidateUUID(platformID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid platformId parameter", err.Error())
		return
	}

	summary, err := h.priceService.RefreshQuotes(platformID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to refresh quotes", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
