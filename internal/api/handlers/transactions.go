package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/invportal/portfolio-backend/internal/api/response"
	"github.com/invportal/portfolio-backend/internal/apperrors"
	"github.com/invportal/portfolio-backend/internal/service"
	"github.com/invportal/portfolio-backend/internal/validation"
)

// TransactionHandler handles HTTP requests for the transaction ledger.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// Transactions lists the enriched transaction view, optionally restricted to
// one portfolio via the "portfolioId" query parameter.
func (h *TransactionHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	portfolioID := r.URL.Query().Get("portfolioId")
	if portfolioID != "" {
		if err := validation.ValidateUUID(portfolioID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "Invalid portfolioId parameter", err.Error())
			return
		}
	}

	transactions, err := h.transactionService.GetTransactionsPerPortfolio(portfolioID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve transactions", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// Transaction returns one enriched transaction by ID.
func (h *TransactionHandler) Transaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "id")
	if err := validation.ValidateUUID(transactionID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid transaction ID", err.Error())
		return
	}

	transaction, err := h.transactionService.GetTransaction(transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, "Transaction not found", nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransactionRequest represents the create-transaction request body.
type CreateTransactionRequest struct {
	PortfolioID string  `json:"portfolioId"`
	SecurityID  string  `json:"securityId"`
	PlatformID  string  `json:"platformId"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Fee         float64 `json:"fee"`
}

// CreateTransaction appends a validated row to the ledger.
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	for _, id := range []string{req.PortfolioID, req.SecurityID, req.PlatformID} {
		if err := validation.ValidateUUID(id); err != nil {
			response.RespondError(w, http.StatusBadRequest, "Invalid ID in request body", err.Error())
			return
		}
	}

	date, err := validation.ParseDate(req.Date)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid date in request body", err.Error())
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		req.PortfolioID, req.SecurityID, req.PlatformID, date, req.Type, req.Quantity, req.Price, req.Fee,
	)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransactionType) || errors.Is(err, apperrors.ErrNegativeAmount) {
			response.RespondError(w, http.StatusBadRequest, "Invalid transaction", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "Failed to create transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}
