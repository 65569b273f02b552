package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/invportal/portfolio-backend/internal/api/response"
	"github.com/invportal/portfolio-backend/internal/service"
	"github.com/invportal/portfolio-backend/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Portfolios lists all portfolios.
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.portfolioService.GetAllPortfolios()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve portfolios", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}

// CreatePortfolioRequest represents the create-portfolio request body.
type CreatePortfolioRequest struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	OpenDate string `json:"openDate"`
}

// CreatePortfolio creates a new portfolio. OpenDate defaults to today.
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req CreatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if req.Name == "" {
		response.RespondError(w, http.StatusBadRequest, "Portfolio name is required", nil)
		return
	}
	if err := validation.ValidateUUID(req.UserID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid userId in request body", err.Error())
		return
	}

	openDate, err := validation.ParseDateOrDefault(req.OpenDate, time.Now().UTC().Truncate(24*time.Hour))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid openDate in request body", err.Error())
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(req.UserID, req.Name, openDate)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to create portfolio", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}
