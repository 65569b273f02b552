package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/invportal/portfolio-backend/internal/api/response"
	"github.com/invportal/portfolio-backend/internal/service"
)

// SecurityHandler handles security master data HTTP requests.
type SecurityHandler struct {
	securityService *service.SecurityService
}

// NewSecurityHandler creates a new SecurityHandler
func NewSecurityHandler(securityService *service.SecurityService) *SecurityHandler {
	return &SecurityHandler{
		securityService: securityService,
	}
}

// Securities lists all securities.
func (h *SecurityHandler) Securities(w http.ResponseWriter, r *http.Request) {
	securities, err := h.securityService.GetAllSecurities()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve securities", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, securities)
}

// CreateSecurityRequest represents the create-security request body.
type CreateSecurityRequest struct {
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	Currency    string `json:"currency"`
	IsPrivate   bool   `json:"isPrivate"`
}

// CreateSecurity creates a new security.
func (h *SecurityHandler) CreateSecurity(w http.ResponseWriter, r *http.Request) {
	var req CreateSecurityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if req.Ticker == "" || req.Name == "" {
		response.RespondError(w, http.StatusBadRequest, "Ticker and name are required", nil)
		return
	}

	security, err := h.securityService.CreateSecurity(req.Ticker, req.Name, req.CompanyName, req.Currency, req.IsPrivate)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to create security", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, security)
}
