package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/invportal/portfolio-backend/internal/api/response"
	"github.com/invportal/portfolio-backend/internal/service"
)

// PlatformHandler handles external platform HTTP requests. API tokens are
// write-only through this surface: responses only report whether one is set.
type PlatformHandler struct {
	platformService *service.PlatformService
}

// NewPlatformHandler creates a new PlatformHandler
func NewPlatformHandler(platformService *service.PlatformService) *PlatformHandler {
	return &PlatformHandler{
		platformService: platformService,
	}
}

// PlatformResponse represents a platform in API responses.
type PlatformResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	HasAPIToken bool   `json:"hasApiToken"`
}

// Platforms lists all external platforms.
func (h *PlatformHandler) Platforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.platformService.GetAllPlatforms()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve platforms", err.Error())
		return
	}

	resp := make([]PlatformResponse, len(platforms))
	for i, p := range platforms {
		resp[i] = PlatformResponse{
			ID:          p.ID,
			Name:        p.Name,
			Type:        p.Type,
			HasAPIToken: p.APIToken != "",
		}
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// CreatePlatformRequest represents the create-platform request body.
type CreatePlatformRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	APIToken string `json:"apiToken,omitempty"`
}

// CreatePlatform creates a new external platform. A provided API token is
// sealed before storage and never echoed back.
func (h *PlatformHandler) CreatePlatform(w http.ResponseWriter, r *http.Request) {
	var req CreatePlatformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if req.Name == "" {
		response.RespondError(w, http.StatusBadRequest, "Platform name is required", nil)
		return
	}

	platform, err := h.platformService.CreatePlatform(req.Name, req.Type, req.APIToken)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Failed to create platform", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, PlatformResponse{
		ID:          platform.ID,
		Name:        platform.Name,
		Type:        platform.Type,
		HasAPIToken: platform.APIToken != "",
	})
}
