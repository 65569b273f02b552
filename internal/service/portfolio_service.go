package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/invportal/portfolio-backend/internal/model"
	"github.com/invportal/portfolio-backend/internal/repository"
)

// PortfolioService handles portfolio master data.
type PortfolioService struct {
	portfolioRepo *repository.PortfolioRepository
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(portfolioRepo *repository.PortfolioRepository) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
	}
}

// GetAllPortfolios returns all portfolios.
func (s *PortfolioService) GetAllPortfolios() ([]model.Portfolio, error) {
	return s.portfolioRepo.GetAllPortfolios()
}

// CreatePortfolio creates a new portfolio for the given owner.
func (s *PortfolioService) CreatePortfolio(userID, name string, openDate time.Time) (model.Portfolio, error) {
	p := model.Portfolio{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     name,
		OpenDate: openDate,
	}

	if err := s.portfolioRepo.Insert(p); err != nil {
		return model.Portfolio{}, err
	}

	return p, nil
}
