package service

import (
	"github.com/google/uuid"

	"github.com/invportal/portfolio-backend/internal/model"
	"github.com/invportal/portfolio-backend/internal/repository"
)

// SecurityService handles security master data.
type SecurityService struct {
	securityRepo *repository.SecurityRepository
}

// NewSecurityService creates a new SecurityService
func NewSecurityService(securityRepo *repository.SecurityRepository) *SecurityService {
	return &SecurityService{
		securityRepo: securityRepo,
	}
}

// GetAllSecurities returns all securities, private ones included.
func (s *SecurityService) GetAllSecurities() ([]model.Security, error) {
	return s.securityRepo.GetAllSecurities(false)
}

// CreateSecurity creates a new security.
func (s *SecurityService) CreateSecurity(ticker, name, companyName, currency string, isPrivate bool) (model.Security, error) {
	if currency == "" {
		currency = "USD"
	}

	sec := model.Security{
		ID:          uuid.NewString(),
		Ticker:      ticker,
		Name:        name,
		CompanyName: companyName,
		Currency:    currency,
		IsPrivate:   isPrivate,
	}

	if err := s.securityRepo.Insert(sec); err != nil {
		return model.Security{}, err
	}

	return sec, nil
}
