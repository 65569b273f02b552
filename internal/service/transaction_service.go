package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/invportal/portfolio-backend/internal/apperrors"
	"github.com/invportal/portfolio-backend/internal/model"
	"github.com/invportal/portfolio-backend/internal/repository"
)

// TransactionService handles the transaction ledger surface: listing the
// enriched views and appending new, validated rows.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo *repository.TransactionRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
	}
}

// GetTransactionsPerPortfolio returns the enriched transaction view,
// optionally restricted to one portfolio (empty ID means all).
func (s *TransactionService) GetTransactionsPerPortfolio(portfolioID string) ([]model.TransactionResponse, error) {
	return s.transactionRepo.ListPerPortfolio(portfolioID)
}

// GetTransaction returns one enriched transaction, or ErrTransactionNotFound.
func (s *TransactionService) GetTransaction(transactionID string) (model.TransactionResponse, error) {
	t, err := s.transactionRepo.GetTransaction(transactionID)
	if err != nil {
		return model.TransactionResponse{}, err
	}
	if t.ID == "" {
		return model.TransactionResponse{}, apperrors.ErrTransactionNotFound
	}
	return t, nil
}

// CreateTransaction validates and appends a ledger row. The type is
// normalized to its short code; quantity must be positive and price
// non-negative, so the recalculation engine never sees malformed numerics.
func (s *TransactionService) CreateTransaction(portfolioID, securityID, platformID string, date time.Time, ttype string, quantity, price, fee float64) (model.Transaction, error) {
	normalized, ok := normalizeTransactionType(ttype)
	if !ok {
		return model.Transaction{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidTransactionType, ttype)
	}
	if quantity <= 0 {
		return model.Transaction{}, fmt.Errorf("%w: quantity must be positive", apperrors.ErrNegativeAmount)
	}
	if price < 0 || fee < 0 {
		return model.Transaction{}, apperrors.ErrNegativeAmount
	}

	t := model.Transaction{
		ID:          uuid.NewString(),
		PortfolioID: portfolioID,
		SecurityID:  securityID,
		PlatformID:  platformID,
		Date:        date,
		Type:        normalized,
		Quantity:    quantity,
		Price:       price,
		Fee:         fee,
	}

	if err := s.transactionRepo.Insert(t); err != nil {
		return model.Transaction{}, err
	}

	return t, nil
}
