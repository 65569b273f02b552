package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrSecurityNotFound indicates that a security with the given ID or ticker does not exist.
	ErrSecurityNotFound = errors.New("security not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrHoldingNotFound indicates that a holding with the given ID does not exist.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrPlatformNotFound indicates that an external platform record does not exist.
	ErrPlatformNotFound = errors.New("external platform not found")

	// ErrPriceNotFound indicates no price record for a specific security and date combination.
	ErrPriceNotFound = errors.New("security price not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidTransactionType indicates a transaction type outside the accepted codes.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Validation errors for required fields
	ErrInvalidPortfolioID = errors.New("portfolio ID is required")
	ErrInvalidSecurityID  = errors.New("security ID is required")
	ErrInvalidTicker      = errors.New("ticker is required")
	ErrInvalidDate        = errors.New("date parameter is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Holding operation errors
	ErrFailedToRetrieveHoldings    = errors.New("failed to retrieve holdings")
	ErrFailedToRecalculateHoldings = errors.New("failed to recalculate holdings")

	// Transaction operation errors
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")

	// Price operation errors
	ErrFailedToRetrievePrices = errors.New("failed to retrieve security prices")
	ErrFailedToImportPrices   = errors.New("failed to import security prices")
	ErrFailedToRefreshQuotes  = errors.New("failed to refresh quotes")
	ErrInvalidCSVHeaders      = errors.New("invalid CSV headers")

	// Master data operation errors
	ErrFailedToRetrievePortfolios = errors.New("failed to retrieve portfolios")
	ErrFailedToRetrieveSecurities = errors.New("failed to retrieve securities")
	ErrFailedToRetrievePlatforms  = errors.New("failed to retrieve external platforms")

	// Platform secret errors
	ErrSealTokenFailed = errors.New("failed to seal platform token")
	ErrOpenTokenFailed = errors.New("failed to open platform token")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a transaction references a security that doesn't exist).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
