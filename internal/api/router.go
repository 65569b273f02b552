package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/invportal/portfolio-backend/internal/api/handlers"
	custommiddleware "github.com/invportal/portfolio-backend/internal/api/middleware"
	"github.com/invportal/portfolio-backend/internal/config"
	"github.com/invportal/portfolio-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	holdingService *service.HoldingService,
	transactionService *service.TransactionService,
	portfolioService *service.PortfolioService,
	securityService *service.SecurityService,
	platformService *service.PlatformService,
	priceService *service.PriceService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/holdings", func(r chi.Router) {
			holdingHandler := handlers.NewHoldingHandler(holdingService)
			r.Get("/", holdingHandler.Holdings)
			r.Get("/export.csv", holdingHandler.ExportCSV)
			r.Post("/recalculate", holdingHandler.Recalculate)
		})

		r.Route("/transactions", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(transactionService)
			r.Get("/", transactionHandler.Transactions)
			r.Post("/", transactionHandler.CreateTransaction)
			r.Get("/{id}", transactionHandler.Transaction)
		})

		r.Route("/portfolios", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
			r.Get("/", portfolioHandler.Portfolios)
			r.Post("/", portfolioHandler.CreatePortfolio)
		})

		r.Route("/securities", func(r chi.Router) {
			securityHandler := handlers.NewSecurityHandler(securityService)
			r.Get("/", securityHandler.Securities)
			r.Post("/", securityHandler.CreateSecurity)
		})

		r.Route("/platforms", func(r chi.Router) {
			platformHandler := handlers.NewPlatformHandler(platformService)
			r.Get("/", platformHandler.Platforms)
			r.Post("/", platformHandler.CreatePlatform)
		})

		r.Route("/prices", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(priceService)
			r.Get("/", priceHandler.Prices)
			r.Post("/bulk", priceHandler.BulkSave)
			r.Post("/import-csv", priceHandler.ImportCSV)
			r.Post("/refresh", priceHandler.Refresh)
		})
	})

	return r
}
