package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/invportal/portfolio-backend/internal/api"
	"github.com/invportal/portfolio-backend/internal/config"
	"github.com/invportal/portfolio-backend/internal/database"
	"github.com/invportal/portfolio-backend/internal/repository"
	"github.com/invportal/portfolio-backend/internal/service"
	"github.com/invportal/portfolio-backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Apply pending schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	securityRepo := repository.NewSecurityRepository(db)
	platformRepo := repository.NewPlatformRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	priceRepo := repository.NewSecurityPriceRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	portfolioService := service.NewPortfolioService(portfolioRepo)
	securityService := service.NewSecurityService(securityRepo)
	transactionService := service.NewTransactionService(transactionRepo)
	holdingService := service.NewHoldingService(transactionRepo, priceRepo, holdingRepo)
	priceService := service.NewPriceService(priceRepo, securityRepo, yahoo.NewFinanceClient())

	platformService, err := service.NewPlatformService(platformRepo, cfg.Secrets.FernetKey)
	if err != nil {
		log.Fatalf("Failed to create platform service: %v", err)
	}

	// Nightly job: refresh quotes, then rebuild today's holdings snapshot.
	scheduler := cron.New()
	if cfg.Scheduler.PriceRefreshSpec != "" {
		_, err := scheduler.AddFunc(cfg.Scheduler.PriceRefreshSpec, func() {
			platform, err := platformService.EnsurePlatform("Yahoo Finance", "Pricing Platform")
			if err != nil {
				log.Printf("Scheduled refresh: %v", err)
				return
			}

			summary, err := priceService.RefreshQuotes(platform.ID)
			if err != nil {
				log.Printf("Scheduled refresh: %v", err)
				return
			}
			log.Printf("Scheduled refresh: %d quotes updated, %d skipped", summary.Imported, summary.SkippedRows)

			if cfg.Scheduler.RecalcEnabled {
				today := time.Now().UTC().Truncate(24 * time.Hour)
				recalc, err := holdingService.RecalculateForDate(today, "")
				if err != nil {
					log.Printf("Scheduled recalculation: %v", err)
					return
				}
				log.Printf("Scheduled recalculation: deleted %d, inserted %d", recalc.Deleted, recalc.Inserted)
			}
		})
		if err != nil {
			log.Fatalf("Failed to schedule price refresh: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Create router
	router := api.NewRouter(systemService, holdingService, transactionService, portfolioService, securityService, platformService, priceService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
