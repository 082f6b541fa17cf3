package main

import (
	"context"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/tokoledger/backend/src/config"
	"github.com/username/tokoledger/backend/src/database"
	"github.com/username/tokoledger/backend/src/handlers"
	"github.com/username/tokoledger/backend/src/logger"
	"github.com/username/tokoledger/backend/src/scheduler"
	"github.com/username/tokoledger/backend/src/services"
	"github.com/username/tokoledger/backend/src/store"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Tokoledger backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	db, err := database.Open(config.Cfg.DatabasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database: %v", err)
	}
	if err := database.RunMigrations(db, config.Cfg.DatabasePath); err != nil {
		stdlog.Fatalf("failed to run migrations: %v", err)
	}

	ledgerStore := store.NewSQLiteStore(db)
	defer ledgerStore.Close()

	reportCache := cache.New(config.Cfg.CacheExpiration, config.Cfg.CacheCleanupInterval)

	stockService := services.NewStockService(ledgerStore, reportCache)
	ledgerService := services.NewLedgerService(ledgerStore, stockService, reportCache)
	reportService := services.NewReportService(ledgerStore, reportCache, config.Cfg.LowStockThreshold)
	forecastService := services.NewForecastService(ledgerStore)
	dividendService := services.NewDividendService(ledgerStore, reportCache)
	assetService := services.NewAssetService(ledgerStore)

	recurringScheduler := scheduler.NewRecurringScheduler(
		ledgerStore, config.Cfg.SchedulerHour, config.Cfg.SchedulerMinute, reportService.Invalidate)

	schedCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go recurringScheduler.Run(schedCtx)

	productHandler := handlers.NewProductHandler(ledgerStore, stockService)
	txHandler := handlers.NewTransactionHandler(ledgerService)
	reportHandler := handlers.NewReportHandler(reportService, forecastService)
	investorHandler := handlers.NewInvestorHandler(ledgerStore, dividendService)
	assetHandler := handlers.NewAssetHandler(ledgerService, assetService)
	recurringHandler := handlers.NewRecurringHandler(ledgerStore, recurringScheduler)
	registryHandler := handlers.NewRegistryHandler(ledgerStore)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Tokoledger Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", productHandler.ListProducts)
		r.Post("/products", productHandler.CreateProduct)
		r.Put("/products/{id}", productHandler.UpdateProduct)
		r.Delete("/products/{id}", productHandler.DeleteProduct)
		r.Get("/products/{id}/movements", productHandler.ListMovements)
		r.Post("/products/{id}/restock", productHandler.Restock)

		r.Post("/sales", txHandler.HandleRecordSale)
		r.Post("/expenses", txHandler.HandleRecordExpense)
		r.Post("/capital", txHandler.HandleRecordCapital)
		r.Get("/transactions", txHandler.HandleListTransactions)

		r.Get("/reports/profit-loss", reportHandler.HandleProfitLoss)
		r.Get("/reports/cash-flow", reportHandler.HandleCashFlow)
		r.Get("/reports/balance-sheet", reportHandler.HandleBalanceSheet)
		r.Get("/reports/dashboard", reportHandler.HandleDashboard)
		r.Get("/reports/forecast", reportHandler.HandleForecast)

		r.Get("/investors", investorHandler.ListInvestors)
		r.Post("/investors", investorHandler.CreateInvestor)
		r.Get("/investors/{id}", investorHandler.GetInvestor)
		r.Put("/investors/{id}", investorHandler.UpdateInvestor)
		r.Post("/dividends/distribute", investorHandler.HandleDistributeDividends)

		r.Get("/assets", assetHandler.HandleListAssets)
		r.Post("/assets", assetHandler.HandleCreateAsset)

		r.Get("/recurring-expenses", recurringHandler.ListRecurringExpenses)
		r.Post("/recurring-expenses", recurringHandler.CreateRecurringExpense)
		r.Delete("/recurring-expenses/{id}", recurringHandler.DeactivateRecurringExpense)
		r.Post("/recurring-expenses/run", recurringHandler.HandleRunNow)

		r.Get("/users", registryHandler.ListUsers)
		r.Post("/users", registryHandler.CreateUser)
		r.Get("/suppliers", registryHandler.ListSuppliers)
		r.Post("/suppliers", registryHandler.CreateSupplier)
	})

	server := &http.Server{
		Addr:         ":" + config.Cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L.Info("Shutting down...")
	stopScheduler()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("Server shutdown failed", "error", err)
	}
}
