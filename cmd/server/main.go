package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neueda/milkyway/internal/clients/prices"
	pricejobs "github.com/neueda/milkyway/internal/clients/prices/jobs"
	"github.com/neueda/milkyway/internal/config"
	"github.com/neueda/milkyway/internal/database"
	"github.com/neueda/milkyway/internal/modules/dashboard"
	"github.com/neueda/milkyway/internal/modules/ledger"
	"github.com/neueda/milkyway/internal/modules/watchlist"
	"github.com/neueda/milkyway/internal/scheduler"
	"github.com/neueda/milkyway/internal/server"
	"github.com/neueda/milkyway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		errLog := logger.New(logger.Config{Level: "error"})
		errLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting milkyway portfolio backend")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Ledger core
	ledgerRepo := ledger.NewRepository(log)
	ledgerService := ledger.NewService(db.Conn(), ledgerRepo, log)
	ledgerHandler := ledger.NewHandler(ledgerService, log)

	// Watchlist
	watchlistRepo := watchlist.NewRepository(db.Conn(), log)
	watchlistHandler := watchlist.NewHandler(watchlistRepo, log)

	// Price oracle with quote cache
	priceClient := prices.NewClient(cfg.PriceAPIURL, cfg.PriceTimeout, log)
	quoteCache := prices.NewCachedOracle(priceClient, prices.TTLCurrentPrice)

	// Dashboard aggregates
	dashboardService := dashboard.NewService(ledgerService, quoteCache, log)
	dashboardHandler := dashboard.NewHandler(dashboardService, log)

	// Background quote refresh for watched symbols
	sched := scheduler.New(log)
	refreshJob := pricejobs.NewRefreshJob(quoteCache, watchlistRepo, log)
	if err := sched.AddJob(cfg.QuoteRefreshSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register quote refresh job")
	}
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:      cfg.Port,
		Log:       log,
		Ledger:    ledgerHandler,
		Dashboard: dashboardHandler,
		Watchlist: watchlistHandler,
		DevMode:   cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
