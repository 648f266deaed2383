package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/country-currency-service/internal/application/service"
	"github.com/damon-houk/country-currency-service/internal/config"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/api"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/db"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/handler"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/summary"
)

const shutdownTimeout = 20 * time.Second

func main() {
	boot := logger.NewJSONLogger(os.Stdout, logger.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		boot.Fatal("Failed to load configuration", logger.Fields{"error": err.Error()})
	}

	log := logger.NewJSONLogger(os.Stdout, cfg.LogLevel)
	logger.SetDefaultLogger(log)

	log.Info("Starting country currency service", logger.Fields{
		"port":           cfg.Port,
		"storage_driver": cfg.StorageDriver,
		"log_level":      string(cfg.LogLevel),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	store, err := db.OpenStore(ctx, cfg.Store(), log.WithField("component", "store"))
	if err != nil {
		log.Fatal("Failed to open storage", logger.Fields{"error": err.Error()})
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing storage", logger.Fields{"error": err.Error()})
		}
	}()

	// Upstream clients
	upstreamClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	countriesClient := api.NewCountriesClient(cfg.CountriesAPIURL, upstreamClient, cfg.UpstreamTimeout, log)
	ratesClient := api.NewExchangeRateClient(cfg.ExchangeRatesAPIURL, upstreamClient, cfg.UpstreamTimeout, log)

	renderer, err := summary.NewPNGRenderer(cfg.SummaryImagePath, log.WithField("component", "summary"))
	if err != nil {
		log.Fatal("Failed to initialize summary renderer", logger.Fields{"error": err.Error()})
	}

	// Services
	refreshService := service.NewRefreshService(
		countriesClient,
		ratesClient,
		store.Countries,
		store.Metadata,
		renderer,
		service.NewGDPEstimator(nil),
		log.WithField("component", "refresh"),
	)
	countryService := service.NewCountryService(store.Countries, store.Metadata, cfg.SummaryImagePath, log)

	if cfg.RefreshInterval > 0 {
		go refreshService.RunPeriodic(ctx, cfg.RefreshInterval, cfg.RefreshOnStart)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.NewRouter(refreshService, countryService, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// a refresh waits on both upstreams
		WriteTimeout: 2*cfg.UpstreamTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", logger.Fields{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("Server failed", logger.Fields{"error": err.Error()})
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", logger.Fields{"error": err.Error()})
	}

	log.Info("Server stopped", nil)
}
