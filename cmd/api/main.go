package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-intel/internal/auth"
	"product-intel/internal/config"
	"product-intel/internal/database"
	"product-intel/internal/extract"
	"product-intel/internal/handler"
	"product-intel/internal/query"
	"product-intel/internal/render"
	"product-intel/internal/repository"
	"product-intel/internal/router"
	"product-intel/internal/schema"
	"product-intel/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env file for local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting product-intel API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize query engine and repositories
	engine := query.NewEngine(cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize, logger)
	productRepo := repository.NewProductRepository(pool, engine, logger)
	vendorRepo := repository.NewVendorRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)

	// Build the schema registry from the stored category schemas
	categories, err := categoryRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	registry, err := schema.NewRegistry(categories, logger)
	if err != nil {
		return fmt.Errorf("failed to build schema registry: %w", err)
	}
	validator := schema.NewValidator(registry, logger)

	// Initialize credential store
	keys, err := auth.NewStaticKeyStore(cfg.Auth.Keys)
	if err != nil {
		return fmt.Errorf("failed to load API credentials: %w", err)
	}

	// Initialize document rendering and extraction collaborators
	renderer := render.NewPDFRenderer(logger)
	extractor := extract.NewLLMClient(
		cfg.Extraction.BaseURL,
		cfg.Extraction.APIKey,
		cfg.Extraction.Model,
		cfg.Extraction.Timeout,
		logger,
	)

	// Initialize services
	productService := service.NewProductService(productRepo, vendorRepo, categoryRepo, registry, validator, logger)
	catalogService := service.NewCatalogService(vendorRepo, categoryRepo, registry, logger)
	comparisonService := service.NewComparisonService(productRepo, vendorRepo, categoryRepo, registry, renderer, cfg.PDF, logger)
	extractionService := service.NewExtractionService(vendorRepo, registry, extractor, logger)

	// Sweep expired comparison documents on a fixed cadence
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				comparisonService.CleanupExpired()
			}
		}
	}()

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	compareHandler := handler.NewCompareHandler(comparisonService, logger)
	extractHandler := handler.NewExtractHandler(extractionService, logger)

	// Initialize router
	mux := router.New(productHandler, catalogHandler, compareHandler, extractHandler, keys, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
