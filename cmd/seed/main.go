package main

import (
	"context"
	"fmt"
	"os"

	"product-intel/internal/config"
	"product-intel/internal/database"
	"product-intel/internal/query"
	"product-intel/internal/repository"
	"product-intel/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting catalogue seed")

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}

	engine := query.NewEngine(cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize, logger)
	productRepo := repository.NewProductRepository(pool, engine, logger)
	vendorRepo := repository.NewVendorRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)

	loader := seed.NewLoader(vendorRepo, categoryRepo, productRepo, logger)

	// Prefer the shared S3 snapshot when enabled; fall back to the local
	// file so a developer machine without AWS credentials still seeds.
	source := seed.NewFileSource(cfg.Seed.FilePath, logger)
	if cfg.Seed.S3Enabled {
		s3Source, err := seed.NewS3Source(ctx, cfg.Seed.S3Bucket, cfg.Seed.S3Region, cfg.Seed.S3Key, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 seed source, falling back to local file")
		} else if err := loader.Load(ctx, s3Source); err != nil {
			logger.Warn().Err(err).Msg("S3 seed failed, falling back to local file")
		} else {
			logger.Info().Msg("seed completed from S3")
			return nil
		}
	}

	if err := loader.Load(ctx, source); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	logger.Info().Msg("seed completed")
	return nil
}
