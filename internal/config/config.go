package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Catalog    CatalogConfig
	Seed       SeedConfig
	PDF        PDFConfig
	Extraction ExtractionConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds API credential configuration. Keys is a comma-separated
// list of principal:key pairs feeding the credential store.
type AuthConfig struct {
	Keys string
}

// CatalogConfig bounds query pagination.
type CatalogConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// SeedConfig tells the seed loader where the seed document lives. When S3 is
// enabled the loader falls back to the local path if the download fails.
type SeedConfig struct {
	FilePath  string
	S3Enabled bool
	S3Bucket  string
	S3Region  string
	S3Key     string
}

// PDFConfig holds comparison document output configuration.
type PDFConfig struct {
	OutputDir   string
	ExpiryHours int
}

// ExtractionConfig holds the external extraction model endpoint settings.
type ExtractionConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "product_intel"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			Keys: getEnv("API_KEYS", ""),
		},
		Catalog: CatalogConfig{
			DefaultPageSize: getEnvAsInt("CATALOG_DEFAULT_PAGE_SIZE", 50),
			MaxPageSize:     getEnvAsInt("CATALOG_MAX_PAGE_SIZE", 100),
		},
		Seed: SeedConfig{
			FilePath:  getEnv("SEED_FILE", "data/seed_data.json"),
			S3Enabled: getEnvAsBool("SEED_S3_ENABLED", false),
			S3Bucket:  getEnv("SEED_S3_BUCKET", ""),
			S3Region:  getEnv("SEED_S3_REGION", "us-east-1"),
			S3Key:     getEnv("SEED_S3_KEY", "seed/seed_data.json"),
		},
		PDF: PDFConfig{
			OutputDir:   getEnv("PDF_OUTPUT_DIR", "data/comparisons"),
			ExpiryHours: getEnvAsInt("PDF_EXPIRY_HOURS", 24),
		},
		Extraction: ExtractionConfig{
			BaseURL: getEnv("EXTRACTION_API_URL", "https://openrouter.ai/api/v1"),
			APIKey:  getEnv("EXTRACTION_API_KEY", ""),
			Model:   getEnv("EXTRACTION_MODEL", ""),
			Timeout: time.Duration(getEnvAsInt("EXTRACTION_TIMEOUT_SECONDS", 120)) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.Keys == "" {
		return fmt.Errorf("at least one API key is required")
	}

	if c.Catalog.DefaultPageSize < 1 {
		return fmt.Errorf("default page size must be at least 1")
	}

	if c.Catalog.MaxPageSize < c.Catalog.DefaultPageSize {
		return fmt.Errorf("max page size cannot be below the default page size")
	}

	if c.PDF.ExpiryHours < 1 {
		return fmt.Errorf("PDF expiry must be at least one hour")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Seed.S3Enabled {
		if c.Seed.S3Bucket == "" {
			return fmt.Errorf("seed S3 bucket is required when seed S3 is enabled")
		}
		if c.Seed.S3Region == "" {
			return fmt.Errorf("seed S3 region is required when seed S3 is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
