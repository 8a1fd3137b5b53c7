// Package config provides environment-based configuration loading and
// validation for the extractor.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultEmbeddingModel = "text-embedding-004"
	DefaultWorkers        = 4
	DefaultSnapshotDir    = "snapshots"
)

// Config holds everything the extractor needs to run. Azure settings are
// optional; without them sparse documents fail instead of going through OCR.
type Config struct {
	GeminiAPIKey   string `validate:"required"`
	GeminiModel    string `validate:"required"`
	EmbeddingModel string `validate:"required"`
	DatabaseURL    string `validate:"required"`
	ResumeRoot     string `validate:"required,dir"`
	SnapshotDir    string `validate:"required"`
	Workers        int    `validate:"gte=1,lte=64"`
	AzureEndpoint  string `validate:"omitempty,url"`
	AzureKey       string `validate:"required_with=AzureEndpoint"`
}

// Load reads configuration from the environment, after loading a .env
// file when one is present in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	workers := DefaultWorkers
	if raw := os.Getenv("WORKERS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid WORKERS value %q: %w", raw, err)
		}
		workers = n
	}

	cfg := &Config{
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getenv("GEMINI_MODEL", DefaultGeminiModel),
		EmbeddingModel: getenv("EMBEDDING_MODEL", DefaultEmbeddingModel),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ResumeRoot:     os.Getenv("RESUME_ROOT"),
		SnapshotDir:    getenv("SNAPSHOT_DIR", DefaultSnapshotDir),
		Workers:        workers,
		AzureEndpoint:  os.Getenv("AZURE_DI_ENDPOINT"),
		AzureKey:       os.Getenv("AZURE_DI_KEY"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// OCREnabled reports whether the Azure fallback is configured.
func (c *Config) OCREnabled() bool {
	return c.AzureEndpoint != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
