// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/glowsight/sentiment-ingress/pkg/model"
)

// Join key matching policies. "exact" reproduces the upstream behavior of
// matching key values byte-for-byte; "fold" trims whitespace and lowercases
// both sides before comparing, which recovers matches the exact policy
// silently drops when only casing differs.
const (
	JoinPolicyExact = "exact"
	JoinPolicyFold  = "fold"
)

// Config represents the application configuration
type Config struct {
	// Input/output datasets
	ProductCSV      string
	CommentCSV      string
	OutputCSV       string
	ProductCleanCSV string // optional: persist the cleaned product table
	AuditDBPath     string // optional: sqlite store for cleaning operations

	// Reconciler settings
	CommentMappings []model.ColumnMapping
	JoinKeyPolicy   string

	// Annotation settings
	WorkerPoolSize  int
	ResourceTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		// Default values
		ProductCSV:      getEnv("PRODUCT_CSV", "data/product_info.csv"),
		CommentCSV:      getEnv("COMMENT_CSV", "data/youtube_reviews_raw.csv"),
		OutputCSV:       getEnv("OUTPUT_CSV", "data/dataset_final.csv"),
		ProductCleanCSV: getEnv("PRODUCT_CLEAN_CSV", ""),
		AuditDBPath:     getEnv("AUDIT_DB_PATH", ""),
		JoinKeyPolicy:   getEnv("JOIN_KEY_POLICY", JoinPolicyExact),
		WorkerPoolSize:  getEnvAsInt("WORKER_POOL_SIZE", 0), // 0 means use runtime.NumCPU()
		ResourceTimeout: time.Duration(getEnvAsInt("RESOURCE_TIMEOUT_MS", 30000)) * time.Millisecond,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
	}

	// Column mappings for the comment table, e.g. "product_brand=brand_name"
	if spec := getEnv("COMMENT_COLUMN_MAP", ""); spec != "" {
		cfg.CommentMappings = model.ParseColumnMappings(spec)
	} else {
		cfg.CommentMappings = model.DefaultCommentMappings
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.ProductCSV == "" {
		return errors.New("product dataset path is required")
	}

	if c.CommentCSV == "" {
		return errors.New("comment dataset path is required")
	}

	if c.OutputCSV == "" {
		return errors.New("output dataset path is required")
	}

	if c.JoinKeyPolicy != JoinPolicyExact && c.JoinKeyPolicy != JoinPolicyFold {
		return fmt.Errorf("join key policy must be %q or %q, got %q",
			JoinPolicyExact, JoinPolicyFold, c.JoinKeyPolicy)
	}

	if c.WorkerPoolSize < 0 {
		return errors.New("worker pool size cannot be negative")
	}

	if len(c.CommentMappings) == 0 {
		return errors.New("at least one comment column mapping is required")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
