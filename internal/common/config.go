package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Upload  UploadConfig
	LLM     LLMConfig
	Archive ArchiveConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// UploadConfig holds upload-related configuration
type UploadConfig struct {
	MaxUploadMB      int64
	PriceListMaxRows int
}

// LLMConfig holds LLM-related configuration. Endpoint and APIKey gate the
// LLM audit path only; the deterministic path runs without them.
type LLMConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	Timeout    time.Duration
	BatchPages int
	MaxWorkers int
}

// ArchiveConfig holds run-archive configuration
type ArchiveConfig struct {
	DSN string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Upload: UploadConfig{
			MaxUploadMB:      int64(getEnvAsInt("MAX_UPLOAD_MB", 32)),
			PriceListMaxRows: getEnvAsInt("PRICE_LIST_MAX_ROWS", 10000),
		},
		LLM: LLMConfig{
			Endpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			APIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
			APIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-12-01-preview"),
			Deployment: getEnv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o-mini"),
			Timeout:    getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
			BatchPages: getEnvAsInt("LLM_BATCH_PAGES", 2),
			MaxWorkers: getEnvAsInt("LLM_MAX_WORKERS", 5),
		},
		Archive: ArchiveConfig{
			DSN: getEnv("ARCHIVE_DSN", "file:audit-runs.db?_pragma=journal_mode(WAL)"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. LLM credentials are checked
// by the LLM path at call time, not here.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Upload.MaxUploadMB <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_UPLOAD_MB must be positive", ErrInvalidInput)
	}
	if c.LLM.BatchPages <= 0 || c.LLM.MaxWorkers <= 0 {
		return NewAppError("CONFIG_ERROR", "LLM batch settings must be positive", ErrInvalidInput)
	}
	return nil
}

// LLMEnabled reports whether the LLM audit path is configured.
func (c *Config) LLMEnabled() bool {
	return c.LLM.Endpoint != "" && c.LLM.APIKey != ""
}
