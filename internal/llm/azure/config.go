package azure

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Azure OpenAI client.
type Config struct {
	Endpoint   string        // if empty, falls back to env AZURE_OPENAI_ENDPOINT
	APIKey     string        // if empty, falls back to env AZURE_OPENAI_API_KEY
	APIVersion string        // default 2024-12-01-preview
	Deployment string        // default deployment name
	Timeout    time.Duration // http client timeout
	MaxTokens  int           // max_completion_tokens per batch call
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = os.Getenv("AZURE_OPENAI_ENDPOINT")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-12-01-preview"
	}
	if cfg.Deployment == "" {
		cfg.Deployment = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 16000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
