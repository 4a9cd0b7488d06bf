package openai

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sitewise-labs/ramsgen/internal/common"
)

// Config for the OpenAI client.
type Config struct {
	APIKey  string
	BaseURL string        // default https://api.openai.com/v1
	Model   string        // e.g. "gpt-4o"
	Timeout time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient validates the credential once at construction. A missing key is a
// configuration error, surfaced here rather than rechecked per call.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, common.NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is not configured", common.ErrInvalidInput)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}
