package llm

import (
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Veraticus/physician-notetaker/internal/common"
)

// NewClient creates a chat client for the configured provider.
func NewClient(cfg Config) (Client, error) {
	var clientCfg openai.ClientConfig

	switch strings.ToLower(cfg.Provider) {
	case "openai", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: OpenAI API key is required", common.ErrMissingConfig)
		}
		clientCfg = openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
	case "azure":
		if cfg.APIKey == "" || cfg.BaseURL == "" {
			return nil, fmt.Errorf("%w: Azure OpenAI needs an API key and base URL", common.ErrMissingConfig)
		}
		clientCfg = openai.DefaultAzureConfig(cfg.APIKey, cfg.BaseURL)
	case "local":
		// OpenAI-compatible servers usually ignore the key.
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("%w: local provider needs a base URL", common.ErrMissingConfig)
		}
		clientCfg = openai.DefaultConfig(cfg.APIKey)
		clientCfg.BaseURL = cfg.BaseURL
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return newOpenAIClient(openai.NewClientWithConfig(clientCfg), cfg), nil
}
