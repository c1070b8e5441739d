package llm

import (
	"fmt"
	"strings"

	"github.com/Owen-Pu/Networking-Agent/internal/config"
	"github.com/Owen-Pu/Networking-Agent/internal/domain"
)

const (
	defaultOpenAIModel    = "gpt-4o"
	defaultAnthropicModel = "claude-haiku-4-5"
)

// NewClient selects a provider implementation from configuration.
func NewClient(cfg config.LLMConfig) (Client, error) {
	model := cfg.Model

	switch strings.ToLower(cfg.Provider) {
	case config.ProviderOpenAI:
		if model == "" {
			model = defaultOpenAIModel
		}
		return NewOpenAIClient(cfg.APIKey, model, cfg.BaseURL), nil

	case config.ProviderAnthropic:
		if model == "" {
			model = defaultAnthropicModel
		}
		return NewAnthropicClient(cfg.APIKey, model, cfg.BaseURL), nil

	default:
		return nil, &domain.ConfigError{
			Field:  "llm.provider",
			Reason: fmt.Sprintf("unsupported provider %q", cfg.Provider),
		}
	}
}
