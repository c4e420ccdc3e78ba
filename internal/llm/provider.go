// Package llm provides a pluggable interface for remote rumor assessors.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/techvote/techvote/internal/config"
	"github.com/techvote/techvote/internal/models"
)

// ErrMediaUnsupported is returned when a provider cannot inspect the attached media type.
var ErrMediaUnsupported = errors.New("provider cannot inspect this media type")

// Provider defines the interface for remote assessment services.
type Provider interface {
	// Assess sends the request to the service and returns a validated result.
	Assess(ctx context.Context, req models.RumorCheckRequest) (*models.RumorCheckResult, error)

	// Name returns the provider name.
	Name() string
}

// NewProvider creates a provider based on configuration. It returns a nil
// provider and no error when the provider needs a credential and none is
// configured; callers then run on the local fallback.
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	if cfg.Provider != "ollama" && cfg.APIKey == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(cfg)
	case "openai":
		return NewOpenAIProvider(cfg)
	case "anthropic":
		return NewAnthropicProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
