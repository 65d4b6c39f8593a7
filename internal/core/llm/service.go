package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Service wraps LLM provider untuk dependency injection
type Service struct {
	provider LLMProvider
}

// NewServiceFromEnv creates the service for LLM_PROVIDER.
// It returns (nil, nil) when no provider is configured.
func NewServiceFromEnv(ctx context.Context) (*Service, error) {
	cfg := LoadProviderFromEnv()
	if cfg.Type == ProviderNone {
		return nil, nil
	}

	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	log.Info().Str("provider", provider.GetProviderName()).Str("model", provider.GetModel()).Msg("🤖 Using LLM provider")

	return &Service{provider: provider}, nil
}

// NewServiceWithProvider creates service with custom provider (for testing)
func NewServiceWithProvider(provider LLMProvider) *Service {
	return &Service{provider: provider}
}

// Generate performs one request. Providers with structured output are asked
// for a document matching schema; structured reports whether that happened.
func (s *Service) Generate(ctx context.Context, systemPrompt, userMessage string, schema Schema) (text string, structured bool, err error) {
	if sg, ok := s.provider.(StructuredGenerator); ok {
		text, err = sg.GenerateStructured(ctx, systemPrompt, userMessage, schema)
		return text, true, err
	}
	text, err = s.provider.GenerateResponse(ctx, systemPrompt, userMessage)
	return text, false, err
}

// SupportsStructured reports whether the provider can return schema-bound JSON
func (s *Service) SupportsStructured() bool {
	_, ok := s.provider.(StructuredGenerator)
	return ok
}

// GetProviderName returns current provider name
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}

// GetModel returns the model used by the provider
func (s *Service) GetModel() string {
	return s.provider.GetModel()
}
