package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// LLMProvider interface untuk multiple AI providers
type LLMProvider interface {
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
	GetProviderName() string
	GetModel() string
}

// StructuredGenerator is implemented by providers that can constrain their
// output to a JSON schema. The returned string is the raw JSON document.
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, systemPrompt, userMessage string, schema Schema) (string, error)
}

// Schema names a JSON schema for structured output
type Schema struct {
	Name       string
	Definition jsonschema.Definition
}

// ProviderType untuk factory
type ProviderType string

const (
	ProviderNone     ProviderType = ""
	ProviderOpenAI   ProviderType = "openai"
	ProviderGemini   ProviderType = "gemini"
	ProviderGroq     ProviderType = "groq"
	ProviderDeepSeek ProviderType = "deepseek"
	ProviderBedrock  ProviderType = "bedrock"
)

// ProviderConfig untuk create provider
type ProviderConfig struct {
	Type ProviderType

	// API Keys
	OpenAIKey   string
	GeminiKey   string
	GroqKey     string
	DeepSeekKey string

	// AWS region for Bedrock; credentials come from the default AWS chain
	AWSRegion string

	// Model configs
	Model       string
	Temperature float32
	MaxTokens   int
}

// NewProvider factory untuk create LLM provider
func NewProvider(ctx context.Context, cfg *ProviderConfig) (LLMProvider, error) {
	switch cfg.Type {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderGroq:
		if cfg.GroqKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is required")
		}
		return NewGroqProvider(cfg.GroqKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderDeepSeek:
		if cfg.DeepSeekKey == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY is required")
		}
		return NewDeepSeekProvider(cfg.DeepSeekKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
		return NewGeminiProvider(cfg.GeminiKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderBedrock:
		return NewBedrockProvider(ctx, cfg.AWSRegion, cfg.Model, cfg.Temperature, cfg.MaxTokens)

	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
}

// LoadProviderFromEnv load config dari environment variables.
// An empty LLM_PROVIDER means no external provider; analysis runs on the local classifier only.
func LoadProviderFromEnv() *ProviderConfig {
	cfg := &ProviderConfig{
		Type:        ProviderType(os.Getenv("LLM_PROVIDER")),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		GroqKey:     os.Getenv("GROQ_API_KEY"),
		DeepSeekKey: os.Getenv("DEEPSEEK_API_KEY"),
		AWSRegion:   os.Getenv("AWS_REGION"),
		Model:       os.Getenv("LLM_MODEL"),
		// Answers are two short fields
		Temperature: 0.5,
		MaxTokens:   400,
	}

	if cfg.Model == "" {
		// Provider-specific defaults
		switch cfg.Type {
		case ProviderOpenAI:
			cfg.Model = "gpt-4o-mini"
		case ProviderGemini:
			cfg.Model = "gemini-2.5-flash"
		case ProviderGroq:
			cfg.Model = "llama-3.1-8b-instant"
		case ProviderDeepSeek:
			cfg.Model = "deepseek-chat"
		case ProviderBedrock:
			cfg.Model = "anthropic.claude-3-haiku-20240307-v1:0"
		}
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = "us-east-1"
	}

	return cfg
}
