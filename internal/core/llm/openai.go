package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// structuredMode selects how an OpenAI-compatible API is asked for JSON
type structuredMode int

const (
	modeJSONSchema structuredMode = iota // strict schema (OpenAI)
	modeJSONObject                       // any JSON object, schema described in the prompt
)

// OpenAIProvider talks to OpenAI or any API that speaks the same protocol
type OpenAIProvider struct {
	client      *openai.Client
	name        string
	model       string
	temperature float32
	maxTokens   int
	mode        structuredMode
}

func NewOpenAIProvider(apiKey string, model string, temperature float32, maxTokens int) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return newOpenAICompatible("OpenAI", openai.DefaultConfig(apiKey), model, temperature, maxTokens, modeJSONSchema)
}

// NewGroqProvider uses Groq's OpenAI-compatible endpoint
func NewGroqProvider(apiKey string, model string, temperature float32, maxTokens int) *OpenAIProvider {
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = "https://api.groq.com/openai/v1"
	return newOpenAICompatible("Groq", config, model, temperature, maxTokens, modeJSONObject)
}

// NewDeepSeekProvider uses DeepSeek's OpenAI-compatible endpoint
func NewDeepSeekProvider(apiKey string, model string, temperature float32, maxTokens int) *OpenAIProvider {
	if model == "" {
		model = "deepseek-chat"
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = "https://api.deepseek.com"
	return newOpenAICompatible("DeepSeek", config, model, temperature, maxTokens, modeJSONObject)
}

func newOpenAICompatible(name string, config openai.ClientConfig, model string, temperature float32, maxTokens int, mode structuredMode) *OpenAIProvider {
	if temperature == 0 {
		temperature = 0.5
	}
	if maxTokens == 0 {
		maxTokens = 400
	}
	config.HTTPClient = &http.Client{
		Timeout: 60 * time.Second,
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		name:        name,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		mode:        mode,
	}
}

func (p *OpenAIProvider) GetProviderName() string {
	return p.name
}

func (p *OpenAIProvider) GetModel() string {
	return p.model
}

func (p *OpenAIProvider) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return p.complete(ctx, p.request(systemPrompt, userMessage))
}

func (p *OpenAIProvider) GenerateStructured(ctx context.Context, systemPrompt, userMessage string, schema Schema) (string, error) {
	req := p.request(systemPrompt, userMessage)

	switch p.mode {
	case modeJSONSchema:
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schema.Name,
				Schema: &schema.Definition,
				Strict: true,
			},
		}
	default:
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	return p.complete(ctx, req)
}

func (p *OpenAIProvider) request(systemPrompt, userMessage string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	}
}

func (p *OpenAIProvider) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s error: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", p.name)
	}

	return resp.Choices[0].Message.Content, nil
}
