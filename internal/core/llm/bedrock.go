package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/rs/zerolog/log"
)

// bedrockInvoker is the subset of the Bedrock runtime client we use
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockProvider runs Anthropic Claude models through AWS Bedrock
type BedrockProvider struct {
	client      bedrockInvoker
	model       string
	temperature float32
	maxTokens   int
}

// NewBedrockProvider loads AWS credentials from the default chain (env, profile, role)
func NewBedrockProvider(ctx context.Context, region, model string, temperature float32, maxTokens int) (*BedrockProvider, error) {
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	p := newBedrockProvider(bedrockruntime.NewFromConfig(cfg), model, temperature, maxTokens)
	log.Info().Str("model", p.model).Str("region", region).Msg("Bedrock provider initialized")
	return p, nil
}

func newBedrockProvider(client bedrockInvoker, model string, temperature float32, maxTokens int) *BedrockProvider {
	if model == "" {
		model = "anthropic.claude-3-haiku-20240307-v1:0"
	}
	if temperature == 0 {
		temperature = 0.5
	}
	if maxTokens == 0 {
		maxTokens = 400
	}
	return &BedrockProvider{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (p *BedrockProvider) GetProviderName() string {
	return "AWS Bedrock"
}

func (p *BedrockProvider) GetModel() string {
	return p.model
}

// Anthropic messages format as accepted by Bedrock InvokeModel
type bedrockClaudeRequest struct {
	AnthropicVersion string                 `json:"anthropic_version"`
	MaxTokens        int                    `json:"max_tokens"`
	Temperature      float32                `json:"temperature"`
	System           string                 `json:"system,omitempty"`
	Messages         []bedrockClaudeMessage `json:"messages"`
}

type bedrockClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type bedrockClaudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (p *BedrockProvider) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	body, err := json.Marshal(bedrockClaudeRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        p.maxTokens,
		Temperature:      p.temperature,
		System:           systemPrompt,
		Messages:         []bedrockClaudeMessage{{Role: "user", Content: userMessage}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock error (model: %s): %w", p.model, err)
	}

	var resp bedrockClaudeResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no response from Bedrock (stop reason: %s)", resp.StopReason)
	}
	return sb.String(), nil
}
