package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatCompletionServer(t *testing.T, content string, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		if captured != nil {
			require.NoError(t, json.Unmarshal(body, captured))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testOpenAIProvider(url string, mode structuredMode) *OpenAIProvider {
	config := openai.DefaultConfig("test-key")
	config.BaseURL = url
	return newOpenAICompatible("Test", config, "test-model", 0, 0, mode)
}

func TestOpenAIProvider_GenerateStructuredSendsSchema(t *testing.T) {
	var captured map[string]interface{}
	srv := chatCompletionServer(t, `{"analysis":"a","recommendation":"r"}`, &captured)

	p := testOpenAIProvider(srv.URL, modeJSONSchema)
	out, err := p.GenerateStructured(context.Background(), "sys", "user", AnalysisSchema)

	require.NoError(t, err)
	assert.JSONEq(t, `{"analysis":"a","recommendation":"r"}`, out)

	format, ok := captured["response_format"].(map[string]interface{})
	require.True(t, ok, "response_format present")
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]interface{})
	assert.Equal(t, "client_analysis", schema["name"])
	assert.Equal(t, true, schema["strict"])
}

func TestOpenAIProvider_JSONObjectMode(t *testing.T) {
	var captured map[string]interface{}
	srv := chatCompletionServer(t, `{}`, &captured)

	p := testOpenAIProvider(srv.URL, modeJSONObject)
	_, err := p.GenerateStructured(context.Background(), "sys", "user", AnalysisSchema)

	require.NoError(t, err)
	format := captured["response_format"].(map[string]interface{})
	assert.Equal(t, "json_object", format["type"])
}

func TestOpenAIProvider_GenerateResponse(t *testing.T) {
	var captured map[string]interface{}
	srv := chatCompletionServer(t, "ANALYSIS: ok\nRECOMMENDATION: call", &captured)

	p := testOpenAIProvider(srv.URL, modeJSONSchema)
	out, err := p.GenerateResponse(context.Background(), "sys", "user")

	require.NoError(t, err)
	assert.Equal(t, "ANALYSIS: ok\nRECOMMENDATION: call", out)
	assert.Nil(t, captured["response_format"])
	assert.Equal(t, "test-model", captured["model"])
}

func TestOpenAIProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := testOpenAIProvider(srv.URL, modeJSONSchema)
	_, err := p.GenerateResponse(context.Background(), "sys", "user")
	assert.Error(t, err)
}

func TestGeminiProvider_GenerateResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "sys\n\nuser", req.Contents[0].Parts[0].Text)

		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"ANALYSIS: a"},{"text":"\nRECOMMENDATION: r"}]}}]}`)
	}))
	defer srv.Close()

	p := NewGeminiProvider("key", "gemini-test", 0, 0)
	p.baseURL = srv.URL

	out, err := p.GenerateResponse(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "ANALYSIS: a\nRECOMMENDATION: r", out)
}

func TestGeminiProvider_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	p := NewGeminiProvider("key", "", 0, 0)
	p.baseURL = srv.URL

	_, err := p.GenerateResponse(context.Background(), "sys", "user")
	assert.Error(t, err)
}

func TestGeminiProvider_RespectsContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p := NewGeminiProvider("key", "", 0, 0)
	p.baseURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.GenerateResponse(ctx, "sys", "user")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type fakeInvoker struct {
	input  *bedrockruntime.InvokeModelInput
	output string
	err    error
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.output)}, nil
}

func TestBedrockProvider_GenerateResponse(t *testing.T) {
	invoker := &fakeInvoker{output: `{"content":[{"type":"text","text":"ANALYSIS: a\nRECOMMENDATION: r"}],"stop_reason":"end_turn"}`}
	p := newBedrockProvider(invoker, "", 0, 0)

	out, err := p.GenerateResponse(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "ANALYSIS: a\nRECOMMENDATION: r", out)
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", *invoker.input.ModelId)

	var sent bedrockClaudeRequest
	require.NoError(t, json.Unmarshal(invoker.input.Body, &sent))
	assert.Equal(t, "sys", sent.System)
	assert.Equal(t, "bedrock-2023-05-31", sent.AnthropicVersion)
}

func TestBedrockProvider_Errors(t *testing.T) {
	p := newBedrockProvider(&fakeInvoker{err: errors.New("throttled")}, "", 0, 0)
	_, err := p.GenerateResponse(context.Background(), "sys", "user")
	assert.ErrorContains(t, err, "throttled")

	p = newBedrockProvider(&fakeInvoker{output: `{"content":[]}`}, "", 0, 0)
	_, err = p.GenerateResponse(context.Background(), "sys", "user")
	assert.Error(t, err)
}

func TestNewProvider_RequiresKeys(t *testing.T) {
	_, err := NewProvider(context.Background(), &ProviderConfig{Type: ProviderOpenAI})
	assert.Error(t, err)

	_, err = NewProvider(context.Background(), &ProviderConfig{Type: "mystery"})
	assert.Error(t, err)

	p, err := NewProvider(context.Background(), &ProviderConfig{Type: ProviderGroq, GroqKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "Groq", p.GetProviderName())
	_, structured := p.(StructuredGenerator)
	assert.True(t, structured)
}

func TestLoadProviderFromEnv_Defaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("AWS_REGION", "")

	cfg := LoadProviderFromEnv()
	assert.Equal(t, ProviderGemini, cfg.Type)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)

	t.Setenv("LLM_PROVIDER", "")
	svc, err := NewServiceFromEnv(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, svc)
}

func TestBuildClientContext(t *testing.T) {
	out := BuildClientContext(ClientContext{
		Name:               "Ana",
		Phone:              "555",
		Status:             "Active",
		LastInteraction:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DaysSince:          14,
		InteractionCount:   5,
		RecentInteractions: []string{"e", "d", "c"},
	})

	assert.Contains(t, out, "Client: Ana")
	assert.Contains(t, out, "Days since last interaction: 14")
	assert.Contains(t, out, "Last interaction: 2025-03-01T00:00:00Z")
	assert.Contains(t, out, "Number of interactions: 5")
	assert.Contains(t, out, "e, d, c")

	assert.Contains(t, BuildAnalysisSystemPrompt(true), "JSON")
	assert.Contains(t, BuildAnalysisSystemPrompt(false), "RECOMMENDATION:")
}
