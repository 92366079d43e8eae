package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TheTechnextInc/mindful-chatbot/pkg/llm"
)

const defaultBaseURL = "https://api.perplexity.ai"

// PerplexityProvider talks to the Perplexity chat completions API.
type PerplexityProvider struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client
}

// Ensure PerplexityProvider implements LLMProvider
var _ llm.LLMProvider = &PerplexityProvider{}

func NewPerplexityProvider(apiKey, modelName string) *PerplexityProvider {
	if modelName == "" {
		modelName = "sonar-pro"
	}
	return &PerplexityProvider{
		BaseURL:   defaultBaseURL,
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type perplexityChatRequest struct {
	Model                  string              `json:"model"`
	Messages               []perplexityMessage `json:"messages"`
	Temperature            float64             `json:"temperature,omitempty"`
	MaxTokens              int                 `json:"max_tokens,omitempty"`
	ReturnCitations        bool                `json:"return_citations"`
	ReturnImages           bool                `json:"return_images"`
	ReturnRelatedQuestions bool                `json:"return_related_questions"`
}

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type perplexityChatResponse struct {
	Choices []struct {
		Message perplexityMessage `json:"message"`
	} `json:"choices"`
}

// --- Interface Implementation ---

func (p *PerplexityProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("%w: api key not configured", llm.ErrUpstreamUnavailable)
	}

	options := &llm.Options{
		Temperature: 0.4,
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]perplexityMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = perplexityMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := perplexityChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
		// Citations get stripped again downstream, but asking the provider
		// not to produce them keeps replies conversational to begin with.
		ReturnCitations:        false,
		ReturnImages:           false,
		ReturnRelatedQuestions: false,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := p.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d, body: %s", llm.ErrUpstreamUnavailable, resp.StatusCode, string(bodyBytes))
	}

	var pplxResp perplexityChatResponse
	if err := json.Unmarshal(bodyBytes, &pplxResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(pplxResp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", llm.ErrUpstreamUnavailable)
	}

	return pplxResp.Choices[0].Message.Content, nil
}

func (p *PerplexityProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
