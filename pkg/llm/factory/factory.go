package factory

import (
	"fmt"

	"github.com/TheTechnextInc/mindful-chatbot/pkg/llm"
	"github.com/TheTechnextInc/mindful-chatbot/pkg/llm/ollama"
	"github.com/TheTechnextInc/mindful-chatbot/pkg/llm/perplexity"
)

func NewLLMProvider(providerType, modelName, apiKey, ollamaBaseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "perplexity":
		return perplexity.NewPerplexityProvider(apiKey, modelName), nil
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
