package factory

import (
	"fmt"

	"darwinian-be/pkg/llm"
	"darwinian-be/pkg/llm/ollama"
	"darwinian-be/pkg/llm/openai"
	"darwinian-be/pkg/llm/openrouter"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderOllama     = "ollama"
)

// NewLLMProvider builds the gateway for providerType. modelName is only the
// fallback model; agents pass their own via llm.WithModel.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case ProviderOpenRouter, "":
		return openrouter.NewProvider(apiKey, baseURL, modelName), nil
	case ProviderOpenAI:
		return openai.NewProvider(apiKey, baseURL, modelName), nil
	case ProviderOllama:
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
