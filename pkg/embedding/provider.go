package embedding

import "context"

// Task types hint asymmetric models about the role of the text.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
	Dimensions() int
}

const (
	ProviderHash   = "hash"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// NewProvider picks an embedder by name. Unknown names fall back to hash.
func NewProvider(kind, baseURL, model, apiKey string, dims int) EmbeddingProvider {
	switch kind {
	case ProviderOllama:
		return NewOllamaProvider(baseURL, model, dims)
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, baseURL, model, dims)
	default:
		return NewHashProvider(dims)
	}
}
