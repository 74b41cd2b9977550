package embedding

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider embeds through any OpenAI-compatible /embeddings endpoint.
type OpenAIProvider struct {
	client *goopenai.Client
	model  goopenai.EmbeddingModel
	dims   int
}

func NewOpenAIProvider(apiKey, baseURL, model string, dims int) *OpenAIProvider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = string(goopenai.SmallEmbedding3)
	}
	return &OpenAIProvider{
		client: goopenai.NewClientWithConfig(cfg),
		model:  goopenai.EmbeddingModel(model),
		dims:   dims,
	}
}

func (p *OpenAIProvider) Dimensions() int { return p.dims }

func (p *OpenAIProvider) Generate(ctx context.Context, text string, _ string) (*EmbeddingResponse, error) {
	req := goopenai.EmbeddingRequest{
		Input: []string{text},
		Model: p.model,
	}
	if p.dims > 0 {
		req.Dimensions = p.dims
	}

	resp, err := p.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai embedding: empty vector")
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: normalizeVector(resp.Data[0].Embedding)},
	}, nil
}
