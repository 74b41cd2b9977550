package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// HashProvider is an offline embedder: tokens and token bigrams are hashed
// into a fixed number of buckets with a signed count, then normalized.
// Questions sharing words land close together, which is enough for recall
// of past answers without a model server.
type HashProvider struct {
	dims int
}

func NewHashProvider(dims int) *HashProvider {
	if dims <= 0 {
		dims = 768
	}
	return &HashProvider{dims: dims}
}

func (p *HashProvider) Dimensions() int { return p.dims }

func (p *HashProvider) Generate(ctx context.Context, text string, _ string) (*EmbeddingResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, p.dims)
	tokens := tokenize(text)
	for i, tok := range tokens {
		p.add(vec, tok, 1)
		if i > 0 {
			p.add(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: normalizeVector(vec)},
	}, nil
}

func (p *HashProvider) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(p.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
