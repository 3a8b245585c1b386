package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/andreicstoica/refract/internal/domain"
)

// costPerToken is the text-embedding-3-small price: $0.02 per million tokens.
const costPerToken = 0.02 / 1_000_000

// Result carries the chunks with their vectors attached plus usage accounting.
type Result struct {
	Chunks []domain.TextChunk
	Usage  domain.EmbeddingUsage
}

// Embedder turns text chunks into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, chunks []domain.TextChunk) (Result, error)
}

// Client is an Embedder backed by the OpenAI embeddings API.
type Client struct {
	api   openai.Client
	model openai.EmbeddingModel
}

// NewClient creates a Client authenticated with apiKey. Extra request options
// (custom base URL, retries) are passed through to the underlying SDK client.
func NewClient(apiKey string, opts ...option.RequestOption) *Client {
	merged := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{
		api:   openai.NewClient(merged...),
		model: openai.EmbeddingModelTextEmbedding3Small,
	}
}

// Embed requests vectors for every chunk. Empty input returns an empty result
// with zero usage and never calls out.
func (c *Client) Embed(ctx context.Context, chunks []domain.TextChunk) (Result, error) {
	if len(chunks) == 0 {
		return Result{Chunks: []domain.TextChunk{}}, nil
	}

	inputs := make([]string, len(chunks))
	for i, ch := range chunks {
		inputs[i] = ch.Text
	}

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: inputs},
		Model: c.model,
	})
	if err != nil {
		return Result{}, fmt.Errorf("embeddings request: %w", err)
	}
	if len(resp.Data) != len(chunks) {
		return Result{}, fmt.Errorf("embeddings response: got %d vectors for %d chunks", len(resp.Data), len(chunks))
	}

	out := make([]domain.TextChunk, len(chunks))
	copy(out, chunks)
	for _, d := range resp.Data {
		i := int(d.Index)
		if i < 0 || i >= len(out) {
			return Result{}, fmt.Errorf("embeddings response: vector index %d out of range", i)
		}
		out[i].Embedding = d.Embedding
	}

	tokens := int(resp.Usage.TotalTokens)
	return Result{
		Chunks: out,
		Usage: domain.EmbeddingUsage{
			Tokens: tokens,
			Cost:   float64(tokens) * costPerToken,
		},
	}, nil
}
