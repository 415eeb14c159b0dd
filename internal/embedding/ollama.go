package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

const (
	// DefaultModel produces 1024-dimensional vectors.
	DefaultModel = "mxbai-embed-large"

	// DefaultDimension is the dimension for mxbai-embed-large.
	DefaultDimension = 1024
)

// OllamaEmbedder generates embeddings from a local Ollama server.
type OllamaEmbedder struct {
	model     embeddings.Embedder
	modelName string
	dimension int
	timeout   time.Duration
}

// Compile-time check that OllamaEmbedder implements Embedder.
var _ Embedder = (*OllamaEmbedder)(nil)

// NewOllamaEmbedder creates an Ollama embedding client.
// If model is empty, DefaultModel is used; if dimension is 0, DefaultDimension.
// Every call carries a bounded timeout so a hung provider cannot stall requests.
func NewOllamaEmbedder(serverURL, model string, dimension int, timeout time.Duration) (*OllamaEmbedder, error) {
	if model == "" {
		model = DefaultModel
	}
	if dimension == 0 {
		dimension = DefaultDimension
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	llm, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create ollama embedder: %w", err)
	}

	return &OllamaEmbedder{
		model:     embedder,
		modelName: model,
		dimension: dimension,
		timeout:   timeout,
	}, nil
}

// Model returns the configured embedding model name.
func (e *OllamaEmbedder) Model() string { return e.modelName }

// Dimension returns the expected embedding dimension.
func (e *OllamaEmbedder) Dimension() int { return e.dimension }

// Embed generates an embedding vector for the given text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vectors, err := e.model.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	vec := vectors[0]
	if len(vec) != e.dimension {
		return nil, fmt.Errorf("dimension mismatch: got %d, want %d (model: %s)",
			len(vec), e.dimension, e.modelName)
	}
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts in a single request.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vectors, err := e.model.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d",
			len(vectors), len(texts))
	}

	for i, vec := range vectors {
		if len(vec) != e.dimension {
			return nil, fmt.Errorf("embedding %d dimension mismatch: got %d, want %d",
				i, len(vec), e.dimension)
		}
	}
	return vectors, nil
}
