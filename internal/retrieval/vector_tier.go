package retrieval

import (
	"context"
	"fmt"

	"github.com/argenova/mesai-ai/internal/embedding"
	"github.com/argenova/mesai-ai/internal/metrics"
	"github.com/argenova/mesai-ai/internal/models"
	"github.com/argenova/mesai-ai/internal/vector"
)

// scoreThreshold filters weak similarity hits. Cosine scores at or below it
// are treated as noise.
const scoreThreshold = 0.7

// VectorSearcher is the slice of the vector client this tier needs.
type VectorSearcher interface {
	Search(ctx context.Context, vec []float32, limit int) []vector.Hit
}

// VectorTier retrieves examples by embedding the prompt and running a
// similarity search against the vector store.
type VectorTier struct {
	embedder embedding.Embedder
	store    VectorSearcher
	metrics  *metrics.Collector
}

// NewVectorTier creates the vector similarity tier. Searches are timed on the
// collector; pass the process-wide one so the numbers show up in the stats
// endpoint.
func NewVectorTier(embedder embedding.Embedder, store VectorSearcher, collector *metrics.Collector) *VectorTier {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &VectorTier{embedder: embedder, store: store, metrics: collector}
}

// Name implements Strategy.
func (t *VectorTier) Name() string { return "vector" }

// Retrieve embeds the prompt and keeps hits scoring above the threshold.
// The store client fails closed, so a store outage shows up here as an empty
// result, not an error; only embedding failures propagate.
func (t *VectorTier) Retrieve(ctx context.Context, prompt string, limit int) ([]models.Example, error) {
	vec, err := t.embedder.Embed(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("embed prompt: %w", err)
	}

	var hits []vector.Hit
	t.metrics.Time(metrics.OpVectorSearch, func() {
		hits = t.store.Search(ctx, vec, limit)
	})

	var examples []models.Example
	for _, hit := range hits {
		if hit.Score <= scoreThreshold {
			continue
		}
		p, _ := hit.Payload["prompt"].(string)
		resp, _ := hit.Payload["response"].(string)
		if p == "" || resp == "" {
			continue
		}
		examples = append(examples, models.Example{Prompt: p, Response: resp})
	}
	return examples, nil
}
