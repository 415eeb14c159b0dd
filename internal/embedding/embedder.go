// Package embedding provides text embedding generation with a deterministic
// hash-based fallback for when the provider is unreachable.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/argenova/mesai-ai/internal/config"
	"github.com/argenova/mesai-ai/internal/metrics"
)

// ErrUnavailable indicates the embedding provider could not be reached and
// the configured policy forbids silent substitution.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Embedder defines the interface for text embedding providers.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the name of the embedding model being used.
	Model() string

	// Dimension returns the embedding vector dimension.
	// Must match the vector store collection dimension.
	Dimension() int
}

// Service wraps a primary Embedder with the configured fallback policy.
// With FallbackHash, provider failures degrade to a deterministic hash
// embedding instead of erroring; with FallbackError they surface as
// ErrUnavailable.
type Service struct {
	primary  Embedder
	fallback *HashEmbedder
	policy   config.FallbackPolicy
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// Compile-time check that Service implements Embedder.
var _ Embedder = (*Service)(nil)

// NewService creates the embedding service for the given configuration.
// Provider calls are timed on the collector; pass the process-wide one so the
// numbers show up in the stats endpoint.
func NewService(primary Embedder, policy config.FallbackPolicy, collector *metrics.Collector, logger *slog.Logger) *Service {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		primary:  primary,
		fallback: NewHashEmbedder(primary.Dimension()),
		policy:   policy,
		metrics:  collector,
		logger:   logger,
	}
}

// Model returns the primary model name.
func (s *Service) Model() string { return s.primary.Model() }

// Dimension returns the embedding dimension.
func (s *Service) Dimension() int { return s.primary.Dimension() }

// Embed generates an embedding, applying the fallback policy on failure.
// The hash fallback is deterministic: identical text yields an identical
// vector across calls and processes.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	var (
		vec []float32
		err error
	)
	s.metrics.Time(metrics.OpEmbedding, func() {
		vec, err = s.primary.Embed(ctx, text)
	})
	if err == nil {
		return vec, nil
	}

	if s.policy == config.FallbackError {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.logger.Warn("embedding provider failed, using hash fallback",
		"model", s.primary.Model(), "error", err)
	return s.fallback.Embed(ctx, text)
}

// EmbedBatch generates embeddings for multiple texts with per-item failure
// isolation: a provider failure on one item only degrades that item.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var (
		vectors [][]float32
		err     error
	)
	s.metrics.Time(metrics.OpEmbedding, func() {
		vectors, err = s.primary.EmbedBatch(ctx, texts)
	})
	if err == nil {
		return vectors, nil
	}

	if s.policy == config.FallbackError {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.logger.Warn("batch embedding failed, falling back per item",
		"count", len(texts), "error", err)

	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, itemErr := s.primary.Embed(ctx, text)
		if itemErr != nil {
			vec, _ = s.fallback.Embed(ctx, text)
		}
		out[i] = vec
	}
	return out, nil
}
