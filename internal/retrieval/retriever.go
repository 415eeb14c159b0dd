// Package retrieval finds prior exchanges similar to an incoming prompt.
//
// Retrieval runs through an ordered list of strategies (vector similarity,
// then keyword search over recent logs) and degrades to a curated static
// corpus when the live tiers fail or return too little. The request never
// fails because retrieval failed.
package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/argenova/mesai-ai/internal/models"
)

const (
	// minResults is the accumulation threshold that short-circuits the
	// strategy chain.
	minResults = 2

	// maxResults caps what FindSimilar ever returns.
	maxResults = 3
)

// Strategy is one retrieval tier: attempt retrieval, return list-or-empty.
type Strategy interface {
	Name() string
	Retrieve(ctx context.Context, prompt string, limit int) ([]models.Example, error)
}

// Retriever iterates strategies in order, accumulating deduplicated results
// until the minimum count is met, and falls back to the curated corpus.
type Retriever struct {
	strategies []Strategy
	static     *StaticExamples
	logger     *slog.Logger
}

// New creates a retriever over the given ordered strategies.
func New(static *StaticExamples, logger *slog.Logger, strategies ...Strategy) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{strategies: strategies, static: static, logger: logger}
}

// FindSimilar returns at most three prompt/response examples similar to the
// prompt. It never returns an error: a failing tier sends the lookup straight
// to the curated corpus, whose selection depends on domain keyword density.
func (r *Retriever) FindSimilar(ctx context.Context, prompt string) []models.Example {
	var acc []models.Example
	seen := make(map[string]bool)

	for _, strategy := range r.strategies {
		if len(acc) >= minResults {
			break
		}

		got, err := strategy.Retrieve(ctx, prompt, maxResults)
		if err != nil {
			r.logger.Warn("retrieval tier failed, using curated examples",
				"tier", strategy.Name(), "error", err)
			return r.static.Select(prompt)
		}

		for _, ex := range got {
			key := strings.ToLower(strings.TrimSpace(ex.Prompt))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			acc = append(acc, ex)
		}

		r.logger.Debug("retrieval tier done",
			"tier", strategy.Name(), "tier_results", len(got), "accumulated", len(acc))
	}

	if len(acc) < minResults {
		return r.static.Select(prompt)
	}
	if len(acc) > maxResults {
		acc = acc[:maxResults]
	}
	return acc
}
