package embedding

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// largePrime bounds the multiplicative hash (2^31 - 1).
const largePrime = 2147483647

// HashEmbedder produces deterministic embeddings from term frequencies.
// It has no external dependencies and never fails, trading semantic fidelity
// for availability. Identical input text yields a bit-identical vector.
type HashEmbedder struct {
	dimension int
}

// Compile-time check that HashEmbedder implements Embedder.
var _ Embedder = (*HashEmbedder)(nil)

// NewHashEmbedder creates a hash embedder with the given vector dimension.
func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension == 0 {
		dimension = DefaultDimension
	}
	return &HashEmbedder{dimension: dimension}
}

// Model returns the fallback pseudo-model name.
func (h *HashEmbedder) Model() string { return "hash-fallback" }

// Dimension returns the vector dimension.
func (h *HashEmbedder) Dimension() int { return h.dimension }

// Embed computes the deterministic hash embedding. It never returns an error.
func (h *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return HashEmbedding(text, h.dimension), nil
}

// EmbedBatch computes hash embeddings for each text.
func (h *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i], _ = h.Embed(ctx, text)
	}
	return out, nil
}

// HashEmbedding maps text to an L2-normalized vector of the given dimension.
// Each distinct term (lowercase alphanumeric, length > 2) is hashed to a
// position; a frequency-weighted contribution is added there and half of it
// subtracted at the antipodal position to spread mass across the vector.
// An input with no usable terms yields the zero vector.
func HashEmbedding(text string, dim int) []float32 {
	vec := make([]float64, dim)

	words := tokenize(text)

	// Term frequencies in first-seen order. Ordering matters: the weight of
	// a term decays with its first position in the text.
	order := make([]string, 0, len(words))
	freq := make(map[string]int, len(words))
	for _, w := range words {
		if _, seen := freq[w]; !seen {
			order = append(order, w)
		}
		freq[w]++
	}

	for i, word := range order {
		position := hashWord(word) % dim
		weight := float64(freq[word]) / float64(i+1)

		vec[position] += weight
		vec[(position+dim/2)%dim] -= weight * 0.5
	}

	var sum float64
	for _, v := range vec {
		sum += v * v
	}

	out := make([]float32, dim)
	if magnitude := math.Sqrt(sum); magnitude > 0 {
		for i, v := range vec {
			out[i] = float32(v / magnitude)
		}
	}
	return out
}

// hashWord applies a multiplicative hash (h = h*31 + code mod largePrime).
func hashWord(word string) int {
	var h int64
	for _, r := range word {
		h = (h*31 + int64(r)) % largePrime
	}
	if h < 0 {
		h = -h
	}
	return int(h)
}

// tokenize lowercases, strips punctuation and returns words longer than two
// characters.
func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.ToLower(text))

	var words []string
	for _, w := range strings.Fields(cleaned) {
		if len([]rune(w)) > 2 {
			words = append(words, w)
		}
	}
	return words
}
