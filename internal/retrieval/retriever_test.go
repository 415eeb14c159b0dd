package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argenova/mesai-ai/internal/models"
)

// stubTier is a scripted retrieval strategy.
type stubTier struct {
	name     string
	examples []models.Example
	err      error
	calls    int
}

func (s *stubTier) Name() string { return s.name }

func (s *stubTier) Retrieve(context.Context, string, int) ([]models.Example, error) {
	s.calls++
	return s.examples, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testCorpus() *StaticExamples {
	return NewStaticExamples([]models.Example{
		{Prompt: "kurgu bir", Response: "yanıt bir"},
		{Prompt: "kurgu iki", Response: "yanıt iki"},
		{Prompt: "kurgu üç", Response: "yanıt üç"},
		{Prompt: "kurgu dört", Response: "yanıt dört"},
	})
}

func ex(n string) models.Example {
	return models.Example{Prompt: n, Response: "yanıt " + n}
}

func TestFindSimilarFirstTierSufficient(t *testing.T) {
	first := &stubTier{name: "vector", examples: []models.Example{ex("a"), ex("b")}}
	second := &stubTier{name: "keyword", examples: []models.Example{ex("c")}}
	r := New(testCorpus(), testLogger(), first, second)

	got := r.FindSimilar(context.Background(), "mesai sorusu")

	require.Len(t, got, 2)
	assert.Equal(t, 0, second.calls, "second tier must not run once the minimum is met")
}

func TestFindSimilarAccumulatesAcrossTiers(t *testing.T) {
	first := &stubTier{name: "vector", examples: []models.Example{ex("a")}}
	second := &stubTier{name: "keyword", examples: []models.Example{ex("b"), ex("c")}}
	r := New(testCorpus(), testLogger(), first, second)

	got := r.FindSimilar(context.Background(), "mesai sorusu")

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Prompt)
	assert.Equal(t, "b", got[1].Prompt)
}

func TestFindSimilarNeverExceedsThree(t *testing.T) {
	first := &stubTier{name: "vector", examples: []models.Example{ex("a")}}
	second := &stubTier{name: "keyword", examples: []models.Example{ex("b"), ex("c"), ex("d"), ex("e")}}
	r := New(testCorpus(), testLogger(), first, second)

	got := r.FindSimilar(context.Background(), "mesai sorusu")

	assert.Len(t, got, 3)
}

func TestFindSimilarDeduplicatesByPrompt(t *testing.T) {
	first := &stubTier{name: "vector", examples: []models.Example{ex("a")}}
	second := &stubTier{name: "keyword", examples: []models.Example{
		{Prompt: "  A ", Response: "kopya"},
		ex("b"),
	}}
	r := New(testCorpus(), testLogger(), first, second)

	got := r.FindSimilar(context.Background(), "mesai sorusu")

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Prompt)
	assert.Equal(t, "b", got[1].Prompt)
}

func TestFindSimilarTierErrorFallsBackToCurated(t *testing.T) {
	first := &stubTier{name: "vector", examples: []models.Example{ex("a")}}
	failing := &stubTier{name: "keyword", err: errors.New("store down")}
	r := New(testCorpus(), testLogger(), first, failing)

	got := r.FindSimilar(context.Background(), "mesai sorusu")

	// The curated corpus replaces everything accumulated so far.
	require.Len(t, got, 2)
	assert.Equal(t, "kurgu bir", got[0].Prompt)
	assert.Equal(t, "kurgu iki", got[1].Prompt)
}

func TestFindSimilarInsufficientFallsBackToCurated(t *testing.T) {
	first := &stubTier{name: "vector", examples: []models.Example{ex("a")}}
	second := &stubTier{name: "keyword"}
	r := New(testCorpus(), testLogger(), first, second)

	got := r.FindSimilar(context.Background(), "mesai sorusu")

	require.Len(t, got, 2)
	assert.Equal(t, "kurgu bir", got[0].Prompt)
}

func TestFindSimilarNoTiersUsesCurated(t *testing.T) {
	r := New(testCorpus(), testLogger())

	got := r.FindSimilar(context.Background(), "pazartesi salı çarşamba mesai")

	// Dense domain vocabulary earns three curated examples.
	assert.Len(t, got, 3)
}
